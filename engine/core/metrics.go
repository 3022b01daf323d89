package core

const averageCount = 30

// FrameMetrics keeps a rolling average of frame times and a frames-per-second
// counter refreshed every accumulated second.
type FrameMetrics struct {
	counter     int
	frameTimes  [averageCount]float64
	averageMS   float64
	frames      int
	accumulated float64
	fps         float64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{}
}

// Update records one frame that took elapsed seconds. It reports true when a
// new FPS value became available.
func (m *FrameMetrics) Update(elapsed float64) bool {
	frameMS := elapsed * 1000.0
	m.frameTimes[m.counter] = frameMS
	if m.counter == averageCount-1 {
		sum := 0.0
		for _, t := range m.frameTimes {
			sum += t
		}
		m.averageMS = sum / averageCount
	}
	m.counter = (m.counter + 1) % averageCount

	m.frames++
	m.accumulated += frameMS
	if m.accumulated > 1000 {
		m.fps = float64(m.frames)
		m.accumulated -= 1000
		m.frames = 0
		return true
	}
	return false
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime returns the average frame time in milliseconds.
func (m *FrameMetrics) FrameTime() float64 {
	return m.averageMS
}

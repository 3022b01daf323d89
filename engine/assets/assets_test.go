package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine/core"
)

type recorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *recorder) Send(e core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if ue, ok := e.(core.UserEvent); ok && ue.Payload == (Changed{Name: name}) {
			return true
		}
	}
	return false
}

func TestReadAndPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "a.fnt"), []byte("abc"), 0o644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	data, err := m.Read("fonts/a.fnt")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	_, err = m.Read("missing.png")
	var re *core.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, core.ResourceAsset, re.Kind)

	_, err = m.Path("../outside")
	assert.Error(t, err)
}

func TestNewManagerRejectsMissingRoot(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWatchForwardsChanges(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, m.Watch(rec))
	defer m.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheet.png"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return rec.has("sheet.png") }, 5*time.Second, 10*time.Millisecond)

	// a directory created after Watch is picked up as well
	sub := filepath.Join(dir, "levels")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(sub, "one.txt"), []byte("1"), 0o644)
		return rec.has("levels/one.txt")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCloseTwiceAndWatchAfterClose(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, m.Watch(&recorder{}))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Watch(&recorder{}), ErrClosed)
}

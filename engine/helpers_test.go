package engine_test

import "github.com/spaghettifunk/tinta/engine/sprite"

func spriteAt(x, y float32) sprite.Instance {
	return sprite.Instance{
		Src:  sprite.Rect{W: 1, H: 1},
		Dst:  sprite.Rect{X: x, Y: y, W: 16, H: 16},
		Tint: sprite.White,
	}
}

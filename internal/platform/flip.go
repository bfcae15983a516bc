package platform

import (
	"math"

	"github.com/1broseidon/tbsim/internal/geometry"
)

// Window systems with a top-left origin are flipped so the rest of the code
// sees y growing upward from the bottom of the root window.

func rectFromRoot(x, y, width, height, rootHeight int) geometry.Rect {
	return geometry.NewRect(float64(x), float64(rootHeight-(y+height)), float64(width), float64(height))
}

func pointFromRoot(x, y, rootHeight int) geometry.Point {
	return geometry.Point{X: float64(x), Y: float64(rootHeight - y)}
}

func rectToRoot(r geometry.Rect, rootHeight int) (x, y, width, height int) {
	width = int(math.Round(r.Width()))
	height = int(math.Round(r.Height()))
	x = int(math.Round(r.MinX()))
	y = rootHeight - int(math.Round(r.MinY())) - height
	return x, y, width, height
}

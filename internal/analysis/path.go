package analysis

import (
	"strings"

	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/sim"
)

// TrackedPath returns the tracked centroid of every sample that has one.
func TrackedPath(samples []sim.Sample) []geom.Vector {
	path := make([]geom.Vector, 0, len(samples))
	for _, s := range samples {
		if s.HasTracked {
			path = append(path, s.Tracked)
		}
	}
	return path
}

// PathToASCII plots path on a width x height character grid with y
// pointing up. The first point is 'o' and the last is '@'.
func PathToASCII(path []geom.Vector, width, height int) string {
	if len(path) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := geom.Bounds(geom.Polygon(path))
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(p geom.Vector, c rune) {
		col := int((p.X - lo.X) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-lo.Y)/rangeY*float64(height-1))
		canvas[row][col] = c
	}
	for _, p := range path {
		plot(p, '•')
	}
	plot(path[0], 'o')
	plot(path[len(path)-1], '@')

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	for _, row := range canvas {
		b.WriteString("│" + string(row) + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", width) + "┘\n")
	return b.String()
}

package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// View is an orthographic projection of a rotated scene onto the canvas.
type View struct {
	rots   [2]r3.Rotation
	Center r3.Vec
	// world units per sub-pixel
	Scale float64
}

// Fit builds a view rotated by ax about x and then ay about y, centred on
// pts and scaled so that every point lands on the canvas.
func Fit(c *Canvas, ax, ay float64, pts []r3.Vec) View {
	v := View{
		rots: [2]r3.Rotation{
			r3.NewRotation(ax, r3.Vec{X: 1}),
			r3.NewRotation(ay, r3.Vec{Y: 1}),
		},
		Scale: 1,
	}
	if len(pts) == 0 {
		return v
	}

	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range pts {
		q := v.rotate(p)
		lo.X, lo.Y = math.Min(lo.X, q.X), math.Min(lo.Y, q.Y)
		hi.X, hi.Y = math.Max(hi.X, q.X), math.Max(hi.Y, q.Y)
	}
	v.Center = r3.Vec{X: 0.5 * (lo.X + hi.X), Y: 0.5 * (lo.Y + hi.Y)}

	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	span := math.Max((hi.X-lo.X)/w, (hi.Y-lo.Y)/h)
	if span > 0 {
		v.Scale = span
	}
	return v
}

func (v View) rotate(p r3.Vec) r3.Vec {
	return v.rots[1].Rotate(v.rots[0].Rotate(p))
}

// Project maps p to sub-pixel coordinates; y grows downwards.
func (v View) Project(c *Canvas, p r3.Vec) (int, int) {
	q := r3.Sub(v.rotate(p), v.Center)
	x := float64(2*c.Width-1)/2 + q.X/v.Scale
	y := float64(4*c.Height-1)/2 - q.Y/v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// DrawPoints marks every point with a small cross.
func (c *Canvas) DrawPoints(v View, pts []r3.Vec) {
	for _, p := range pts {
		x, y := v.Project(c, p)
		c.Set(x, y)
		c.Set(x+1, y)
		c.Set(x, y+1)
		c.Set(x+1, y+1)
	}
}

// DrawBox outlines the orthorhombic cell [0, cell).
func (c *Canvas) DrawBox(v View, cell r3.Vec) {
	var corners [8]r3.Vec
	for k := range corners {
		if k&1 != 0 {
			corners[k].X = cell.X
		}
		if k&2 != 0 {
			corners[k].Y = cell.Y
		}
		if k&4 != 0 {
			corners[k].Z = cell.Z
		}
	}
	for a := 0; a < 8; a++ {
		for _, bit := range []int{1, 2, 4} {
			if a&bit != 0 {
				continue
			}
			x0, y0 := v.Project(c, corners[a])
			x1, y1 := v.Project(c, corners[a|bit])
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

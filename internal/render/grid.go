// Package render turns the sparse 2D grids produced by the painter
// (cmd/painter) and maze (cmd/maze) drivers into image files, using the
// teacher's own vendored image stack: github.com/anthonynsimon/bild for
// PNG encoding, github.com/nfnt/resize for thumbnailing, and
// github.com/jbuchbinder/gopnm for a PNM export. None of this lives in
// pkg/ because it is puzzle-specific post-processing (spec.md §1's
// explicit Non-goal), not part of the VM/port/fabric surface.
package render

import (
	"image"
	"image/color"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/jbuchbinder/gopnm"
	"github.com/nfnt/resize"
)

// Point is an integer 2D coordinate.
type Point struct {
	X, Y int64
}

// Palette maps a cell's integer code to a color.
type Palette func(code int64) color.Color

// Grid is a sparse map of Point to an integer cell code (a painted
// panel's color, a maze tile type, ...). The zero value is a usable
// empty grid.
type Grid struct {
	cells map[Point]int64
}

// NewGrid returns an empty Grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[Point]int64)}
}

// Set records the code at p.
func (g *Grid) Set(p Point, code int64) {
	if g.cells == nil {
		g.cells = make(map[Point]int64)
	}
	g.cells[p] = code
}

// Get returns the code at p and whether it has ever been set.
func (g *Grid) Get(p Point) (int64, bool) {
	v, ok := g.cells[p]
	return v, ok
}

// Len reports how many distinct points have been set.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Bounds returns the inclusive bounding box of every set point. ok is
// false for an empty grid.
func (g *Grid) Bounds() (minX, minY, maxX, maxY int64, ok bool) {
	first := true
	for p := range g.cells {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY, !first
}

// toImage rasterizes the grid at the given integer pixel scale (each
// cell becomes a scale x scale block), coloring unset cells with
// background.
func (g *Grid) toImage(scale int, palette Palette, background color.Color) *image.RGBA {
	minX, minY, maxX, maxY, ok := g.Bounds()
	if !ok {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	w := int(maxX-minX+1) * scale
	h := int(maxY-minY+1) * scale
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, background)
		}
	}

	for p, code := range g.cells {
		c := palette(code)
		px := int(p.X-minX) * scale
		py := int(p.Y-minY) * scale
		for dy := 0; dy < scale; dy++ {
			for dx := 0; dx < scale; dx++ {
				img.Set(px+dx, py+dy, c)
			}
		}
	}
	return img
}

// SavePNG rasterizes the grid and writes it as a PNG via bild's imgio.
func (g *Grid) SavePNG(path string, scale int, palette Palette) error {
	img := g.toImage(scale, palette, color.Black)
	return imgio.Save(path, img, imgio.PNGEncoder())
}

// SaveThumbnailPNG rasterizes the grid at a generous scale, then
// downsamples it to the given width (height follows proportionally) via
// nfnt/resize.
func (g *Grid) SaveThumbnailPNG(path string, width uint, palette Palette) error {
	img := g.toImage(8, palette, color.Black)
	thumb := resize.Resize(width, 0, img, resize.Lanczos3)
	return imgio.Save(path, thumb, imgio.PNGEncoder())
}

// SavePNM rasterizes the grid and writes it in PNM form via gopnm, an
// alternate format for tools that prefer an uncompressed bitmap.
func (g *Grid) SavePNM(path string, scale int, palette Palette) error {
	img := g.toImage(scale, palette, color.Black)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pnm.Encode(f, img)
}

package visual

import (
	"image/color"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/renderer"
)

const DefaultTileSize = 64

var defaultLineColor = color.RGBA{R: 0x3a, G: 0x5a, B: 0x40, A: 0xff}

// BoardRenderer draws the grid and maps screen positions to squares
type BoardRenderer struct {
	// X, Y is the top-left of the board on screen
	X, Y      float32
	TileSize  float32
	LineColor color.Color
}

func NewBoardRenderer(tileSize float32) *BoardRenderer {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &BoardRenderer{
		TileSize:  tileSize,
		LineColor: defaultLineColor,
	}
}

// Size is the width and height of the whole board in pixels
func (r *BoardRenderer) Size() float32 {
	return r.TileSize * bayou.BoardSize
}

func (r *BoardRenderer) Draw(screen renderer.Screen) {
	size := r.Size()
	for i := 0; i <= bayou.BoardSize; i++ {
		offset := float32(i) * r.TileSize
		screen.DrawLine(r.X+offset, r.Y, r.X+offset, r.Y+size, r.LineColor)
		screen.DrawLine(r.X, r.Y+offset, r.X+size, r.Y+offset, r.LineColor)
	}
}

// TilePosition is the top-left of the square at (row, col)
func (r *BoardRenderer) TilePosition(row, col int) (float32, float32) {
	return r.X + float32(col)*r.TileSize, r.Y + float32(row)*r.TileSize
}

// CellAt returns the square under the screen position (x, y), ok is false
// if the position is outside the board.
func (r *BoardRenderer) CellAt(x, y int) (row, col int, ok bool) {
	fx := float32(x) - r.X
	fy := float32(y) - r.Y
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	col = int(fx / r.TileSize)
	row = int(fy / r.TileSize)
	if !bayou.InBounds(row, col) {
		return 0, 0, false
	}
	return row, col, true
}

package rendereriface

import (
	"image"
	"image/color"
)

type ImageOptions struct {
	X, Y           float32
	ScaleX, ScaleY float32
	// Alpha multiplies the image alpha, 0 is treated as fully opaque
	Alpha float32
}

// Image is a texture loaded by the renderer
type Image interface {
	Bounds() image.Rectangle
}

// Game interface was copy-pasted out of Ebiten
type Game interface {
	Update() error
	Draw(screen Screen)
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

type App interface {
	SetRunnableOnUnfocused(v bool)
	SetWindowSize(screenWidth, screenHeight int)
	SetWindowTitle(title string)
	RunGame(game Game) error
	NewImageFromImage(img image.Image) Image
}

type Screen interface {
	Fill(clr color.Color)
	DrawImage(img Image, options ImageOptions)
	DrawLine(x0, y0, x1, y1 float32, clr color.Color)
}

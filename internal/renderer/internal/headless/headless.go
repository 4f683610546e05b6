// headless is the headless mode driver for the game so we can avoid building the
// ebiten library into the server binary
package headless

import (
	"image"
	"image/color"
	"time"

	"github.com/shoeengine/bayou/internal/renderer/internal/rendereriface"
)

// tickRate matches Ebiten's default of 60 updates per second
const tickRate = time.Second / 60

var _ rendereriface.App = new(App)

type App struct {
}

func (app *App) SetRunnableOnUnfocused(v bool) {
	// n/a for headless
}

func (app *App) SetWindowSize(width, height int) {
	// n/a for headless
}

func (app *App) SetWindowTitle(title string) {
	// n/a for headless
}

// RunGame calls Update at a fixed rate until it returns an error.
// Draw is never called.
func (app *App) RunGame(game rendereriface.Game) error {
	tick := time.NewTicker(tickRate)
	defer tick.Stop()
	for range tick.C {
		if err := game.Update(); err != nil {
			return err
		}
	}
	return nil
}

// NewImageFromImage keeps only the dimensions, there is nothing to upload to
func (app *App) NewImageFromImage(img image.Image) rendereriface.Image {
	return &Image{bounds: img.Bounds()}
}

type Image struct {
	bounds image.Rectangle
}

func (img *Image) Bounds() image.Rectangle {
	return img.bounds
}

var _ rendereriface.Screen = new(Screen)

type Screen struct {
}

func (screen *Screen) Fill(clr color.Color) {
}

func (screen *Screen) DrawImage(img rendereriface.Image, options rendereriface.ImageOptions) {
}

func (screen *Screen) DrawLine(x0, y0, x1, y1 float32, clr color.Color) {
}

package graphics

import (
	"github.com/shoeengine/bayou/internal/renderer"
)

// Sprite is an image with a position, scale and alpha
type Sprite struct {
	Image   renderer.Image
	X, Y    float32
	ScaleX  float32
	ScaleY  float32
	Alpha   float32
	Visible bool
}

func NewSprite(img renderer.Image) *Sprite {
	return &Sprite{
		Image:   img,
		ScaleX:  1,
		ScaleY:  1,
		Alpha:   1,
		Visible: true,
	}
}

// Size is the image size after scaling
func (s *Sprite) Size() (float32, float32) {
	if s.Image == nil {
		return 0, 0
	}
	size := s.Image.Bounds().Size()
	return float32(size.X) * s.ScaleX, float32(size.Y) * s.ScaleY
}

// Draw does nothing for hidden sprites, sprites without an image or
// sprites that are fully scaled down or transparent.
func (s *Sprite) Draw(screen renderer.Screen) {
	if !s.Visible ||
		s.Image == nil ||
		s.ScaleX == 0 ||
		s.ScaleY == 0 ||
		s.Alpha <= 0 {
		return
	}
	screen.DrawImage(s.Image, renderer.ImageOptions{
		X:      s.X,
		Y:      s.Y,
		ScaleX: s.ScaleX,
		ScaleY: s.ScaleY,
		Alpha:  s.Alpha,
	})
}

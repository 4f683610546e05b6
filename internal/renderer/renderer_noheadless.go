//go:build !headless

package renderer

import (
	"github.com/shoeengine/bayou/internal/renderer/internal/ebiten"
)

type appImplementation = ebiten.App

//go:build headless

package renderer

import (
	"github.com/shoeengine/bayou/internal/renderer/internal/headless"
)

type appImplementation = headless.App

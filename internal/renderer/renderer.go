package renderer

import (
	"github.com/shoeengine/bayou/internal/renderer/internal/rendereriface"
)

// ImageOptions are draw options for an image
type ImageOptions = rendereriface.ImageOptions

// Image is a sprite loaded by the renderer
type Image = rendereriface.Image

type Screen = rendereriface.Screen

type Game = rendereriface.Game

// Driver is what App implements, split out so callers that only need to
// create images can accept a fake in tests.
type Driver = rendereriface.App

// App is the implementation of the renderer
type App = appImplementation // appImplementation changes type based on build tags, we do this so function calls are inlined and cost less, checked with "go build -gcflags=-m=2"

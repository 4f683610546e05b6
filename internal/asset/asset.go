// asset is the game data and images built into the binary
package asset

import (
	"embed"
)

// GameData is the default data file name inside FS
const GameData = "game.json"

// FS holds game.json and every image it refers to, image paths in
// game.json are relative to the root of FS
//
//go:embed game.json *.png
var FS embed.FS

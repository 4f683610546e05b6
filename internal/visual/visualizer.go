// visual draws a bayou.State
package visual

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/graphics"
	"github.com/shoeengine/bayou/internal/hash"
	"github.com/shoeengine/bayou/internal/renderer"
)

// PlayerImage is drawn for piece types that don't have their own image
const PlayerImage = "player_image"

const (
	popInDuration = 0.25
	player2Alpha  = 0.6
)

// Images is where the visualizer looks up piece images
type Images interface {
	ImageByHash(id hash.Value) renderer.Image
}

type cellView struct {
	occupied bool
	owner    bayou.PlayerID
	typ      hash.Value
}

// StateVisualizer keeps one sprite per square in sync with a State
type StateVisualizer struct {
	board   *BoardRenderer
	images  Images
	views   [bayou.NumSquares]cellView
	sprites [bayou.NumSquares]*graphics.Sprite
	tweens  [bayou.NumSquares]*gween.Tween
	// pop is the current tween value per square, 1 when settled
	pop [bayou.NumSquares]float32
}

func NewStateVisualizer(board *BoardRenderer, images Images) *StateVisualizer {
	v := &StateVisualizer{
		board:  board,
		images: images,
	}
	for i := range v.sprites {
		v.sprites[i] = graphics.NewSprite(nil)
		v.sprites[i].Visible = false
		v.pop[i] = 1
	}
	return v
}

// Sprite returns the sprite for a square, nil if index is off the board
func (v *StateVisualizer) Sprite(index int) *graphics.Sprite {
	if index < 0 || index >= bayou.NumSquares {
		return nil
	}
	return v.sprites[index]
}

// Update refreshes the sprites from state and advances pop-in animations by
// dt seconds.
func (v *StateVisualizer) Update(state *bayou.State, dt float32) {
	for i := 0; i < bayou.NumSquares; i++ {
		next := cellView{}
		if owner, piece, ok := state.PieceAt(bayou.FromIndex(i)); ok {
			next = cellView{
				occupied: true,
				owner:    owner,
				typ:      piece.Type,
			}
		}
		if next != v.views[i] {
			v.views[i] = next
			v.tweens[i] = nil
			v.pop[i] = 1
			if next.occupied {
				v.tweens[i] = gween.New(0, 1, popInDuration, ease.OutBack)
				v.pop[i] = 0
			}
		}
		if tween := v.tweens[i]; tween != nil {
			value, finished := tween.Update(dt)
			v.pop[i] = value
			if finished {
				v.tweens[i] = nil
				v.pop[i] = 1
			}
		}
		v.layout(i)
	}
}

func (v *StateVisualizer) layout(index int) {
	sprite := v.sprites[index]
	view := v.views[index]
	if !view.occupied {
		sprite.Visible = false
		sprite.Image = nil
		return
	}
	img := v.imageFor(view.typ)
	sprite.Image = img
	sprite.Visible = img != nil
	if img == nil {
		return
	}
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		sprite.Visible = false
		return
	}
	tile := v.board.TileSize
	sprite.ScaleX = tile / float32(size.X) * v.pop[index]
	sprite.ScaleY = tile / float32(size.Y) * v.pop[index]
	row, col := bayou.FromIndex(index)
	x, y := v.board.TilePosition(row, col)
	// keep the sprite centred while it scales in
	inset := tile * (1 - v.pop[index]) / 2
	sprite.X = x + inset
	sprite.Y = y + inset
	sprite.Alpha = 1
	if view.owner == bayou.Player2 {
		sprite.Alpha = player2Alpha
	}
}

func (v *StateVisualizer) imageFor(pieceType hash.Value) renderer.Image {
	if img := v.images.ImageByHash(pieceType); img != nil {
		return img
	}
	return v.images.ImageByHash(hash.String(PlayerImage))
}

// Draw draws the grid, then every piece
func (v *StateVisualizer) Draw(screen renderer.Screen) {
	v.board.Draw(screen)
	for _, sprite := range v.sprites {
		sprite.Draw(screen)
	}
}

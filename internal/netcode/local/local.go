// local is the hot-seat controller, both players share this process
package local

import (
	"log"

	"github.com/shoeengine/bayou/internal/netcode"
	"github.com/shoeengine/bayou/internal/world"
)

// compile-time assert we implement this interface
var _ netcode.Controller = new(Controller)

type Controller struct {
}

func New() *Controller {
	return &Controller{}
}

func (net *Controller) HasStartedOrConnected() bool {
	return true
}

func (net *Controller) Err() error {
	return nil
}

// BeforeUpdate applies pending moves for the side to move, then hands
// control to whoever's turn it is now
func (net *Controller) BeforeUpdate(world *world.World) {
	world.MyPlayer = world.Turn
	for _, action := range world.TakePending() {
		if err := world.Apply(world.MyPlayer, action); err != nil {
			log.Printf("move rejected: %v", err)
		}
		world.MyPlayer = world.Turn
	}
}

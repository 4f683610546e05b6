package world

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/hash"
)

// StateManager loads and saves the board through the data file
//
//	{"bayou_state": {"board": [...], "pieces": {...}}}
type StateManager struct {
	world *World
}

func NewStateManager(world *World) *StateManager {
	return &StateManager{world: world}
}

func (m *StateManager) ManagedType() string {
	return "bayou_state"
}

// CreateFromJSON replaces the board. The turn goes back to player 1.
func (m *StateManager) CreateFromJSON(data json.RawMessage) error {
	if err := bayou.UnmarshalJSON(&m.world.State, data, m.world.Names); err != nil {
		return err
	}
	m.world.Turn = bayou.Player1
	return nil
}

func (m *StateManager) SerializeToJSON() (json.RawMessage, error) {
	return bayou.MarshalJSON(&m.world.State, m.world.Names)
}

// PieceCatalogue is the list of piece types a player can pick from
//
//	{"pieces": ["alligator", "crocodile"]}
type PieceCatalogue struct {
	names    *hash.Registry
	types    []string
	selected int
}

func NewPieceCatalogue(names *hash.Registry) *PieceCatalogue {
	if names == nil {
		names = hash.NewRegistry()
	}
	return &PieceCatalogue{names: names}
}

func (m *PieceCatalogue) ManagedType() string {
	return "pieces"
}

func (m *PieceCatalogue) CreateFromJSON(data json.RawMessage) error {
	var types []string
	if err := json.Unmarshal(data, &types); err != nil {
		return errors.Wrap(err, "piece catalogue json error")
	}
	for _, name := range types {
		if name == "" {
			return errors.New("piece type name cannot be empty")
		}
		if _, err := m.names.Register(name); err != nil {
			return errors.Wrapf(err, "unable to register piece type %q", name)
		}
	}
	m.types = types
	m.selected = 0
	return nil
}

func (m *PieceCatalogue) SerializeToJSON() (json.RawMessage, error) {
	types := m.types
	if types == nil {
		types = []string{}
	}
	b, err := json.Marshal(types)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode piece catalogue")
	}
	return b, nil
}

func (m *PieceCatalogue) Types() []string {
	return append([]string(nil), m.types...)
}

// Selected returns the currently selected piece type, ok is false if the
// catalogue is empty
func (m *PieceCatalogue) Selected() (name string, typ hash.Value, ok bool) {
	if len(m.types) == 0 {
		return "", 0, false
	}
	name = m.types[m.selected]
	return name, hash.String(name), true
}

// Contains reports whether typ is one of the catalogue's piece types
func (m *PieceCatalogue) Contains(typ hash.Value) bool {
	for _, name := range m.types {
		if hash.String(name) == typ {
			return true
		}
	}
	return false
}

// Next selects the next piece type, wrapping around at the end
func (m *PieceCatalogue) Next() string {
	if len(m.types) == 0 {
		return ""
	}
	m.selected = (m.selected + 1) % len(m.types)
	return m.types[m.selected]
}

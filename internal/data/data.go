// data routes the sections of a game data file to the managers that own
// them.
//
// A data file is a JSON object keyed by managed type:
//
//	{
//	  "images": [...],
//	  "inputs": {...},
//	  "bayou_state": {...}
//	}
package data

import (
	"encoding/json"
	"io/fs"
	"log"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/hash"
)

var (
	ErrDuplicateManager = errors.New("manager already registered for type")
	ErrUnknownType      = errors.New("no manager registered for type")
)

// Manager creates and serializes one section of a data file
type Manager interface {
	// ManagedType is the top-level key this manager owns, ie. "images"
	ManagedType() string
	CreateFromJSON(data json.RawMessage) error
	SerializeToJSON() (json.RawMessage, error)
}

// DataManager owns the registered managers and the shared name registry
type DataManager struct {
	names    *hash.Registry
	managers map[hash.Value]Manager
	order    []hash.Value
}

func New(names *hash.Registry) *DataManager {
	if names == nil {
		names = hash.NewRegistry()
	}
	return &DataManager{
		names:    names,
		managers: make(map[hash.Value]Manager),
	}
}

// Names is the registry shared with every manager
func (dm *DataManager) Names() *hash.Registry {
	return dm.names
}

func (dm *DataManager) RegisterManager(manager Manager) error {
	if manager == nil {
		return errors.New("cannot register nil manager")
	}
	typ, err := dm.names.Register(manager.ManagedType())
	if err != nil {
		return errors.Wrap(err, "unable to register manager type")
	}
	if _, ok := dm.managers[typ]; ok {
		return errors.Wrapf(ErrDuplicateManager, "%q", manager.ManagedType())
	}
	dm.managers[typ] = manager
	dm.order = append(dm.order, typ)
	return nil
}

// Manager returns the manager registered for typ
func (dm *DataManager) Manager(typ string) (Manager, bool) {
	m, ok := dm.managers[hash.String(typ)]
	return m, ok
}

// LoadFromFile reads path out of fsys and processes it
func (dm *DataManager) LoadFromFile(fsys fs.FS, path string) error {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return errors.Wrapf(err, "failed to open data file %s", path)
	}
	if err := dm.ProcessData(b); err != nil {
		return errors.Wrapf(err, "failed to process data file %s", path)
	}
	return nil
}

// ProcessData hands each top-level section to its manager.
//
// A failing section doesn't stop the others from loading, the first error
// is returned once every section has been tried.
func (dm *DataManager) ProcessData(b []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(b, &sections); err != nil {
		return errors.Wrap(err, "error processing json data")
	}
	// sorted so loading is deterministic, map order is random
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var firstErr error
	for _, typ := range keys {
		manager, ok := dm.Manager(typ)
		if !ok {
			log.Printf("no manager registered for type: %s", typ)
			if firstErr == nil {
				firstErr = errors.Wrapf(ErrUnknownType, "%q", typ)
			}
			continue
		}
		if err := manager.CreateFromJSON(sections[typ]); err != nil {
			log.Printf("failed to process data for type %s: %v", typ, err)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "%q", typ)
			}
		}
	}
	return firstErr
}

// SerializeToJSON writes every manager's section into one object
func (dm *DataManager) SerializeToJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(dm.order))
	for _, typ := range dm.order {
		manager := dm.managers[typ]
		section, err := manager.SerializeToJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize %q", manager.ManagedType())
		}
		out[manager.ManagedType()] = section
	}
	return json.MarshalIndent(out, "", "\t")
}

// SaveToFile writes only the given sections to path. With no types given,
// every section is written.
func (dm *DataManager) SaveToFile(path string, types ...string) error {
	var (
		b   []byte
		err error
	)
	if len(types) == 0 {
		b, err = dm.SerializeToJSON()
	} else {
		b, err = dm.serializeSections(types)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func (dm *DataManager) serializeSections(types []string) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(types))
	for _, typ := range types {
		manager, ok := dm.Manager(typ)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownType, "%q", typ)
		}
		section, err := manager.SerializeToJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize %q", typ)
		}
		out[typ] = section
	}
	return json.MarshalIndent(out, "", "\t")
}

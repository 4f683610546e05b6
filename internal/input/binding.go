package input

import (
	"encoding/json"
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/hash"
)

// GlobalContext is always at the bottom of the context stack
const GlobalContext = "global"

var ErrUnknownBindingType = errors.New("unknown input type")

type BindingType int

const (
	BindingKeyboard BindingType = iota
	BindingMouseButton
	BindingMouseAxis
)

func (typ BindingType) String() string {
	switch typ {
	case BindingKeyboard:
		return "keyboard"
	case BindingMouseButton:
		return "mouseButton"
	case BindingMouseAxis:
		return "mouseAxis"
	}
	return "unknown"
}

// Binding ties a named action (ie. "select") to a key, mouse button or
// mouse axis.
type Binding struct {
	Name   string
	Type   BindingType
	Key    Key
	Button MouseButton
	// XAxis is used by mouse axis bindings, false means the Y axis
	XAxis bool

	active    bool
	wasActive bool
	lastPos   int
	hasPos    bool
}

// IsActive reports whether the binding was held down on the last Update.
// Mouse axis bindings are active on frames where the cursor moved along
// their axis.
func (b *Binding) IsActive() bool {
	return b.active
}

// JustActivated is true only on the first Update the binding became active
func (b *Binding) JustActivated() bool {
	return b.active && !b.wasActive
}

func (b *Binding) update(device Device) {
	b.wasActive = b.active
	switch b.Type {
	case BindingKeyboard:
		b.active = device.IsKeyPressed(b.Key)
	case BindingMouseButton:
		b.active = device.IsMouseButtonPressed(b.Button)
	case BindingMouseAxis:
		x, y := device.MousePosition()
		pos := y
		if b.XAxis {
			pos = x
		}
		b.active = b.hasPos && pos != b.lastPos
		b.lastPos = pos
		b.hasPos = true
	}
}

// bindingJSON is the data file form of a Binding
type bindingJSON struct {
	Name   string       `json:"name"`
	Type   string       `json:"type"`
	Key    string       `json:"key,omitempty"`
	Button *MouseButton `json:"button,omitempty"`
	Axis   string       `json:"axis,omitempty"`
}

func parseBinding(data bindingJSON) (*Binding, error) {
	if data.Name == "" {
		return nil, errors.New("input is missing \"name\"")
	}
	b := &Binding{Name: data.Name}
	switch data.Type {
	case "keyboard":
		b.Type = BindingKeyboard
		b.Key = KeyFromName(data.Key)
		if b.Key == KeyUnknown {
			return nil, errors.Errorf("input %q has unknown key %q", data.Name, data.Key)
		}
	case "mouseButton":
		b.Type = BindingMouseButton
		if data.Button == nil {
			return nil, errors.Errorf("input %q is missing \"button\"", data.Name)
		}
		b.Button = *data.Button
	case "mouseAxis":
		b.Type = BindingMouseAxis
		switch data.Axis {
		case "x":
			b.XAxis = true
		case "y":
		default:
			return nil, errors.Errorf("input %q has unknown axis %q", data.Name, data.Axis)
		}
	default:
		return nil, errors.Wrapf(ErrUnknownBindingType, "%q", data.Type)
	}
	return b, nil
}

func (b *Binding) toJSON() bindingJSON {
	data := bindingJSON{
		Name: b.Name,
		Type: b.Type.String(),
	}
	switch b.Type {
	case BindingKeyboard:
		data.Key = b.Key.String()
	case BindingMouseButton:
		button := b.Button
		data.Button = &button
	case BindingMouseAxis:
		data.Axis = "y"
		if b.XAxis {
			data.Axis = "x"
		}
	}
	return data
}

// Context is a named group of bindings, ie. "board" or "menu"
type Context struct {
	Name     string
	bindings map[hash.Value]*Binding
	order    []hash.Value
}

func (ctx *Context) add(id hash.Value, b *Binding) {
	if _, ok := ctx.bindings[id]; !ok {
		ctx.order = append(ctx.order, id)
	}
	ctx.bindings[id] = b
}

// Manager owns every input context and which of them are active.
//
// Lookups search the context stack newest first, so a pushed context can
// override a binding of the same name in the contexts below it.
type Manager struct {
	names    *hash.Registry
	device   Device
	contexts map[hash.Value]*Context
	order    []hash.Value
	stack    []hash.Value
}

func NewManager(names *hash.Registry, device Device) *Manager {
	if names == nil {
		names = hash.NewRegistry()
	}
	if device == nil {
		device = DefaultDevice
	}
	m := &Manager{
		names:    names,
		device:   device,
		contexts: make(map[hash.Value]*Context),
	}
	global := m.getOrCreateContext(GlobalContext)
	m.stack = append(m.stack, m.names.MustRegister(global.Name))
	return m
}

func (m *Manager) ManagedType() string {
	return "inputs"
}

// CreateFromJSON adds the bindings from a data file section
//
//	{"global": [{"name": "quit", "type": "keyboard", "key": "Escape"}]}
//
// Bindings with an unknown type or key are logged and skipped.
func (m *Manager) CreateFromJSON(data json.RawMessage) error {
	var contexts map[string][]bindingJSON
	if err := json.Unmarshal(data, &contexts); err != nil {
		return errors.Wrap(err, "input manager json error")
	}
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, contextName := range names {
		ctx := m.getOrCreateContext(contextName)
		for _, bindingData := range contexts[contextName] {
			b, err := parseBinding(bindingData)
			if err != nil {
				log.Printf("input creation error: %v", err)
				continue
			}
			id, err := m.names.Register(b.Name)
			if err != nil {
				return errors.Wrapf(err, "unable to register input %q", b.Name)
			}
			ctx.add(id, b)
		}
	}
	return nil
}

func (m *Manager) SerializeToJSON() (json.RawMessage, error) {
	out := make(map[string][]bindingJSON, len(m.contexts))
	for _, id := range m.order {
		ctx := m.contexts[id]
		list := make([]bindingJSON, 0, len(ctx.order))
		for _, bindingID := range ctx.order {
			list = append(list, ctx.bindings[bindingID].toJSON())
		}
		out[ctx.Name] = list
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode inputs")
	}
	return b, nil
}

// Bind adds or replaces a binding in the given context
func (m *Manager) Bind(contextName string, b *Binding) error {
	id, err := m.names.Register(b.Name)
	if err != nil {
		return errors.Wrapf(err, "unable to register input %q", b.Name)
	}
	m.getOrCreateContext(contextName).add(id, b)
	return nil
}

// PushContext makes contextName the newest active context, creating it if
// it doesn't exist yet.
func (m *Manager) PushContext(contextName string) {
	ctx := m.getOrCreateContext(contextName)
	m.stack = append(m.stack, hash.String(ctx.Name))
}

// PopContext deactivates the newest context, the global context is never
// popped.
func (m *Manager) PopContext() {
	if len(m.stack) > 1 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// ActiveContexts returns the active context names, oldest first
func (m *Manager) ActiveContexts() []string {
	r := make([]string, len(m.stack))
	for i, id := range m.stack {
		r[i] = m.contexts[id].Name
	}
	return r
}

// Binding finds name in the active contexts, newest first
func (m *Manager) Binding(name string) *Binding {
	id := hash.String(name)
	for i := len(m.stack) - 1; i >= 0; i-- {
		ctx := m.contexts[m.stack[i]]
		if b, ok := ctx.bindings[id]; ok {
			return b
		}
	}
	return nil
}

func (m *Manager) IsActive(name string) bool {
	b := m.Binding(name)
	return b != nil && b.IsActive()
}

func (m *Manager) JustActivated(name string) bool {
	b := m.Binding(name)
	return b != nil && b.JustActivated()
}

// MousePosition is the cursor position from the manager's device
func (m *Manager) MousePosition() (int, int) {
	return m.device.MousePosition()
}

// Update samples the device for every binding, including those in inactive
// contexts so that pushing a context doesn't fire a stale edge.
func (m *Manager) Update() {
	for _, id := range m.order {
		ctx := m.contexts[id]
		for _, bindingID := range ctx.order {
			ctx.bindings[bindingID].update(m.device)
		}
	}
}

func (m *Manager) getOrCreateContext(contextName string) *Context {
	id := m.names.MustRegister(contextName)
	ctx, ok := m.contexts[id]
	if !ok {
		ctx = &Context{
			Name:     contextName,
			bindings: make(map[hash.Value]*Binding),
		}
		m.contexts[id] = ctx
		m.order = append(m.order, id)
	}
	return ctx
}

package input

import "sort"

// Key represents a keyboard key.
//
// Keys are our own numbering rather than Ebiten's so that ebiten isn't
// included as a package for headless builds, the noheadless driver maps
// them across.
type Key int32

const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyEscape
	KeyLControl
	KeyLShift
	KeyLAlt
	KeyRControl
	KeyRShift
	KeyRAlt
	KeySpace
	KeyEnter
	KeyBackspace
	KeyTab
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	keyMax
)

// keyNames are the names used for keys in data files
var keyNames = [keyMax]string{
	KeyUnknown:   "Unknown",
	KeyA:         "A",
	KeyB:         "B",
	KeyC:         "C",
	KeyD:         "D",
	KeyE:         "E",
	KeyF:         "F",
	KeyG:         "G",
	KeyH:         "H",
	KeyI:         "I",
	KeyJ:         "J",
	KeyK:         "K",
	KeyL:         "L",
	KeyM:         "M",
	KeyN:         "N",
	KeyO:         "O",
	KeyP:         "P",
	KeyQ:         "Q",
	KeyR:         "R",
	KeyS:         "S",
	KeyT:         "T",
	KeyU:         "U",
	KeyV:         "V",
	KeyW:         "W",
	KeyX:         "X",
	KeyY:         "Y",
	KeyZ:         "Z",
	KeyNum0:      "Num0",
	KeyNum1:      "Num1",
	KeyNum2:      "Num2",
	KeyNum3:      "Num3",
	KeyNum4:      "Num4",
	KeyNum5:      "Num5",
	KeyNum6:      "Num6",
	KeyNum7:      "Num7",
	KeyNum8:      "Num8",
	KeyNum9:      "Num9",
	KeyEscape:    "Escape",
	KeyLControl:  "LControl",
	KeyLShift:    "LShift",
	KeyLAlt:      "LAlt",
	KeyRControl:  "RControl",
	KeyRShift:    "RShift",
	KeyRAlt:      "RAlt",
	KeySpace:     "Space",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyDelete:    "Delete",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = Key(k)
	}
	return m
}()

// KeyFromName returns KeyUnknown if name isn't a known key
func KeyFromName(name string) Key {
	return keysByName[name]
}

func (key Key) String() string {
	if key < 0 || key >= keyMax {
		return keyNames[KeyUnknown]
	}
	return keyNames[key]
}

// KeyNames lists every key name that can be used in a data file
func KeyNames() []string {
	names := make([]string, 0, len(keysByName))
	for name := range keysByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func IsKeyPressed(key Key) bool {
	return isKeyPressed(key)
}

// MouseButton represents a mouse button (left, right or middle)
type MouseButton int32

// Define all mouse buttons as there are only 3.
//
// These line up with Ebiten's values and with the "button" numbers used in
// data files.
const (
	MouseButtonLeft   = MouseButton(0)
	MouseButtonRight  = MouseButton(1)
	MouseButtonMiddle = MouseButton(2)
)

func IsMouseButtonPressed(mouseButton MouseButton) bool {
	return isMouseButtonPressed(mouseButton)
}

// MousePosition returns the mouse/cursor position
//
// For headless builds, this always returns (0,0)
func MousePosition() (int, int) {
	x, y := mousePosition()
	return x, y
}

type TouchID int

func TouchIDs() []TouchID {
	return touchIDs()
}

// JustPressedTouchIDs returns touches that started this frame
func JustPressedTouchIDs() []TouchID {
	return justPressedTouchIDs()
}

func TouchPosition(touchID TouchID) (int, int) {
	x, y := touchPosition(touchID)
	return x, y
}

// Device is the source of raw key and mouse state
type Device interface {
	IsKeyPressed(key Key) bool
	IsMouseButtonPressed(button MouseButton) bool
	MousePosition() (int, int)
}

// DefaultDevice reads the real keyboard and mouse (nothing, for headless builds)
var DefaultDevice Device = device{}

type device struct{}

func (device) IsKeyPressed(key Key) bool {
	return IsKeyPressed(key)
}

func (device) IsMouseButtonPressed(button MouseButton) bool {
	return IsMouseButtonPressed(button)
}

func (device) MousePosition() (int, int) {
	return MousePosition()
}

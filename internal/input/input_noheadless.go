//go:build !headless

package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenKeys = [keyMax]ebiten.Key{
	KeyA:         ebiten.KeyA,
	KeyB:         ebiten.KeyB,
	KeyC:         ebiten.KeyC,
	KeyD:         ebiten.KeyD,
	KeyE:         ebiten.KeyE,
	KeyF:         ebiten.KeyF,
	KeyG:         ebiten.KeyG,
	KeyH:         ebiten.KeyH,
	KeyI:         ebiten.KeyI,
	KeyJ:         ebiten.KeyJ,
	KeyK:         ebiten.KeyK,
	KeyL:         ebiten.KeyL,
	KeyM:         ebiten.KeyM,
	KeyN:         ebiten.KeyN,
	KeyO:         ebiten.KeyO,
	KeyP:         ebiten.KeyP,
	KeyQ:         ebiten.KeyQ,
	KeyR:         ebiten.KeyR,
	KeyS:         ebiten.KeyS,
	KeyT:         ebiten.KeyT,
	KeyU:         ebiten.KeyU,
	KeyV:         ebiten.KeyV,
	KeyW:         ebiten.KeyW,
	KeyX:         ebiten.KeyX,
	KeyY:         ebiten.KeyY,
	KeyZ:         ebiten.KeyZ,
	KeyNum0:      ebiten.KeyDigit0,
	KeyNum1:      ebiten.KeyDigit1,
	KeyNum2:      ebiten.KeyDigit2,
	KeyNum3:      ebiten.KeyDigit3,
	KeyNum4:      ebiten.KeyDigit4,
	KeyNum5:      ebiten.KeyDigit5,
	KeyNum6:      ebiten.KeyDigit6,
	KeyNum7:      ebiten.KeyDigit7,
	KeyNum8:      ebiten.KeyDigit8,
	KeyNum9:      ebiten.KeyDigit9,
	KeyEscape:    ebiten.KeyEscape,
	KeyLControl:  ebiten.KeyControlLeft,
	KeyLShift:    ebiten.KeyShiftLeft,
	KeyLAlt:      ebiten.KeyAltLeft,
	KeyRControl:  ebiten.KeyControlRight,
	KeyRShift:    ebiten.KeyShiftRight,
	KeyRAlt:      ebiten.KeyAltRight,
	KeySpace:     ebiten.KeySpace,
	KeyEnter:     ebiten.KeyEnter,
	KeyBackspace: ebiten.KeyBackspace,
	KeyTab:       ebiten.KeyTab,
	KeyDelete:    ebiten.KeyDelete,
	KeyLeft:      ebiten.KeyArrowLeft,
	KeyRight:     ebiten.KeyArrowRight,
	KeyUp:        ebiten.KeyArrowUp,
	KeyDown:      ebiten.KeyArrowDown,
	KeyF1:        ebiten.KeyF1,
	KeyF2:        ebiten.KeyF2,
	KeyF3:        ebiten.KeyF3,
	KeyF4:        ebiten.KeyF4,
	KeyF5:        ebiten.KeyF5,
	KeyF6:        ebiten.KeyF6,
	KeyF7:        ebiten.KeyF7,
	KeyF8:        ebiten.KeyF8,
	KeyF9:        ebiten.KeyF9,
	KeyF10:       ebiten.KeyF10,
	KeyF11:       ebiten.KeyF11,
	KeyF12:       ebiten.KeyF12,
}

func isKeyPressed(key Key) bool {
	if key <= KeyUnknown || key >= keyMax {
		return false
	}
	return ebiten.IsKeyPressed(ebitenKeys[key])
}

func isMouseButtonPressed(mouseButton MouseButton) bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButton(mouseButton))
}

func mousePosition() (int, int) {
	x, y := ebiten.CursorPosition()
	return x, y
}

func touchIDs() []TouchID {
	return toTouchIDs(ebiten.AppendTouchIDs(nil))
}

func justPressedTouchIDs() []TouchID {
	return toTouchIDs(inpututil.AppendJustPressedTouchIDs(nil))
}

func toTouchIDs(ebitenTouchIDs []ebiten.TouchID) []TouchID {
	if len(ebitenTouchIDs) == 0 {
		return nil
	}
	r := make([]TouchID, len(ebitenTouchIDs))
	for i, touchID := range ebitenTouchIDs {
		r[i] = TouchID(touchID)
	}
	return r
}

func touchPosition(touchID TouchID) (int, int) {
	x, y := ebiten.TouchPosition(ebiten.TouchID(touchID))
	return x, y
}

package ui

import "github.com/go-gl/glfw/v3.3/glfw"

// Key bits, per the host<->guest sync protocol's key_code bitmask.
const (
	keyA uint16 = 1 << iota
	keyB
	keyUp
	keyDown
	keyLeft
	keyRight
	keySelect
	keyStart
)

// pollInput reads the current cursor position and keyboard/mouse state
// from window and returns (pos_code, key_code) exactly as perform_sync
// expects them. Cursor coordinates are clamped to [0,255]^2 and pos_code
// is row-major: y*256 + x.
func pollInput(window *glfw.Window) (posCode, keyCode uint16) {
	x, y := window.GetCursorPos()
	cx := clampCoord(x)
	cy := clampCoord(y)
	posCode = uint16(cy)*screenSize + uint16(cx)

	if window.GetKey(glfw.KeySpace) == glfw.Press ||
		window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press {
		keyCode |= keyA
	}
	if window.GetKey(glfw.KeyB) == glfw.Press ||
		window.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		keyCode |= keyB
	}
	if window.GetKey(glfw.KeyW) == glfw.Press || window.GetKey(glfw.KeyUp) == glfw.Press {
		keyCode |= keyUp
	}
	if window.GetKey(glfw.KeyS) == glfw.Press || window.GetKey(glfw.KeyDown) == glfw.Press {
		keyCode |= keyDown
	}
	if window.GetKey(glfw.KeyA) == glfw.Press || window.GetKey(glfw.KeyLeft) == glfw.Press {
		keyCode |= keyLeft
	}
	if window.GetKey(glfw.KeyD) == glfw.Press || window.GetKey(glfw.KeyRight) == glfw.Press {
		keyCode |= keyRight
	}
	if window.GetKey(glfw.KeyN) == glfw.Press {
		keyCode |= keySelect
	}
	if window.GetKey(glfw.KeyM) == glfw.Press {
		keyCode |= keyStart
	}

	keyCode |= pollJoystick(glfw.Joystick1)
	return posCode, keyCode
}

func clampCoord(v float64) int {
	if v < 0 {
		return 0
	}
	if v > screenSize-1 {
		return screenSize - 1
	}
	return int(v)
}

package ui

import "github.com/go-gl/glfw/v3.3/glfw"

// Standard SDL-style gamepad button/axis indices GLFW reports, enough to
// cover the eight bits the sync protocol defines.
const (
	padButtonA      = 0
	padButtonB      = 1
	padButtonSelect = 6
	padButtonStart  = 7
	padDPadUp       = 11
	padDPadRight    = 12
	padDPadDown     = 13
	padDPadLeft     = 14

	padAxisLeftX = 0
	padAxisLeftY = 1
	padAxisDead  = 0.5
)

// pollJoystick folds a connected gamepad's buttons and left stick into the
// same key_code bitmask the keyboard/mouse use, so a guest program can't
// tell the two input sources apart. It returns 0 if stick is absent.
func pollJoystick(stick glfw.Joystick) uint16 {
	if !stick.Present() {
		return 0
	}
	var code uint16

	buttons := stick.GetButtons()
	pressed := func(i int) bool { return i < len(buttons) && buttons[i] == glfw.Press }
	if pressed(padButtonA) {
		code |= keyA
	}
	if pressed(padButtonB) {
		code |= keyB
	}
	if pressed(padButtonSelect) {
		code |= keySelect
	}
	if pressed(padButtonStart) {
		code |= keyStart
	}

	axes := stick.GetAxes()
	if len(axes) > padAxisLeftY {
		if axes[padAxisLeftY] < -padAxisDead {
			code |= keyUp
		} else if axes[padAxisLeftY] > padAxisDead {
			code |= keyDown
		}
	}
	if len(axes) > padAxisLeftX {
		if axes[padAxisLeftX] < -padAxisDead {
			code |= keyLeft
		} else if axes[padAxisLeftX] > padAxisDead {
			code |= keyRight
		}
	}
	if pressed(padDPadUp) {
		code |= keyUp
	}
	if pressed(padDPadDown) {
		code |= keyDown
	}
	if pressed(padDPadLeft) {
		code |= keyLeft
	}
	if pressed(padDPadRight) {
		code |= keyRight
	}
	return code
}

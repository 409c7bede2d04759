package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyB     = 66  // B key (ASCII)
	KeyH     = 72  // H key (ASCII)
	KeyQ     = 81  // Q key (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeyS     = 83  // S key (ASCII)
	KeyW     = 87  // W key (ASCII)
	KeyX     = 88  // X key (ASCII)
	KeyY     = 89  // Y key (ASCII)
	KeyZ     = 90  // Z key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyMinus = 45  // - key (ASCII)
	KeyEqual = 61  // = key, + when shifted (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
)

// Additional non-printable keys
const (
	KeyKPSubtract = 333 // Keypad - (GLFW)
	KeyKPAdd      = 334 // Keypad + (GLFW)
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)

// IsShift reports whether the key code is either shift key.
func IsShift(keyCode uint32) bool {
	return keyCode == KeyLeftShift || keyCode == KeyRightShift
}

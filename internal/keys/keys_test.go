package keys

import "testing"

// Handlers compare against these strings. A rename in Bubble Tea's key
// names has to break here before it silently breaks a binding.
func TestKeyNames(t *testing.T) {
	want := map[string]string{
		"up": Up, "down": Down, "home": Home, "end": End,
		"pgup": PgUp, "pgdown": PgDown,

		"enter": Enter, "alt+enter": AltEnter, "tab": Tab,
		"space": Space, "esc": Escape,
	}
	for _, c := range "coreysnpud" {
		name := "ctrl+" + string(c)
		want[name] = map[rune]string{
			'c': CtrlC, 'o': CtrlO, 'r': CtrlR, 'e': CtrlE, 'y': CtrlY,
			's': CtrlS, 'n': CtrlN, 'p': CtrlP, 'u': CtrlU, 'd': CtrlD,
		}[c]
	}

	for name, got := range want {
		if got != name {
			t.Errorf("binding for %q is %q", name, got)
		}
	}
}

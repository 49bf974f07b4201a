package tui

// GlobalKeyBindings lists the keys that are always handled by the root model
// before dispatching to focused panels. The upload prompt, while open, takes
// every key instead.
var GlobalKeyBindings = []string{"tab", "shift+tab", "g", "u", "C", "q", "ctrl+c"}

// playKeys are handled by the root model while the Play tab is active.
var playKeys = []string{" ", "enter", "r", "right", "f", "left"}

// panelKeys maps each FocusTarget to the keys that panel handles internally.
var panelKeys = map[FocusTarget][]string{
	FocusMain:     {"j", "k", "up", "down"},
	FocusActivity: {"j", "k", "up", "down", "pgup", "pgdown", "F"},
}

// IsGlobalKey reports whether key is a global keybinding (handled before panel dispatch).
func IsGlobalKey(key string) bool {
	return contains(GlobalKeyBindings, key)
}

// IsPlayKey reports whether key drives the recall game.
func IsPlayKey(key string) bool {
	return contains(playKeys, key)
}

// PanelKeys returns the list of keys handled by the given focused panel.
func PanelKeys(focus FocusTarget) []string {
	return panelKeys[focus]
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

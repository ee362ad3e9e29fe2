package main

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// keyNames maps the final token of a hotkey string to a key code. Key
// constants share names across platforms; modifier constants do not, so
// those live in the per-OS mods_*.go files.
var keyNames = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"space": hotkey.KeySpace,
}

// parseHotkey turns a "ctrl+shift+p" style string into modifiers and a
// key. The last +-separated token is the key; everything before it must
// be a modifier.
func parseHotkey(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("expected at least one modifier and a key, e.g. ctrl+shift+p")
	}

	mods := make([]hotkey.Modifier, 0, len(parts)-1)
	for _, name := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.TrimSpace(name)]
		if !ok {
			return nil, 0, fmt.Errorf("unknown modifier %q", name)
		}
		mods = append(mods, mod)
	}

	keyName := strings.TrimSpace(parts[len(parts)-1])
	key, ok := keyNames[keyName]
	if !ok {
		return nil, 0, fmt.Errorf("unknown key %q", keyName)
	}

	return mods, key, nil
}

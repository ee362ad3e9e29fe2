//go:build linux

package main

import "golang.design/x/hotkey"

// modifierNames maps hotkey string tokens to X11 modifier masks
var modifierNames = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1,
	"super": hotkey.Mod4,
	"meta":  hotkey.Mod4,
}

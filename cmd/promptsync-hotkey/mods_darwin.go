//go:build darwin

package main

import "golang.design/x/hotkey"

// modifierNames maps hotkey string tokens to Carbon modifier flags
var modifierNames = map[string]hotkey.Modifier{
	"ctrl":   hotkey.ModCtrl,
	"shift":  hotkey.ModShift,
	"alt":    hotkey.ModOption,
	"option": hotkey.ModOption,
	"cmd":    hotkey.ModCmd,
	"meta":   hotkey.ModCmd,
}

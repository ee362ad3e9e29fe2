//go:build windows

package main

import "golang.design/x/hotkey"

// modifierNames maps hotkey string tokens to RegisterHotKey modifier flags
var modifierNames = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModAlt,
	"win":   hotkey.ModWin,
	"meta":  hotkey.ModWin,
}

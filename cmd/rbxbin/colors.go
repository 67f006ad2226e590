package main

import (
	"fmt"

	"github.com/fatih/color"
)

type palette struct {
	file    func(string, ...any) string
	class   func(string, ...any) string
	name    func(string, ...any) string
	prop    func(string, ...any) string
	value   func(string, ...any) string
	added   func(string, ...any) string
	removed func(string, ...any) string
	warn    func(string, ...any) string
}

func newPalette(on bool) *palette {
	if !on {
		return &palette{
			file:    fmt.Sprintf,
			class:   fmt.Sprintf,
			name:    fmt.Sprintf,
			prop:    fmt.Sprintf,
			value:   fmt.Sprintf,
			added:   fmt.Sprintf,
			removed: fmt.Sprintf,
			warn:    fmt.Sprintf,
		}
	}
	color.NoColor = false
	return &palette{
		file:    color.BlueString,
		class:   color.RGB(128, 216, 236).SprintfFunc(),
		name:    color.RGB(8, 196, 16).SprintfFunc(),
		prop:    color.RGB(128, 168, 196).SprintfFunc(),
		value:   color.RGB(196, 168, 128).SprintfFunc(),
		added:   color.GreenString,
		removed: color.RedString,
		warn:    color.RGB(198, 198, 46).SprintfFunc(),
	}
}

package entity

import "slices"

// Theme is the color palette a category is rendered with.
type Theme string

const (
	ThemeOrange Theme = "orange"
	ThemeYellow Theme = "yellow"
	ThemeGreen  Theme = "green"
	ThemeTeal   Theme = "teal"
	ThemePeach  Theme = "peach"
	ThemeBlue   Theme = "blue"
	ThemePink   Theme = "pink"
)

// DefaultTheme is applied when a category is created without one.
const DefaultTheme = ThemeOrange

var Themes = []Theme{
	ThemeOrange,
	ThemeYellow,
	ThemeGreen,
	ThemeTeal,
	ThemePeach,
	ThemeBlue,
	ThemePink,
}

func (t Theme) Valid() bool {
	return slices.Contains(Themes, t)
}

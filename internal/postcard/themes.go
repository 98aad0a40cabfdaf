package postcard

import "strings"

// Theme decorates a styled postcard.
type Theme struct {
	Name       string
	Background string // CSS colour
	Emoji      string
	ImageURL   string // faint full-bleed decoration
}

// DefaultTheme is used for empty or unrecognised theme names.
const DefaultTheme = "birthday"

var themes = map[string]Theme{
	"birthday": {
		Name:       "birthday",
		Background: "#FFF5E1",
		Emoji:      "🎉🎂🎈",
		ImageURL:   "https://i.imgur.com/Fn1jftF.png", // balloons
	},
	"friendship": {
		Name:       "friendship",
		Background: "#E6F7FF",
		Emoji:      "🤗💖✨",
		ImageURL:   "https://i.imgur.com/9xR5z7m.png", // hearts
	},
	"love": {
		Name:       "love",
		Background: "#FFE6E6",
		Emoji:      "💌❤️🌹",
		ImageURL:   "https://i.imgur.com/x1P5sB8.png",
	},
}

// ThemeByName looks name up case-insensitively, falling back to birthday.
func ThemeByName(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// ABOUTME: Glyphs used by the dashboard and status lines
// ABOUTME: Plain Unicode by default, Nerd Font glyphs when SIRIA_NERD_FONTS is set

package icons

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// NerdFontsEnv opts in to Nerd Font glyphs.
const NerdFontsEnv = "SIRIA_NERD_FONTS"

var nerdFonts = sync.OnceValue(func() bool {
	return enabled(os.Getenv(NerdFontsEnv))
})

func enabled(v string) bool {
	on, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && on
}

// Icon pairs a Nerd Font glyph with its Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

// String renders the icon for the current terminal setting
func (i Icon) String() string {
	return i.render(nerdFonts())
}

func (i Icon) render(nerd bool) string {
	if nerd {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	App     = Icon{"󰋋", "✚"} // pill
	Product = Icon{"󰏗", "▣"}
	Stock   = Icon{"󰆼", "▤"}
	Money   = Icon{"󰄔", "$"}
	User    = Icon{"󰀄", "●"}
	Orders  = Icon{"󰄐", "◆"}
	Chart   = Icon{"󰄭", "▁"}

	CheckOK  = Icon{"", "✓"}
	Warning  = Icon{"", "⚠"}
	Critical = Icon{"", "✗"}
	Info     = Icon{"", "ℹ"}
)

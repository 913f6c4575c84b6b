package layout

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Colors is one palette entry: the base body color and the emissive
// accent for a category.
type Colors struct {
	Color  string `yaml:"color"`
	Accent string `yaml:"accent"`
}

// Palette maps equipment categories to default colors, applied when a
// layout entry leaves colors unset. Operators override it with a YAML
// file next to the config.
type Palette map[string]Colors

// DefaultPalette returns the stock color scheme: cool steel bodies with
// warm accent trim, one hue family per process section.
func DefaultPalette() Palette {
	return Palette{
		"storage-tank":     {Color: "#8fa8c8", Accent: "#ffd166"},
		"jacketed-reactor": {Color: "#69a8a0", Accent: "#9be8dd"},
		"pipe-reactor":     {Color: "#c98f6e", Accent: "#ffd166"},
		"scrubber":         {Color: "#7f96b8", Accent: "#7ee081"},
		"fan":              {Color: "#96a0b4", Accent: "#ffd166"},
		"conveyor":         {Color: "#5a6578", Accent: "#ffd166"},
		"elevator":         {Color: "#6b768c", Accent: "#ffd166"},
		"cyclone":          {Color: "#9aa8be", Accent: "#7ee081"},
		"dryer":            {Color: "#c9a36e", Accent: "#ff8c66"},
		"bin":              {Color: "#7d889e", Accent: "#ffd166"},
		"chiller-cluster":  {Color: "#7fb0c9", Accent: "#9be8dd"},
		"granulator":       {Color: "#b08968", Accent: "#ffd166"},
		"screen":           {Color: "#8c96aa", Accent: "#7ee081"},
		"drum":             {Color: "#a09278", Accent: "#ffd166"},
	}
}

// ParsePalette reads a YAML palette and overlays it on the defaults, so a
// file only needs the categories it changes.
func ParsePalette(data []byte) (Palette, error) {
	overlay := Palette{}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("palette parse: %w", err)
	}
	pal := DefaultPalette()
	for cat, c := range overlay {
		cur := pal[cat]
		if c.Color != "" {
			cur.Color = c.Color
		}
		if c.Accent != "" {
			cur.Accent = c.Accent
		}
		pal[cat] = cur
	}
	return pal, nil
}

// For returns the colors for a category, falling back to neutral steel
// for categories without an entry.
func (p Palette) For(category string) Colors {
	if c, ok := p[category]; ok {
		return c
	}
	return Colors{Color: "#8f99ad", Accent: "#ffd166"}
}

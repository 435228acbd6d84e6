package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// HexColor is a color written as "#rrggbb" in YAML.
type HexColor struct {
	colorful.Color
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (HexColor, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return HexColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return HexColor{Color: c}, nil
}

func mustHex(s string) HexColor {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c HexColor) MarshalYAML() (any, error) {
	return c.Clamped().Hex(), nil
}

package fog

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the selection by name.
func (c ColorSelectionType) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML decodes a selection name.
func (c *ColorSelectionType) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseColorSelectionType(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = v
	return nil
}

// MarshalYAML encodes the event by name.
func (e RenderPassEvent) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// UnmarshalYAML decodes an event name.
func (e *RenderPassEvent) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseRenderPassEvent(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*e = v
	return nil
}

type colorKeyYAML struct {
	Time  float64 `yaml:"time"`
	Color string  `yaml:"color"`
}

type alphaKeyYAML struct {
	Time  float64 `yaml:"time"`
	Alpha float64 `yaml:"alpha"`
}

type gradientYAML struct {
	Mode      string         `yaml:"mode,omitempty"`
	Space     string         `yaml:"space,omitempty"`
	ColorKeys []colorKeyYAML `yaml:"color_keys"`
	AlphaKeys []alphaKeyYAML `yaml:"alpha_keys"`
}

// MarshalYAML encodes the gradient with hex colours.
func (g *ColorGradient) MarshalYAML() (interface{}, error) {
	out := gradientYAML{Space: g.space.String()}
	if g.mode == Fixed {
		out.Mode = "fixed"
	}
	for _, k := range g.colorKeys {
		out.ColorKeys = append(out.ColorKeys, colorKeyYAML{Time: k.Time, Color: k.Color.Hex()})
	}
	for _, k := range g.alphaKeys {
		out.AlphaKeys = append(out.AlphaKeys, alphaKeyYAML{Time: k.Time, Alpha: k.Alpha})
	}
	return out, nil
}

// UnmarshalYAML decodes a gradient. Colours are "#rrggbb" strings.
func (g *ColorGradient) UnmarshalYAML(node *yaml.Node) error {
	var in gradientYAML
	if err := node.Decode(&in); err != nil {
		return err
	}

	mode := Blend
	switch in.Mode {
	case "", "blend":
	case "fixed":
		mode = Fixed
	default:
		return fmt.Errorf("line %d: unknown gradient mode %q", node.Line, in.Mode)
	}

	space := SpaceRGB
	if in.Space != "" {
		s, err := ParseBlendSpace(in.Space)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		space = s
	}

	colors := make([]ColorKey, 0, len(in.ColorKeys))
	for _, k := range in.ColorKeys {
		c, err := colorful.Hex(k.Color)
		if err != nil {
			return fmt.Errorf("line %d: color key at %g: %w", node.Line, k.Time, err)
		}
		colors = append(colors, ColorKey{Time: k.Time, Color: c})
	}
	alphas := make([]AlphaKey, 0, len(in.AlphaKeys))
	for _, k := range in.AlphaKeys {
		alphas = append(alphas, AlphaKey{Time: k.Time, Alpha: k.Alpha})
	}

	g.mode = mode
	g.space = space
	g.SetKeys(colors, alphas)
	return nil
}

package fog

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGradientEmpty(t *testing.T) {
	g := NewGradient(nil, nil)
	c, a := g.Evaluate(0.3)
	if c != White || a != 1 {
		t.Errorf("empty gradient = %v/%f, want white/1", c, a)
	}
}

func TestGradientBlend(t *testing.T) {
	g := NewGradient(
		[]ColorKey{
			{Time: 0, Color: colorful.Color{}},
			{Time: 1, Color: colorful.Color{R: 1, G: 1, B: 1}},
		},
		[]AlphaKey{{Time: 0, Alpha: 0}, {Time: 1, Alpha: 1}},
	)

	c, a := g.Evaluate(0.25)
	if !approx(c.R, 0.25) || !approx(c.G, 0.25) || !approx(c.B, 0.25) {
		t.Errorf("color at 0.25 = %v, want 0.25 grey", c)
	}
	if !approx(a, 0.25) {
		t.Errorf("alpha at 0.25 = %f, want 0.25", a)
	}
}

func TestGradientClampsOutside(t *testing.T) {
	g := NewGradient(
		[]ColorKey{
			{Time: 0.2, Color: colorful.Color{R: 1}},
			{Time: 0.8, Color: colorful.Color{G: 1}},
		},
		nil,
	)

	if c, _ := g.Evaluate(-1); c != (colorful.Color{R: 1}) {
		t.Errorf("before first key = %v, want red", c)
	}
	if c, _ := g.Evaluate(0.1); c != (colorful.Color{R: 1}) {
		t.Errorf("at 0.1 = %v, want red", c)
	}
	if c, _ := g.Evaluate(0.9); c != (colorful.Color{G: 1}) {
		t.Errorf("at 0.9 = %v, want green", c)
	}
}

func TestGradientFixed(t *testing.T) {
	g := NewGradient(
		[]ColorKey{
			{Time: 0.5, Color: colorful.Color{R: 1}},
			{Time: 1, Color: colorful.Color{B: 1}},
		},
		nil,
	)
	g.SetMode(Fixed)

	tests := []struct {
		t    float64
		want colorful.Color
	}{
		{0.0, colorful.Color{R: 1}},
		{0.5, colorful.Color{R: 1}},
		{0.51, colorful.Color{B: 1}},
		{1.0, colorful.Color{B: 1}},
	}
	for _, tt := range tests {
		if c, _ := g.Evaluate(tt.t); c != tt.want {
			t.Errorf("fixed at %.2f = %v, want %v", tt.t, c, tt.want)
		}
	}
}

func TestGradientKeysSorted(t *testing.T) {
	g := NewGradient(nil, []AlphaKey{{Time: 1, Alpha: 1}, {Time: 0, Alpha: 0}})
	keys := g.AlphaKeys()
	if keys[0].Time != 0 || keys[1].Time != 1 {
		t.Errorf("alpha keys not sorted: %v", keys)
	}
}

func TestGradientRevision(t *testing.T) {
	g := NewGradient(nil, nil)
	r0 := g.Revision()
	g.SetSpace(SpaceLab)
	r1 := g.Revision()
	g.SetKeys(nil, nil)
	r2 := g.Revision()
	if r0 == r1 || r1 == r2 {
		t.Errorf("revisions did not advance: %d %d %d", r0, r1, r2)
	}
}

func TestGradientYAML(t *testing.T) {
	src := `
mode: fixed
space: lab
color_keys:
  - {time: 1, color: "#0000ff"}
  - {time: 0, color: "#ff0000"}
alpha_keys:
  - {time: 0, alpha: 0.5}
`
	var g ColorGradient
	if err := yaml.Unmarshal([]byte(src), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g.Mode() != Fixed || g.Space() != SpaceLab {
		t.Errorf("mode/space = %v/%v, want fixed/lab", g.Mode(), g.Space())
	}

	want := []ColorKey{
		{Time: 0, Color: colorful.Color{R: 1}},
		{Time: 1, Color: colorful.Color{B: 1}},
	}
	if diff := cmp.Diff(want, g.ColorKeys(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("color keys mismatch (-want +got):\n%s", diff)
	}

	out, err := yaml.Marshal(&g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back ColorGradient
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal marshalled: %v", err)
	}
	if diff := cmp.Diff(g.AlphaKeys(), back.AlphaKeys()); diff != "" {
		t.Errorf("alpha keys changed through yaml (-want +got):\n%s", diff)
	}
}

func TestGradientYAMLInvalid(t *testing.T) {
	tests := []string{
		"mode: smooth",
		"space: cmyk",
		"color_keys: [{time: 0, color: \"red\"}]",
	}
	for _, src := range tests {
		var g ColorGradient
		if err := yaml.Unmarshal([]byte(src), &g); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
}

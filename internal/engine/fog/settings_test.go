package fog

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNormalize(t *testing.T) {
	all := []ColorSelectionType{Gradient, TextureRamp, CopyOther}
	for _, ds := range all {
		for _, hs := range all {
			d := DistanceFogSettings{ColorSelection: ds}
			h := HeightFogSettings{ColorSelection: hs}

			changed := Normalize(&d, &h)
			if d.ColorSelection == CopyOther && h.ColorSelection == CopyOther {
				t.Errorf("%s/%s: both still copy", ds, hs)
			}
			if changed != (ds == CopyOther && hs == CopyOther) {
				t.Errorf("%s/%s: changed = %v", ds, hs, changed)
			}
			if h.ColorSelection != hs {
				t.Errorf("%s/%s: height selection rewritten to %s", ds, hs, h.ColorSelection)
			}

			once := d
			if Normalize(&d, &h) {
				t.Errorf("%s/%s: second normalize changed settings", ds, hs)
			}
			if d != once {
				t.Errorf("%s/%s: normalize not idempotent", ds, hs)
			}
		}
	}
}

func TestNormalizeCycleFallsBackToGradient(t *testing.T) {
	d := DistanceFogSettings{ColorSelection: CopyOther}
	h := HeightFogSettings{ColorSelection: CopyOther}
	Normalize(&d, &h)
	if d.ColorSelection != Gradient || h.ColorSelection != CopyOther {
		t.Errorf("got distance=%s height=%s, want gradient/copy_other", d.ColorSelection, h.ColorSelection)
	}
}

func TestHeightClamp(t *testing.T) {
	h := HeightFogSettings{BaseDensity: -1, DensityFalloff: 0}
	h.Clamp()
	if h.BaseDensity != 0 {
		t.Errorf("base density = %f, want 0", h.BaseDensity)
	}
	if h.DensityFalloff != MinDensityFalloff {
		t.Errorf("falloff = %f, want %f", h.DensityFalloff, MinDensityFalloff)
	}

	h.DensityFalloff = 3
	h.Clamp()
	if h.DensityFalloff != MaxDensityFalloff {
		t.Errorf("falloff = %f, want %f", h.DensityFalloff, MaxDensityFalloff)
	}
}

func TestDefaults(t *testing.T) {
	s := DefaultSettings()
	if s.DistanceFog.Enabled || s.DistanceFog.EndDistance != 100 || s.DistanceFog.ColorSelection != Gradient {
		t.Errorf("unexpected distance defaults: %+v", s.DistanceFog)
	}
	if !s.HeightFog.Enabled || !s.HeightFog.FogSkybox || s.HeightFog.ColorSelection != CopyOther {
		t.Errorf("unexpected height defaults: %+v", s.HeightFog)
	}
	if s.HeightFog.BaseDensity != 0.1 || s.HeightFog.DensityFalloff != 0.5 {
		t.Errorf("unexpected height density defaults: %+v", s.HeightFog)
	}
	if s.RenderPassEvent != AfterRenderingOpaques {
		t.Errorf("event = %s, want after_opaques", s.RenderPassEvent)
	}
	if got := Select(s.DistanceFog, s.HeightFog); got != VariantHeightOnly {
		t.Errorf("default variant = %s, want height_only", got)
	}
}

func TestSettingsYAML(t *testing.T) {
	src := `
render_pass_event: before_post_processing
distance:
  enabled: true
  end_distance: 250
  color_selection: texture_ramp
height:
  color_selection: copy_other
distance_color:
  ramp: ramps/dusk.png
`
	s := DefaultSettings()
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.RenderPassEvent != BeforeRenderingPostProcessing {
		t.Errorf("event = %s", s.RenderPassEvent)
	}
	if !s.DistanceFog.Enabled || s.DistanceFog.EndDistance != 250 || s.DistanceFog.ColorSelection != TextureRamp {
		t.Errorf("distance = %+v", s.DistanceFog)
	}
	if s.DistanceColor.RampPath != "ramps/dusk.png" {
		t.Errorf("ramp path = %q", s.DistanceColor.RampPath)
	}
	if s.DistanceColor.Gradient == nil {
		t.Error("default distance gradient lost")
	}
	// Unset height fields keep their defaults.
	if !s.HeightFog.Enabled || s.HeightFog.DensityFalloff != 0.5 {
		t.Errorf("height = %+v", s.HeightFog)
	}
}

func TestSettingsYAMLInvalidSelection(t *testing.T) {
	s := DefaultSettings()
	err := yaml.Unmarshal([]byte("distance:\n  color_selection: rainbow\n"), &s)
	if err == nil {
		t.Error("expected error for unknown selection")
	}
}

func TestGradientSelectionUsesColorGradient(t *testing.T) {
	s := DefaultSettings()
	if s.DistanceFog.ColorSelection != Gradient {
		t.Fatalf("default selection = %s, want gradient", s.DistanceFog.ColorSelection)
	}
	var g *ColorGradient = s.DistanceColor.Gradient
	if g == nil || len(g.ColorKeys()) != 2 {
		t.Fatalf("default gradient = %+v", g)
	}
	lut := NewLookupTexture(4)
	Bake(lut, g)
	if lut.Revision() != 1 {
		t.Errorf("revision = %d, want 1", lut.Revision())
	}
}

func TestFeature(t *testing.T) {
	s := DefaultSettings()
	s.DistanceFog.Enabled = true
	s.RenderPassEvent = AfterRenderingSkybox
	m := &fakeMaterial{}
	f := NewFeature(s, m, nil)
	f.Create()

	q := &queue{}
	src := &fakeTarget{name: "src"}
	f.AddRenderPasses(q, src)

	if len(q.passes) != 1 || q.passes[0] != f.Pass() {
		t.Fatal("feature did not enqueue its pass")
	}
	if f.Pass().Event() != AfterRenderingSkybox {
		t.Errorf("event = %s, want after_skybox", f.Pass().Event())
	}

	r := &fakeRenderer{}
	if err := f.Pass().Configure(TargetDesc{Width: 8, Height: 8}, r); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := f.Pass().Execute(Frame{}, r); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if f.Pass().Variant() != VariantBothShared {
		t.Errorf("variant = %s, want both_shared", f.Pass().Variant())
	}
	f.Close()
	if f.Pass() != nil {
		t.Error("pass kept after Close")
	}
}

type queue struct{ passes []RenderPass }

func (q *queue) EnqueuePass(p RenderPass) { q.passes = append(q.passes, p) }

package fog

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/stylistic-fog/pkg/math"
)

type fakeTarget struct {
	name string
	w, h int32
}

func (t *fakeTarget) Size() (int32, int32) { return t.w, t.h }

type blitCall struct {
	src, dst string
	material bool
	pass     int
}

type fakeRenderer struct {
	acquired int
	released int
	submits  int
	blits    []blitCall
	failBlit bool
}

func (r *fakeRenderer) AcquireTemporary(desc TargetDesc) (Target, error) {
	r.acquired++
	return &fakeTarget{name: "tmp", w: desc.Width, h: desc.Height}, nil
}

func (r *fakeRenderer) ReleaseTemporary(Target) { r.released++ }

func (r *fakeRenderer) Blit(src, dst Target, mat Material, pass int) error {
	if r.failBlit {
		return errors.New("blit failed")
	}
	r.blits = append(r.blits, blitCall{
		src:      src.(*fakeTarget).name,
		dst:      dst.(*fakeTarget).name,
		material: mat != nil,
		pass:     pass,
	})
	return nil
}

func (r *fakeRenderer) Submit() error {
	r.submits++
	return nil
}

type fakeMaterial struct {
	params ParamSet
	calls  int
}

func (m *fakeMaterial) SetParams(ps *ParamSet) {
	m.params = *ps
	m.calls++
}

type fakeCamera struct{ m math.Mat4 }

func (c fakeCamera) CameraToWorld() math.Mat4 { return c.m }

var testView = math.Translate(1, 2, 3)

// runFrame drives the pass through one full frame.
func runFrame(t *testing.T, p *Pass, r *fakeRenderer) {
	t.Helper()
	p.Setup(&fakeTarget{name: "src", w: 64, h: 32})
	if err := p.Configure(TargetDesc{Width: 64, Height: 32}, r); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := p.Execute(Frame{Camera: fakeCamera{testView}}, r); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func newTestPass(d DistanceFogSettings, h HeightFogSettings) (*Pass, *fakeMaterial) {
	p := NewPass("test", nil)
	m := &fakeMaterial{}
	p.SetMaterial(m)
	s := DefaultSettings()
	s.DistanceFog = d
	s.HeightFog = h
	p.SetSettings(s)
	return p, m
}

func presentParams(ps ParamSet) []Param {
	var out []Param
	ps.Each(func(p Param, _ Value) { out = append(out, p) })
	return out
}

// Height fog alone binds its baked gradient to slot 0 and runs pass 1.
func TestHeightOnlyGradient(t *testing.T) {
	d := DefaultDistanceFog()
	d.Enabled = false
	h := HeightFogSettings{Enabled: true, BaseHeight: 2, BaseDensity: 0.3, DensityFalloff: 0.2, ColorSelection: Gradient}
	p, m := newTestPass(d, h)
	r := &fakeRenderer{}

	runFrame(t, p, r)

	if p.Variant() != VariantHeightOnly {
		t.Fatalf("variant = %s, want height_only", p.Variant())
	}
	slot0, ok := m.params.Get(ParamFogColorTexture0)
	if !ok {
		t.Fatal("slot 0 not bound")
	}
	if slot0.Texture != Texture(p.colors.heightLUT.tex) {
		t.Error("slot 0 is not the baked height gradient")
	}
	if m.params.Has(ParamFogColorTexture1) {
		t.Error("slot 1 bound for height_only")
	}

	want := []Param{
		ParamInverseViewMatrix,
		ParamApplyDistToSkybox,
		ParamApplyHeightToSkybox,
		ParamHeight,
		ParamBaseDensity,
		ParamDensityFalloff,
		ParamFogColorTexture0,
	}
	if diff := cmp.Diff(want, presentParams(m.params)); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if v, _ := m.params.Get(ParamBaseDensity); v.Float != 0.3 {
		t.Errorf("base density = %f, want 0.3", v.Float)
	}
	if v, _ := m.params.Get(ParamInverseViewMatrix); v.Matrix != testView {
		t.Error("inverse view matrix is not the camera-to-world matrix")
	}

	wantBlits := []blitCall{
		{src: "src", dst: "tmp", material: true, pass: 1},
		{src: "tmp", dst: "src", material: false, pass: -1},
	}
	if diff := cmp.Diff(wantBlits, r.blits, cmp.AllowUnexported(blitCall{})); diff != "" {
		t.Errorf("blits mismatch (-want +got):\n%s", diff)
	}
}

// Distance copying height shares the height gradient through slot 0.
func TestBothSharedUsesActiveSide(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, EndDistance: 50, ColorSelection: CopyOther}
	h := HeightFogSettings{Enabled: true, DensityFalloff: 0.5, ColorSelection: Gradient}
	p, m := newTestPass(d, h)
	r := &fakeRenderer{}

	runFrame(t, p, r)

	if p.Variant() != VariantBothShared {
		t.Fatalf("variant = %s, want both_shared", p.Variant())
	}
	slot0, _ := m.params.Get(ParamFogColorTexture0)
	if slot0.Texture != Texture(p.colors.heightLUT.tex) {
		t.Error("shared slot is not the height gradient")
	}
	if m.params.Has(ParamFogColorTexture1) {
		t.Error("shared variant bound a second slot")
	}
	if !m.params.Has(ParamFogEndDistance) || !m.params.Has(ParamDensityFalloff) {
		t.Error("shared variant must carry both distance and height params")
	}
	if p.colors.distanceLUT.tex != nil {
		t.Error("distance gradient texture kept while distance copies height")
	}
	if r.blits[0].pass != 2 {
		t.Errorf("pass index = %d, want 2", r.blits[0].pass)
	}
}

func TestBothSharedDistanceRamp(t *testing.T) {
	ramp := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	d := DistanceFogSettings{Enabled: true, ColorSelection: TextureRamp}
	h := HeightFogSettings{Enabled: true, ColorSelection: CopyOther}
	p, m := newTestPass(d, h)
	p.SetDistanceColor(ColorSource{Ramp: ramp})

	runFrame(t, p, &fakeRenderer{})

	slot0, _ := m.params.Get(ParamFogColorTexture0)
	if slot0.Texture != Texture(ramp) {
		t.Error("shared slot is not the distance ramp")
	}
}

// Both fog types with their own gradients bind one texture each.
func TestBothSeparate(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, EndDistance: 80, ColorSelection: Gradient}
	h := HeightFogSettings{Enabled: true, DensityFalloff: 0.5, ColorSelection: Gradient}
	p, m := newTestPass(d, h)

	runFrame(t, p, &fakeRenderer{})

	if p.Variant() != VariantBothSeparate {
		t.Fatalf("variant = %s, want both_separate", p.Variant())
	}
	s0, _ := m.params.Get(ParamFogColorTexture0)
	s1, _ := m.params.Get(ParamFogColorTexture1)
	if s0.Texture != Texture(p.colors.distanceLUT.tex) {
		t.Error("slot 0 is not the distance gradient")
	}
	if s1.Texture != Texture(p.colors.heightLUT.tex) {
		t.Error("slot 1 is not the height gradient")
	}
	if s0.Texture == s1.Texture {
		t.Error("separate variant bound the same texture twice")
	}
	if w := p.colors.distanceLUT.tex.Width(); w != DistanceLUTWidth {
		t.Errorf("distance LUT width = %d, want %d", w, DistanceLUTWidth)
	}
	if w := p.colors.heightLUT.tex.Width(); w != HeightLUTWidth {
		t.Errorf("height LUT width = %d, want %d", w, HeightLUTWidth)
	}
}

// With no fog enabled the frame is a plain copy and marshals nothing.
func TestNoneIsPassThrough(t *testing.T) {
	d := DefaultDistanceFog()
	h := DefaultHeightFog()
	d.Enabled = false
	h.Enabled = false
	p, m := newTestPass(d, h)
	r := &fakeRenderer{}

	runFrame(t, p, r)

	if p.Variant() != VariantNone {
		t.Fatalf("variant = %s, want none", p.Variant())
	}
	if m.calls != 0 {
		t.Error("material received params for the none variant")
	}
	if n := p.Params(); n.Len() != 0 {
		t.Errorf("marshalled %d params, want 0", n.Len())
	}
	want := []blitCall{{src: "src", dst: "src", material: false, pass: -1}}
	if diff := cmp.Diff(want, r.blits, cmp.AllowUnexported(blitCall{})); diff != "" {
		t.Errorf("blits mismatch (-want +got):\n%s", diff)
	}
	if r.released != r.acquired {
		t.Errorf("released %d of %d temporary targets", r.released, r.acquired)
	}
}

// A copy cycle falls back to the distance gradient before any frame.
func TestCopyCycleIsNormalized(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, ColorSelection: CopyOther}
	h := HeightFogSettings{Enabled: true, DensityFalloff: 0.5, ColorSelection: CopyOther}
	p, m := newTestPass(d, h)

	if got := p.DistanceFog().ColorSelection; got != Gradient {
		t.Fatalf("distance selection = %s, want gradient", got)
	}

	runFrame(t, p, &fakeRenderer{})

	if p.Variant() != VariantBothShared {
		t.Fatalf("variant = %s, want both_shared", p.Variant())
	}
	slot0, _ := m.params.Get(ParamFogColorTexture0)
	if slot0.Texture != Texture(p.colors.distanceLUT.tex) {
		t.Error("shared slot is not the distance gradient")
	}
}

func TestRampIsNotBaked(t *testing.T) {
	ramp := image.NewNRGBA(image.Rect(0, 0, 8, 1))
	d := DistanceFogSettings{Enabled: true, EndDistance: 10, ColorSelection: TextureRamp}
	h := DefaultHeightFog()
	h.Enabled = false
	p, m := newTestPass(d, h)
	p.SetDistanceColor(ColorSource{Gradient: redToBlue(), Ramp: ramp})
	bakes := p.colors.distanceLUT.bakes

	runFrame(t, p, &fakeRenderer{})

	slot0, _ := m.params.Get(ParamFogColorTexture0)
	if slot0.Texture != Texture(ramp) {
		t.Error("ramp was not passed through unchanged")
	}
	if p.colors.distanceLUT.bakes != bakes || p.colors.distanceLUT.tex != nil {
		t.Error("gradient baked for a ramp selection")
	}
}

func TestMissingRampLeavesSlotEmpty(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, ColorSelection: TextureRamp}
	h := DefaultHeightFog()
	h.Enabled = false
	p, m := newTestPass(d, h)

	runFrame(t, p, &fakeRenderer{})

	if m.params.Has(ParamFogColorTexture0) {
		t.Error("slot 0 bound without a ramp")
	}
}

func TestMissingMaterialSkipsFrame(t *testing.T) {
	p := NewPass("test", nil)
	r := &fakeRenderer{}

	runFrame(t, p, r)

	if len(r.blits) != 0 || r.submits != 0 {
		t.Errorf("skipped frame issued %d blits, %d submits", len(r.blits), r.submits)
	}
	if r.released != 1 {
		t.Errorf("released %d temporary targets, want 1", r.released)
	}
	if p.State() != StateConfigured {
		t.Errorf("state = %s, want configured", p.State())
	}
}

func TestTemporaryReleasedOnError(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, ColorSelection: Gradient}
	p, _ := newTestPass(d, DefaultHeightFog())
	r := &fakeRenderer{failBlit: true}

	p.Setup(&fakeTarget{name: "src"})
	if err := p.Configure(TargetDesc{Width: 4, Height: 4}, r); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := p.Execute(Frame{}, r); err == nil {
		t.Fatal("expected blit error")
	}
	if r.released != 1 {
		t.Errorf("released %d temporary targets, want 1", r.released)
	}
}

func TestExecuteWithoutConfigure(t *testing.T) {
	p := NewPass("test", nil)
	if err := p.Execute(Frame{}, &fakeRenderer{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
	if err := p.Configure(TargetDesc{}, &fakeRenderer{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("configure without source: err = %v, want ErrNotConfigured", err)
	}
}

func TestGradientEditBakesOnlyOnUpdate(t *testing.T) {
	g := redToBlue()
	d := DistanceFogSettings{Enabled: true, ColorSelection: Gradient}
	p, _ := newTestPass(d, DefaultHeightFog())
	p.SetDistanceColor(ColorSource{Gradient: g})
	bakes := p.colors.distanceLUT.bakes

	runFrame(t, p, &fakeRenderer{})
	runFrame(t, p, &fakeRenderer{})
	if p.colors.distanceLUT.bakes != bakes {
		t.Errorf("frames re-baked an unchanged gradient (%d -> %d)", bakes, p.colors.distanceLUT.bakes)
	}

	g.SetSpace(SpaceLinear)
	runFrame(t, p, &fakeRenderer{})
	if p.colors.distanceLUT.bakes != bakes {
		t.Errorf("frame baked an edited gradient (%d -> %d)", bakes, p.colors.distanceLUT.bakes)
	}

	p.UpdateProperties()
	if p.colors.distanceLUT.bakes != bakes+1 {
		t.Errorf("bakes after edit = %d, want %d", p.colors.distanceLUT.bakes, bakes+1)
	}
}

func TestExecuteTwiceNeedsConfigure(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, EndDistance: 40, ColorSelection: Gradient}
	h := DefaultHeightFog()
	h.Enabled = false
	p, _ := newTestPass(d, h)
	r := &fakeRenderer{}

	runFrame(t, p, r)
	blits := len(r.blits)

	if err := p.Execute(Frame{Camera: fakeCamera{testView}}, r); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("second execute: err = %v, want ErrNotConfigured", err)
	}
	if len(r.blits) != blits || r.submits != 1 {
		t.Errorf("second execute issued %d blits, %d submits", len(r.blits)-blits, r.submits-1)
	}
	if r.acquired != 1 || r.released != 1 {
		t.Errorf("acquired %d, released %d temporary targets, want 1 each", r.acquired, r.released)
	}

	runFrame(t, p, r)
	if len(r.blits) != blits*2 {
		t.Errorf("reconfigured frame issued %d blits, want %d", len(r.blits)-blits, blits)
	}
}

func TestCloseFreesTextures(t *testing.T) {
	p := NewPass("test", nil)
	p.Close()
	if p.colors.distanceLUT.tex != nil || p.colors.heightLUT.tex != nil {
		t.Error("textures kept after Close")
	}
	if p.State() != StateIdle {
		t.Errorf("state = %s, want idle", p.State())
	}
}

func TestPreviewDoesNotRender(t *testing.T) {
	p, m := newTestPass(
		DistanceFogSettings{Enabled: true, EndDistance: 80, ColorSelection: Gradient},
		HeightFogSettings{DensityFalloff: 0.5, ColorSelection: Gradient},
	)
	defer p.Close()

	v, ps := p.Preview(fakeCamera{testView})
	if v != VariantDistanceOnly {
		t.Fatalf("variant = %s, want DistanceOnly", v)
	}
	if m.calls != 0 {
		t.Error("preview must not touch the material")
	}
	got, ok := ps.Get(ParamFogEndDistance)
	if !ok || got.Float != 80 {
		t.Errorf("end distance = %+v, want 80", got)
	}
	lut, ok := ps.Get(ParamFogColorTexture0)
	if !ok {
		t.Fatal("slot 0 not bound")
	}
	if tex, isLUT := lut.Texture.(*LookupTexture); !isLUT || tex.Width() != DistanceLUTWidth {
		t.Errorf("slot 0 = %T, want distance lookup texture", lut.Texture)
	}
}

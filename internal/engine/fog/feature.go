package fog

import (
	"fmt"

	"go.uber.org/zap"
)

// RenderPassEvent positions a pass in the frame.
type RenderPassEvent int

const (
	BeforeRenderingOpaques RenderPassEvent = iota
	AfterRenderingOpaques
	AfterRenderingSkybox
	BeforeRenderingTransparents
	AfterRenderingTransparents
	BeforeRenderingPostProcessing
	AfterRendering
)

var eventNames = [...]string{
	BeforeRenderingOpaques:        "before_opaques",
	AfterRenderingOpaques:         "after_opaques",
	AfterRenderingSkybox:          "after_skybox",
	BeforeRenderingTransparents:   "before_transparents",
	AfterRenderingTransparents:    "after_transparents",
	BeforeRenderingPostProcessing: "before_post_processing",
	AfterRendering:                "after_rendering",
}

func (e RenderPassEvent) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("RenderPassEvent(%d)", int(e))
}

// ParseRenderPassEvent parses an event name.
func ParseRenderPassEvent(s string) (RenderPassEvent, error) {
	for i, n := range eventNames {
		if n == s {
			return RenderPassEvent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render pass event %q", s)
}

// RenderPass is a pass the host pipeline schedules each frame.
type RenderPass interface {
	Name() string
	Event() RenderPassEvent
	Setup(source Target)
	Configure(desc TargetDesc, r Renderer) error
	Execute(frame Frame, r Renderer) error
	FrameCleanup(r Renderer)
}

// PassQueue collects the passes of a frame.
type PassQueue interface {
	EnqueuePass(p RenderPass)
}

// Feature plugs the fog pass into a host pipeline.
type Feature struct {
	Settings Settings
	Material Material

	log  *zap.Logger
	pass *Pass
}

// NewFeature creates a fog feature. Create must be called before use.
func NewFeature(s Settings, m Material, log *zap.Logger) *Feature {
	return &Feature{Settings: s, Material: m, log: log}
}

// Create (re)builds the pass from the current settings.
func (f *Feature) Create() {
	if f.pass != nil {
		f.pass.Close()
	}
	f.pass = NewPass("StylisticFog", f.log)
	f.pass.SetMaterial(f.Material)
	f.pass.SetSettings(f.Settings)
}

// Pass returns the pass built by Create.
func (f *Feature) Pass() *Pass { return f.pass }

// AddRenderPasses points the pass at the camera colour target and enqueues
// it.
func (f *Feature) AddRenderPasses(q PassQueue, source Target) {
	if f.pass == nil {
		f.Create()
	}
	f.pass.Setup(source)
	q.EnqueuePass(f.pass)
}

// Close releases the pass resources.
func (f *Feature) Close() {
	if f.pass != nil {
		f.pass.Close()
		f.pass = nil
	}
}

// Package pipeline is a small forward post-processing pipeline. It schedules
// render passes by event, hands out pooled scratch targets and draws
// full-screen blits.
package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
	"github.com/Faultbox/stylistic-fog/internal/engine/framebuffer"
	"github.com/Faultbox/stylistic-fog/internal/engine/postfx/shaders"
	"github.com/Faultbox/stylistic-fog/internal/engine/shader"
	"github.com/Faultbox/stylistic-fog/pkg/math"
)

// Inputs are the host-provided values every full-screen program may read.
type Inputs struct {
	MainTex           uint32
	DepthTex          uint32
	InverseProjection math.Mat4
}

// Program is a material the pipeline can draw with. Use activates the
// program for the given pass and binds its parameters.
type Program interface {
	Use(pass int, in Inputs) error
}

// Camera is the view a frame is rendered from.
type Camera interface {
	fog.Camera
	Projection() math.Mat4
}

// Stats counts pipeline work of the last rendered frame.
type Stats struct {
	Passes   int
	Blits    int
	Acquired int
}

// Pipeline implements fog.Renderer and fog.PassQueue on OpenGL.
type Pipeline struct {
	log *zap.Logger

	copyProgram uint32
	locCopyMain int32
	vao         uint32

	pool   map[[2]int32][]*framebuffer.Framebuffer
	leased map[*framebuffer.Framebuffer]struct{}

	queue []fog.RenderPass

	depthTex uint32
	invProj  math.Mat4
	stats    Stats
}

// New creates the pipeline. Must be called with a current GL context.
func New(log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		log:     log,
		pool:    make(map[[2]int32][]*framebuffer.Framebuffer),
		leased:  make(map[*framebuffer.Framebuffer]struct{}),
		invProj: math.Identity(),
	}

	prog, err := shader.CompileProgram(shaders.FullscreenVertexShader, shaders.CopyFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("copy program: %w", err)
	}
	p.copyProgram = prog
	p.locCopyMain = shader.GetUniform(prog, "uMainTex")

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &p.vao)

	return p, nil
}

// EnqueuePass adds a pass to the next rendered frame.
func (p *Pipeline) EnqueuePass(rp fog.RenderPass) {
	p.queue = append(p.queue, rp)
}

// Render runs the enqueued passes on color in event order and empties the
// queue. Pass failures are logged and do not stop the frame.
func (p *Pipeline) Render(cam Camera, color *framebuffer.Framebuffer) Stats {
	p.stats = Stats{}
	p.depthTex = color.DepthTexture()
	p.invProj = cam.Projection().Inverse()

	w, h := color.Size()
	desc := fog.TargetDesc{Width: w, Height: h}

	sort.SliceStable(p.queue, func(i, j int) bool {
		return p.queue[i].Event() < p.queue[j].Event()
	})

	for _, rp := range p.queue {
		p.stats.Passes++
		if err := rp.Configure(desc, p); err != nil {
			p.log.Error("pass configure failed", zap.String("pass", rp.Name()), zap.Error(err))
			rp.FrameCleanup(p)
			continue
		}
		if err := rp.Execute(fog.Frame{Camera: cam}, p); err != nil {
			p.log.Error("pass execute failed", zap.String("pass", rp.Name()), zap.Error(err))
		}
	}
	p.queue = p.queue[:0]

	if n := len(p.leased); n > 0 {
		p.log.Warn("passes leaked temporary targets", zap.Int("count", n))
		for fb := range p.leased {
			p.ReleaseTemporary(fb)
		}
	}
	return p.stats
}

// AcquireTemporary returns a pooled colour target of the requested size.
func (p *Pipeline) AcquireTemporary(desc fog.TargetDesc) (fog.Target, error) {
	key := [2]int32{max(desc.Width, 1), max(desc.Height, 1)}

	var fb *framebuffer.Framebuffer
	if free := p.pool[key]; len(free) > 0 {
		fb = free[len(free)-1]
		p.pool[key] = free[:len(free)-1]
	} else {
		var err error
		fb, err = framebuffer.NewColor(key[0], key[1])
		if err != nil {
			return nil, err
		}
		p.log.Debug("allocated temporary target", zap.Int32("width", key[0]), zap.Int32("height", key[1]))
	}

	p.leased[fb] = struct{}{}
	p.stats.Acquired++
	return fb, nil
}

// ReleaseTemporary returns a target obtained from AcquireTemporary.
func (p *Pipeline) ReleaseTemporary(t fog.Target) {
	fb, ok := t.(*framebuffer.Framebuffer)
	if !ok {
		return
	}
	if _, leased := p.leased[fb]; !leased {
		return
	}
	delete(p.leased, fb)
	w, h := fb.Size()
	key := [2]int32{w, h}
	p.pool[key] = append(p.pool[key], fb)
}

// ErrUnsupportedTarget is returned for targets not created by this package.
var ErrUnsupportedTarget = errors.New("unsupported render target")

// Blit draws src over dst with a full-screen triangle. Without a material
// the colour is copied. Blitting a target onto itself leaves it unchanged.
func (p *Pipeline) Blit(src, dst fog.Target, mat fog.Material, pass int) error {
	from, ok := src.(*framebuffer.Framebuffer)
	if !ok {
		return ErrUnsupportedTarget
	}
	to, ok := dst.(*framebuffer.Framebuffer)
	if !ok {
		return ErrUnsupportedTarget
	}
	if from == to && mat == nil {
		return nil
	}
	if from == to {
		return fmt.Errorf("blit with material onto its own source")
	}

	to.Bind()
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	defer gl.Enable(gl.DEPTH_TEST)

	if mat == nil {
		gl.UseProgram(p.copyProgram)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, from.ColorTexture())
		gl.Uniform1i(p.locCopyMain, 0)
	} else {
		prog, ok := mat.(Program)
		if !ok {
			return fmt.Errorf("material %T cannot be drawn by the GL pipeline", mat)
		}
		in := Inputs{
			MainTex:           from.ColorTexture(),
			DepthTex:          p.depthTex,
			InverseProjection: p.invProj,
		}
		if err := prog.Use(pass, in); err != nil {
			return err
		}
	}

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	p.stats.Blits++
	return nil
}

// Submit flushes queued GL commands and reports any GL error.
func (p *Pipeline) Submit() error {
	gl.Flush()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Present copies src to the default framebuffer.
func (p *Pipeline) Present(src *framebuffer.Framebuffer, width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(p.copyProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, src.ColorTexture())
	gl.Uniform1i(p.locCopyMain, 0)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// Destroy releases pooled targets and GL objects.
func (p *Pipeline) Destroy() {
	for fb := range p.leased {
		fb.Destroy()
	}
	for _, free := range p.pool {
		for _, fb := range free {
			fb.Destroy()
		}
	}
	p.pool = make(map[[2]int32][]*framebuffer.Framebuffer)
	p.leased = make(map[*framebuffer.Framebuffer]struct{})
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.copyProgram != 0 {
		gl.DeleteProgram(p.copyProgram)
		p.copyProgram = 0
	}
}

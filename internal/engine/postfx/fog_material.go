// Package postfx holds the GL materials of post-processing passes.
package postfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
	"github.com/Faultbox/stylistic-fog/internal/engine/pipeline"
	"github.com/Faultbox/stylistic-fog/internal/engine/postfx/shaders"
	"github.com/Faultbox/stylistic-fog/internal/engine/shader"
)

// Texture units used by the fog programs.
const (
	unitMain  = 0
	unitDepth = 1
	unitSlot0 = 2
	unitSlot1 = 3
)

// paramUniforms lists the material uniform names in fog.Param order.
var paramUniforms = func() []string {
	names := make([]string, fog.ParamCount)
	for p := fog.Param(0); p < fog.ParamCount; p++ {
		names[p] = p.Name()
	}
	return names
}()

// fogProgram is one compiled fog pass with its uniform table.
type fogProgram struct {
	id         uint32
	params     []int32
	locMain    int32
	locDepth   int32
	locInvProj int32
}

// FogMaterial is the GL implementation of fog.Material. It holds one program
// per fog pass index.
type FogMaterial struct {
	programs [fog.PassCount]fogProgram
	params   fog.ParamSet
	textures *TextureCache
	blank    uint32
	log      *zap.Logger
}

// NewFogMaterial compiles the fog passes. Must be called with a current GL
// context.
func NewFogMaterial(log *zap.Logger) (*FogMaterial, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &FogMaterial{
		textures: NewTextureCache(),
		log:      log,
	}

	for pass := 0; pass < fog.PassCount; pass++ {
		id, err := shader.CompileVariant(shaders.FullscreenVertexShader, shaders.FogFragmentShader,
			fmt.Sprintf("FOG_PASS %d", pass))
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("fog pass %d: %w", pass, err)
		}
		m.programs[pass] = fogProgram{
			id:         id,
			params:     shader.Locations(id, paramUniforms),
			locMain:    shader.GetUniform(id, "uMainTex"),
			locDepth:   shader.GetUniform(id, "uDepthTex"),
			locInvProj: shader.GetUniform(id, "uInverseProjection"),
		}
	}

	// Unbound colour slots sample transparent black, so the term fades out.
	gl.GenTextures(1, &m.blank)
	gl.BindTexture(gl.TEXTURE_2D, m.blank)
	transparent := []uint8{0, 0, 0, 0}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(transparent))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	log.Debug("fog material created", zap.Int("passes", fog.PassCount))
	return m, nil
}

// SetParams stores the parameters applied on the next Use.
func (m *FogMaterial) SetParams(ps *fog.ParamSet) {
	m.params = *ps
}

// Use activates the program of pass and uploads the stored parameters.
// Absent parameters are left untouched; the pass program only reads the
// terms it composites.
func (m *FogMaterial) Use(pass int, in pipeline.Inputs) error {
	if pass < 0 || pass >= fog.PassCount {
		return fmt.Errorf("fog pass %d out of range", pass)
	}
	prog := &m.programs[pass]
	gl.UseProgram(prog.id)

	gl.ActiveTexture(gl.TEXTURE0 + unitMain)
	gl.BindTexture(gl.TEXTURE_2D, in.MainTex)
	gl.Uniform1i(prog.locMain, unitMain)
	gl.ActiveTexture(gl.TEXTURE0 + unitDepth)
	gl.BindTexture(gl.TEXTURE_2D, in.DepthTex)
	gl.Uniform1i(prog.locDepth, unitDepth)
	invProj := in.InverseProjection
	gl.UniformMatrix4fv(prog.locInvProj, 1, false, invProj.Ptr())

	m.bindSlot(prog, fog.ParamFogColorTexture0, unitSlot0)
	m.bindSlot(prog, fog.ParamFogColorTexture1, unitSlot1)

	m.params.Each(func(p fog.Param, v fog.Value) {
		loc := prog.params[p]
		switch v.Kind {
		case fog.KindMatrix:
			mat := v.Matrix
			gl.UniformMatrix4fv(loc, 1, false, mat.Ptr())
		case fog.KindInt:
			gl.Uniform1i(loc, v.Int)
		case fog.KindFloat:
			gl.Uniform1f(loc, v.Float)
		}
	})

	m.textures.Tick()
	gl.ActiveTexture(gl.TEXTURE0)
	return nil
}

func (m *FogMaterial) bindSlot(prog *fogProgram, p fog.Param, unit uint32) {
	id := m.blank
	if v, ok := m.params.Get(p); ok && v.Kind == fog.KindTexture {
		id = m.textures.Get(v.Texture)
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.Uniform1i(prog.params[p], int32(unit))
}

// Destroy deletes the programs and uploaded textures.
func (m *FogMaterial) Destroy() {
	for i := range m.programs {
		if m.programs[i].id != 0 {
			gl.DeleteProgram(m.programs[i].id)
			m.programs[i].id = 0
		}
	}
	m.textures.Destroy()
	if m.blank != 0 {
		gl.DeleteTextures(1, &m.blank)
		m.blank = 0
	}
}

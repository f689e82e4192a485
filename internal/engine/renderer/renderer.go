// Package renderer draws the demo scene the fog is composited over.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/stylistic-fog/internal/engine/framebuffer"
	"github.com/Faultbox/stylistic-fog/internal/engine/lighting"
	"github.com/Faultbox/stylistic-fog/internal/engine/shader"
	"github.com/Faultbox/stylistic-fog/pkg/math"
)

const sceneVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    gl_Position = uViewProj * world;
}
`

const sceneFragmentShader = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uLightDir;
uniform float uAmbient;
uniform float uChecker;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, -uLightDir), 0.0);
    vec3 color = uColor;
    if (uChecker > 0.0) {
        vec2 cell = floor(vWorldPos.xz / uChecker);
        color *= mod(cell.x + cell.y, 2.0) < 1.0 ? 1.0 : 0.8;
    }
    FragColor = vec4(color * (uAmbient + (1.0 - uAmbient) * diffuse), 1.0);
}
`

// Config holds renderer configuration.
type Config struct {
	GroundExtent float32
	GroundTiles  int
	PillarRows   int
	PillarsInRow int
	Spacing      float32
	SkyColor     [3]float32
	Sun          lighting.Sun
}

// DefaultConfig returns the demo scene layout.
func DefaultConfig() Config {
	return Config{
		GroundExtent: 200,
		GroundTiles:  40,
		PillarRows:   12,
		PillarsInRow: 7,
		Spacing:      8,
		SkyColor:     [3]float32{0.45, 0.6, 0.8},
		Sun:          lighting.DefaultSun(),
	}
}

type gpuMesh struct {
	vao, vbo uint32
	count    int32
}

// Renderer draws the ground grid and pillars into an offscreen target.
type Renderer struct {
	config  Config
	log     *zap.Logger
	program uint32

	locViewProj int32
	locModel    int32
	locColor    int32
	locLightDir int32
	locAmbient  int32
	locChecker  int32

	ground  gpuMesh
	box     gpuMesh
	pillars []Pillar
}

// New creates the renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created and gl.Init.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config:  cfg,
		log:     log,
		pillars: DemoPillars(cfg.PillarRows, cfg.PillarsInRow, cfg.Spacing),
	}

	var err error
	r.program, err = shader.CompileProgram(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("scene program: %w", err)
	}
	r.locViewProj = shader.GetUniform(r.program, "uViewProj")
	r.locModel = shader.GetUniform(r.program, "uModel")
	r.locColor = shader.GetUniform(r.program, "uColor")
	r.locLightDir = shader.GetUniform(r.program, "uLightDir")
	r.locAmbient = shader.GetUniform(r.program, "uAmbient")
	r.locChecker = shader.GetUniform(r.program, "uChecker")

	r.ground = upload(GroundMesh(cfg.GroundExtent, cfg.GroundTiles))
	r.box = upload(BoxMesh())

	log.Debug("scene created",
		zap.Int("pillars", len(r.pillars)),
		zap.Int32("ground_vertices", r.ground.count),
	)
	return r, nil
}

func upload(m *Mesh) gpuMesh {
	var g gpuMesh
	g.count = int32(m.VertexCount())

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return g
}

// Camera supplies the matrices a scene is drawn with.
type Camera interface {
	ViewMatrix() math.Mat4
	Projection() math.Mat4
}

// Draw renders the scene into target, clearing it to the sky colour first.
func (r *Renderer) Draw(cam Camera, target *framebuffer.Framebuffer) {
	target.Bind()
	sky := r.config.SkyColor
	target.Clear(sky[0], sky[1], sky[2], 1)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	defer gl.Disable(gl.CULL_FACE)

	viewProj := cam.Projection().Mul(cam.ViewMatrix())
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	light := r.config.Sun.Incident()
	gl.Uniform3f(r.locLightDir, light.X, light.Y, light.Z)
	gl.Uniform1f(r.locAmbient, r.config.Sun.Ambient)

	ground := math.Identity()
	gl.UniformMatrix4fv(r.locModel, 1, false, ground.Ptr())
	gl.Uniform3f(r.locColor, 0.42, 0.45, 0.38)
	gl.Uniform1f(r.locChecker, 4)
	r.draw(r.ground)

	gl.Uniform1f(r.locChecker, 0)
	for _, p := range r.pillars {
		model := p.Model()
		gl.UniformMatrix4fv(r.locModel, 1, false, model.Ptr())
		gl.Uniform3f(r.locColor, p.Color[0], p.Color[1], p.Color[2])
		r.draw(r.box)
	}
}

func (r *Renderer) draw(m gpuMesh) {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	gl.BindVertexArray(0)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	for _, m := range []*gpuMesh{&r.ground, &r.box} {
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
		*m = gpuMesh{}
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

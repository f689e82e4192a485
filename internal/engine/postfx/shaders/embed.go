// Package shaders provides embedded GLSL shader sources for post passes.
package shaders

import _ "embed"

// FullscreenVertexShader emits a single triangle covering the viewport.
//
//go:embed fullscreen.vert
var FullscreenVertexShader string

// CopyFragmentShader copies uMainTex unchanged.
//
//go:embed copy.frag
var CopyFragmentShader string

// FogFragmentShader composites distance and height fog. Compile it once per
// pass with FOG_PASS defined.
//
//go:embed fog.frag
var FogFragmentShader string

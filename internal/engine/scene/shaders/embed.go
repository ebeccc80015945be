// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TerrainVertexShader is the vertex shader for terrain rendering.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader is the fragment shader for terrain rendering.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// LinesVertexShader is the vertex shader for colored debug lines.
//
//go:embed lines.vert
var LinesVertexShader string

// LinesFragmentShader is the fragment shader for colored debug lines.
//
//go:embed lines.frag
var LinesFragmentShader string

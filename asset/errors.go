// Package asset loads what the renderer draws: kobj meshes, textures and
// SPIR-V shader byte code. Nothing in it touches the GPU.
package asset

import "github.com/pkg/errors"

var (
	ErrMalformedMesh      = errors.New("malformed mesh")
	ErrUnsupportedTexture = errors.New("unsupported texture")
	ErrInvalidShader      = errors.New("invalid shader byte code")
)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

// ProgramPrelude declares the uniform block, the texture bindings, the
// vertex stage and the sampling helpers. Custom programs append an fs_main
// to it.
//
//go:embed shaders/prelude.wgsl
var ProgramPrelude string

//go:embed shaders/vertex_color.wgsl
var vertexColorFragment string

//go:embed shaders/texture.wgsl
var textureFragment string

// BlitWGSL is the full-target copy module. It has one vertex entry point
// (vs_main) and two fragment entry points (fs_linear, fs_nearest).
//
//go:embed shaders/blit.wgsl
var BlitWGSL string

// VertexColorWGSL is the module behind ProgramVertexColor.
var VertexColorWGSL = ProgramSource(vertexColorFragment)

// TextureWGSL is the module behind ProgramTexture.
var TextureWGSL = ProgramSource(textureFragment)

// ProgramSource prepends ProgramPrelude to a fragment stage. Sources that
// already declare vs_main are returned unchanged.
func ProgramSource(fragment string) string {
	if strings.Contains(fragment, "fn vs_main") {
		return fragment
	}
	return ProgramPrelude + "\n" + fragment
}

// CompileWGSL compiles WGSL to SPIR-V words.
func CompileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V length %d is not word aligned", ErrShaderCompile, len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// ValidateWGSL reports whether src compiles.
func ValidateWGSL(src string) error {
	_, err := CompileWGSL(src)
	return err
}

// Package kernel defines the boundary to the compute-kernel provider: the
// parameter block shared with a compiled kernel, the per-tile entry point
// signature, and the Provider interface that turns shader source into a
// callable kernel.
package kernel

import (
	"context"
	"fmt"
)

// TileSize is the edge length of one dispatch tile in pixels. It is baked
// into the kernel entry point (numthreads(T, T, 1)), so it is part of the
// kernel ABI rather than a dispatch-engine tunable.
const TileSize = 8

// Constants is the per-frame constant block visible to the kernel.
type Constants struct {
	Time  float32
	Frame int32
	Pitch uint32

	MouseX, MouseY           float32
	MouseClickX, MouseClickY float32

	ResX, ResY, ResZ float32
}

// GlobalParams carries the constant block and the destination pixel buffer
// (RGBA8, Constants.Pitch pixels per row). The kernel writes pixels at
// offsets it derives from its own group coordinates; no two tiles of one
// dispatch touch the same pixel.
type GlobalParams struct {
	Constants *Constants
	Pixels    []byte
}

// Func renders one TileSize x TileSize tile for the given group id.
// Invocations for distinct group ids are safe to run concurrently.
type Func func(groupID [3]int32, globals *GlobalParams)

// Dialect selects the source language handed to the provider.
type Dialect int

const (
	DialectGLSL Dialect = iota
	DialectSlang
)

func (d Dialect) String() string {
	switch d {
	case DialectSlang:
		return "slang"
	default:
		return "glsl"
	}
}

// ParseDialect maps a dialect token to its value.
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "glsl":
		return DialectGLSL, nil
	case "slang":
		return DialectSlang, nil
	default:
		return DialectGLSL, fmt.Errorf("unknown dialect %q", name)
	}
}

// CompileError carries the provider's diagnostics for a failed build.
type CompileError struct {
	Diagnostics string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("kernel compile failed: %s", e.Diagnostics)
}

// Provider compiles shader source into a callable kernel. Build time is
// measured by the caller; Compile itself reports only success or
// diagnostics.
type Provider interface {
	Compile(ctx context.Context, source string, dialect Dialect) (Func, error)
}

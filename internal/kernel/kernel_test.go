package kernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
void mainImage(out vec4 fragColor, in vec2 fragCoord)
{
    fragColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

func newGlobals(w, h int) *GlobalParams {
	return &GlobalParams{
		Constants: &Constants{
			Pitch: uint32(w),
			ResX:  float32(w),
			ResY:  float32(h),
			ResZ:  1,
		},
		Pixels: make([]byte, w*h*4),
	}
}

func TestReferenceProviderCompile(t *testing.T) {
	provider := NewReferenceProvider()

	fn, err := provider.Compile(context.Background(), testSource, DialectGLSL)
	require.NoError(t, err)
	require.NotNil(t, fn)

	_, err = provider.Compile(context.Background(), "int x = 1;", DialectGLSL)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Diagnostics, "mainImage")
}

func TestReferenceProviderDeterministic(t *testing.T) {
	provider := NewReferenceProvider()
	fn1, err := provider.Compile(context.Background(), testSource, DialectGLSL)
	require.NoError(t, err)
	fn2, err := provider.Compile(context.Background(), testSource, DialectGLSL)
	require.NoError(t, err)

	a, b := newGlobals(16, 16), newGlobals(16, 16)
	for y := int32(0); y < 2; y++ {
		for x := int32(0); x < 2; x++ {
			fn1([3]int32{x, y, 0}, a)
			fn2([3]int32{x, y, 0}, b)
		}
	}
	assert.Equal(t, a.Pixels, b.Pixels)
}

func TestTileOwnsDisjointPixels(t *testing.T) {
	// One tile dispatch must not write outside its 8x8 destination range.
	globals := newGlobals(16, 16)
	Solid(1, 1, 1, 1)([3]int32{1, 0, 0}, globals)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			off := (x + y*16) * 4
			inTile := x >= TileSize && x < 2*TileSize && y < TileSize
			if inTile {
				assert.Equal(t, byte(255), globals.Pixels[off], "pixel (%d,%d)", x, y)
			} else {
				assert.Zero(t, globals.Pixels[off], "pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("glsl")
	require.NoError(t, err)
	assert.Equal(t, DialectGLSL, d)

	d, err = ParseDialect("slang")
	require.NoError(t, err)
	assert.Equal(t, DialectSlang, d)

	_, err = ParseDialect("hlsl")
	assert.Error(t, err)
}

package kernel

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// ReferenceProvider is the built-in software provider. It does not run a
// real shader compiler: it validates that the source declares the
// mainImage entry point the harness wraps, then returns a procedural
// kernel whose color phase is seeded from the source hash. The result is
// deterministic for a given source, which is what the harness needs when
// benchmarking itself and in tests.
type ReferenceProvider struct{}

// NewReferenceProvider returns the built-in provider.
func NewReferenceProvider() *ReferenceProvider {
	return &ReferenceProvider{}
}

// Compile implements Provider.
func (p *ReferenceProvider) Compile(ctx context.Context, source string, dialect Dialect) (Func, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.Contains(source, "mainImage") {
		return nil, &CompileError{
			Diagnostics: "entry point 'mainImage' not found in " + dialect.String() + " source",
		}
	}

	h := fnv.New32a()
	h.Write([]byte(source))
	phase := float64(h.Sum32()%1024) / 1024 * 2 * math.Pi

	return gradient(phase), nil
}

// gradient returns a kernel painting a time-animated color gradient, in the
// spirit of the default shadertoy image. One invocation fills one tile.
func gradient(phase float64) Func {
	return func(groupID [3]int32, globals *GlobalParams) {
		c := globals.Constants
		t := float64(c.Time) + phase
		for ty := int32(0); ty < TileSize; ty++ {
			for tx := int32(0); tx < TileSize; tx++ {
				x := groupID[0]*TileSize + tx
				y := groupID[1]*TileSize + ty

				// Pixel center, with the y flip applied by the entry
				// point wrapper in the original harness.
				px := (float64(x) + 0.5) / float64(c.ResX)
				py := (float64(c.ResY) - float64(y) - 0.5) / float64(c.ResY)

				writePixel(globals, x, y,
					0.5+0.5*math.Cos(t+px*4),
					0.5+0.5*math.Cos(t+py*4+2),
					0.5+0.5*math.Cos(t+(px+py)*4+4),
					1)
			}
		}
	}
}

// Solid returns a kernel filling every pixel of its tile with one color,
// matching the fallback shader of the original viewer.
func Solid(r, g, b, a float64) Func {
	return func(groupID [3]int32, globals *GlobalParams) {
		for ty := int32(0); ty < TileSize; ty++ {
			for tx := int32(0); tx < TileSize; tx++ {
				x := groupID[0]*TileSize + tx
				y := groupID[1]*TileSize + ty
				writePixel(globals, x, y, r, g, b, a)
			}
		}
	}
}

func writePixel(globals *GlobalParams, x, y int32, r, g, b, a float64) {
	i := int(x) + int(y)*int(globals.Constants.Pitch)
	off := i * 4
	if off < 0 || off+4 > len(globals.Pixels) {
		return
	}
	globals.Pixels[off+0] = saturate(r)
	globals.Pixels[off+1] = saturate(g)
	globals.Pixels[off+2] = saturate(b)
	globals.Pixels[off+3] = saturate(a)
}

func saturate(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v * 255)
}

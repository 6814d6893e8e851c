package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaderbench/internal/kernel"
)

func TestTiles(t *testing.T) {
	assert.Equal(t, 1, Tiles(1))
	assert.Equal(t, 1, Tiles(8))
	assert.Equal(t, 2, Tiles(9))
	// 1280x720 at tile size 8 covers the frame exactly.
	assert.Equal(t, 160, Tiles(1280))
	assert.Equal(t, 90, Tiles(720))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 104, AlignUp(100))
	assert.Equal(t, 8, AlignUp(1))
	assert.Equal(t, 1280, AlignUp(1280))
}

func newGlobals(w, h int) *kernel.GlobalParams {
	return &kernel.GlobalParams{
		Constants: &kernel.Constants{
			Pitch: uint32(w),
			ResX:  float32(w),
			ResY:  float32(h),
			ResZ:  1,
		},
		Pixels: make([]byte, w*h*4),
	}
}

// coordKernel writes a value derived from the pixel coordinate, so any
// missing, duplicated or misplaced tile shows up in the output bytes.
func coordKernel(groupID [3]int32, globals *kernel.GlobalParams) {
	pitch := int(globals.Constants.Pitch)
	for ty := 0; ty < kernel.TileSize; ty++ {
		for tx := 0; tx < kernel.TileSize; tx++ {
			x := int(groupID[0])*kernel.TileSize + tx
			y := int(groupID[1])*kernel.TileSize + ty
			off := (x + y*pitch) * 4
			globals.Pixels[off+0] = byte(x)
			globals.Pixels[off+1] = byte(y)
			globals.Pixels[off+2] = byte(x ^ y)
			globals.Pixels[off+3] = 255
		}
	}
}

func TestRenderFrameCoversFrame(t *testing.T) {
	const w, h = 64, 32
	globals := newGlobals(w, h)
	engine := NewEngine(1)
	engine.RenderFrame(coordKernel, globals, w, h, false)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (x + y*w) * 4
			require.Equal(t, byte(x), globals.Pixels[off+0], "pixel (%d,%d)", x, y)
			require.Equal(t, byte(y), globals.Pixels[off+1], "pixel (%d,%d)", x, y)
			require.Equal(t, byte(255), globals.Pixels[off+3], "pixel (%d,%d)", x, y)
		}
	}
}

func TestSequentialParallelIdentical(t *testing.T) {
	const w, h = 128, 64
	seq := newGlobals(w, h)
	par := newGlobals(w, h)

	NewEngine(1).RenderFrame(coordKernel, seq, w, h, false)
	NewEngine(8).RenderFrame(coordKernel, par, w, h, true)

	assert.Equal(t, seq.Pixels, par.Pixels)
}

func TestParallelDispatchesEveryTileOnce(t *testing.T) {
	const w, h = 80, 40
	var mu sync.Mutex
	seen := make(map[[2]int32]int)

	counting := func(groupID [3]int32, globals *kernel.GlobalParams) {
		mu.Lock()
		seen[[2]int32{groupID[0], groupID[1]}]++
		mu.Unlock()
	}

	NewEngine(4).RenderFrame(counting, newGlobals(w, h), w, h, true)

	assert.Len(t, seen, Tiles(w)*Tiles(h))
	for gid, count := range seen {
		assert.Equal(t, 1, count, "tile %v", gid)
	}
}

func TestRenderFrameMeasuresDispatch(t *testing.T) {
	d := NewEngine(2).RenderFrame(coordKernel, newGlobals(16, 16), 16, 16, true)
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
}

func TestWorkerPool(t *testing.T) {
	pool := newWorkerPool(4, 16)
	pool.start()

	var counter int64
	var mu sync.Mutex
	for i := 0; i < 100; i++ {
		pool.submit(func(workerID int) {
			mu.Lock()
			counter++
			mu.Unlock()
		})
	}
	pool.wait()
	pool.stop()

	assert.EqualValues(t, 100, counter)
}

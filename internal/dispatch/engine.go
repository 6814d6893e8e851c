// Package dispatch partitions a frame into fixed-size tiles and invokes
// the compiled kernel once per tile, either sequentially or across a
// worker pool. The engine performs no pixel computation itself; it is a
// partition-and-invoke driver that measures the wall-clock time of one
// full frame dispatch.
package dispatch

import (
	"time"

	"shaderbench/internal/kernel"
)

// Tiles returns the number of tiles covering dim pixels.
func Tiles(dim int) int {
	return (dim + kernel.TileSize - 1) / kernel.TileSize
}

// AlignUp rounds dim up to the next multiple of the tile size.
func AlignUp(dim int) int {
	return Tiles(dim) * kernel.TileSize
}

// Engine drives tiled frame dispatches with a fixed parallel worker count.
type Engine struct {
	workers int
}

// NewEngine returns an engine using the given worker count for parallel
// dispatch. Counts below one are raised to one.
func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers}
}

// Workers returns the parallel worker count.
func (e *Engine) Workers() int {
	return e.workers
}

// RenderFrame dispatches every tile of a width x height frame to fn and
// returns the elapsed wall-clock time of the whole dispatch. The parallel
// flag selects pool dispatch; tiles never share destination pixels, so the
// two modes produce identical output. Kernel build time and any pixel
// post-processing are outside the measurement.
func (e *Engine) RenderFrame(fn kernel.Func, globals *kernel.GlobalParams, width, height int, parallel bool) time.Duration {
	xTiles, yTiles := Tiles(width), Tiles(height)

	start := time.Now()
	if parallel && e.workers > 1 {
		e.renderParallel(fn, globals, xTiles, yTiles)
	} else {
		renderSequential(fn, globals, xTiles, yTiles)
	}
	return time.Since(start)
}

// renderSequential walks tiles in row-major order, y outer, x inner.
func renderSequential(fn kernel.Func, globals *kernel.GlobalParams, xTiles, yTiles int) {
	for y := 0; y < yTiles; y++ {
		for x := 0; x < xTiles; x++ {
			fn([3]int32{int32(x), int32(y), 0}, globals)
		}
	}
}

// renderParallel submits one task per tile and joins before returning.
// Completion order between tiles is unspecified.
func (e *Engine) renderParallel(fn kernel.Func, globals *kernel.GlobalParams, xTiles, yTiles int) {
	pool := newWorkerPool(e.workers, xTiles*yTiles)
	pool.start()
	for y := 0; y < yTiles; y++ {
		for x := 0; x < xTiles; x++ {
			gid := [3]int32{int32(x), int32(y), 0}
			pool.submit(func(workerID int) {
				fn(gid, globals)
			})
		}
	}
	pool.wait()
	pool.stop()
}

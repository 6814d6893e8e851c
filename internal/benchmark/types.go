package benchmark

// RunRecord holds the timings collected from one completed run: the kernel
// build time and one dispatch time per rendered frame, in frame order.
// Records are immutable once appended to a Store.
type RunRecord struct {
	BuildTime float64   `json:"build_time"`
	Frames    []float64 `json:"frames"`
}

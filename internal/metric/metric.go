// Package metric parses and resolves the stacked-aggregation specifiers of
// the benchmark query language. A specifier is a whitespace-separated token
// stack ending in a variable name, e.g. "geomean sum frame-time": the
// per-run cumulation (sum) folds each run's frame times into one scalar,
// and the across-run cumulation (geomean) folds those scalars into the
// final result.
package metric

import (
	"errors"
	"fmt"
	"strings"

	"shaderbench/internal/benchmark"
	"shaderbench/internal/stats"
)

// Variable identifies the per-run quantity a spec resolves.
type Variable int

const (
	// BuildTime is the kernel compile time of each run, already a scalar.
	BuildTime Variable = iota
	// FrameTime is the per-frame dispatch time sequence of each run.
	FrameTime
)

var (
	// ErrEmptySpec reports a specifier with no tokens.
	ErrEmptySpec = errors.New("empty metric spec")
	// ErrTooManyCumulations reports more stacked cumulation tokens than
	// the variable admits: one for build-time, two for frame-time.
	ErrTooManyCumulations = errors.New("too many cumulation prefixes")
)

// UnknownVariableError reports a spec whose final token is not a variable.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// Spec is a parsed specifier. Both cumulations default to stats.Last.
type Spec struct {
	Variable   Variable
	PerRun     stats.Func
	AcrossRuns stats.Func
}

// Parse tokenizes and validates a specifier string. Tokens are consumed
// from the end of the stack: variable first, then the per-run cumulation
// (frame-time only), then the across-run cumulation.
func Parse(s string) (Spec, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return Spec{}, ErrEmptySpec
	}

	spec := Spec{PerRun: stats.Last, AcrossRuns: stats.Last}

	switch tokens[len(tokens)-1] {
	case "build-time":
		spec.Variable = BuildTime
	case "frame-time":
		spec.Variable = FrameTime
	default:
		return Spec{}, &UnknownVariableError{Name: tokens[len(tokens)-1]}
	}
	tokens = tokens[:len(tokens)-1]

	if spec.Variable == FrameTime && len(tokens) > 0 {
		fn, err := stats.Parse(tokens[len(tokens)-1])
		if err != nil {
			return Spec{}, err
		}
		spec.PerRun = fn
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) > 1 {
		return Spec{}, ErrTooManyCumulations
	}
	if len(tokens) == 1 {
		fn, err := stats.Parse(tokens[0])
		if err != nil {
			return Spec{}, err
		}
		spec.AcrossRuns = fn
	}
	return spec, nil
}

// Resolve evaluates the spec against the recorded runs: one scalar per run
// (BuildTime directly, or PerRun applied to the frame sequence), then the
// across-run cumulation over those scalars in run order.
func (s Spec) Resolve(runs []benchmark.RunRecord) float64 {
	perRun := make([]float64, 0, len(runs))
	for _, run := range runs {
		switch s.Variable {
		case BuildTime:
			perRun = append(perRun, run.BuildTime)
		case FrameTime:
			perRun = append(perRun, s.PerRun.Apply(run.Frames))
		}
	}
	return s.AcrossRuns.Apply(perRun)
}

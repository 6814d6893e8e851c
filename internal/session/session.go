// Package session implements the benchmark script interpreter: it parses
// commands line by line, maintains the session configuration, drives timed
// tiled dispatches and appends the results to the statistics store, and
// resolves ${...} templates for print. Every malformed input is fatal by
// design; a benchmarking tool must never report data from a broken script.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"shaderbench/internal/benchmark"
	"shaderbench/internal/dispatch"
	"shaderbench/internal/kernel"
	"shaderbench/internal/metric"
	"shaderbench/internal/telemetry"
)

// Session executes one benchmark script. A single control goroutine owns
// the session; only the dispatch engine fans out work.
type Session struct {
	cfg      Config
	dialect  kernel.Dialect
	store    *benchmark.Store
	provider kernel.Provider
	engine   *dispatch.Engine
	out      io.Writer

	framebuffer []byte

	// Overridable for tests.
	now      func() time.Time
	readFile func(string) ([]byte, error)
}

// New returns a session over the given configuration and collaborators.
// Script output (print lines) goes to out.
func New(cfg Config, provider kernel.Provider, engine *dispatch.Engine, out io.Writer) *Session {
	return &Session{
		cfg:      cfg,
		store:    benchmark.NewStore(),
		provider: provider,
		engine:   engine,
		out:      out,
		now:      time.Now,
		readFile: os.ReadFile,
	}
}

// SetDialect selects the source dialect passed to the provider.
func (s *Session) SetDialect(d kernel.Dialect) {
	s.dialect = d
}

// Config returns the current session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Store returns the session's statistics store.
func (s *Session) Store() *benchmark.Store {
	return s.store
}

// Execute runs a script to completion. The first error terminates the
// session; nothing after the failing line executes.
func (s *Session) Execute(ctx context.Context, script io.Reader) error {
	scanner := bufio.NewScanner(script)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := s.ExecuteLine(ctx, scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

// ExecuteLine parses and executes one script line.
func (s *Session) ExecuteLine(ctx context.Context, line string) error {
	cmd, ok, err := parseCommand(line)
	if err != nil || !ok {
		return err
	}

	switch cmd.kind {
	case cmdClear:
		s.store.Clear()
		return nil
	case cmdFramerate:
		return s.setFramerate(cmd.args[0])
	case cmdResolution:
		return s.setResolution(cmd.args[0], cmd.args[1])
	case cmdMultithreading:
		// Only on/true enable; every other token disables.
		s.cfg.Multithreaded = cmd.args[0] == "on" || cmd.args[0] == "true"
		return nil
	case cmdRun:
		return s.run(ctx, cmd.args[0], cmd.args[1])
	case cmdPrint:
		return s.print(cmd.text)
	}
	return nil
}

func (s *Session) setFramerate(arg string) error {
	fps, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return &NonNumericArgumentError{Command: "framerate", Value: arg}
	}
	if fps == -1 {
		s.cfg.ForcedDelta = RealtimeDelta
	} else {
		s.cfg.ForcedDelta = 1 / fps
	}
	return nil
}

func (s *Session) setResolution(wArg, hArg string) error {
	w, err := strconv.Atoi(wArg)
	if err != nil {
		return &NonNumericArgumentError{Command: "resolution", Value: wArg}
	}
	h, err := strconv.Atoi(hArg)
	if err != nil {
		return &NonNumericArgumentError{Command: "resolution", Value: hArg}
	}
	s.cfg.SetResolution(w, h)
	return nil
}

// run compiles the kernel at path (timed as build time) and renders the
// requested number of frames, appending one RunRecord on completion. An
// abort mid-run discards the partial record and kills the session.
func (s *Session) run(ctx context.Context, path, framesArg string) error {
	frameCount, err := strconv.Atoi(framesArg)
	if err != nil {
		return &NonNumericArgumentError{Command: "run", Value: framesArg}
	}

	source, err := s.readFile(path)
	if err != nil {
		return fmt.Errorf("read kernel source %s: %w", path, err)
	}

	buildStart := s.now()
	fn, err := s.provider.Compile(ctx, string(source), s.dialect)
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}
	buildTime := s.now().Sub(buildStart)

	w, h := s.cfg.Width, s.cfg.Height
	if len(s.framebuffer) != w*h*4 {
		s.framebuffer = make([]byte, w*h*4)
	}
	constants := &kernel.Constants{
		Pitch: uint32(w),
		ResX:  float32(w),
		ResY:  float32(h),
		ResZ:  1,
	}
	globals := &kernel.GlobalParams{Constants: constants, Pixels: s.framebuffer}
	tiles := dispatch.Tiles(w) * dispatch.Tiles(h)

	frames := make([]float64, 0, frameCount)
	var elapsed float64
	prev := s.now()
	for i := 0; i < frameCount; i++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		}

		// Frame 0 renders at elapsed time 0; later frames advance the
		// clock by the forced delta or the measured inter-frame delta.
		cur := s.now()
		if i > 0 {
			if s.cfg.ForcedDelta >= 0 {
				elapsed += s.cfg.ForcedDelta
			} else {
				elapsed += cur.Sub(prev).Seconds()
			}
		}
		prev = cur

		constants.Time = float32(elapsed)
		constants.Frame = int32(i)

		d := s.engine.RenderFrame(fn, globals, w, h, s.cfg.Multithreaded)
		frames = append(frames, d.Seconds())

		telemetry.FramesRenderedTotal.Inc()
		telemetry.TilesDispatchedTotal.Add(float64(tiles))
		telemetry.FrameSeconds.Observe(d.Seconds())
	}

	s.store.Append(benchmark.RunRecord{
		BuildTime: buildTime.Seconds(),
		Frames:    frames,
	})
	telemetry.RunsTotal.Inc()
	slog.Debug("run complete",
		"path", path,
		"frames", frameCount,
		"build_seconds", buildTime.Seconds(),
		"resolution", fmt.Sprintf("%dx%d", w, h),
		"multithreaded", s.cfg.Multithreaded)
	return nil
}

// print substitutes every ${spec} with the resolved metric value and emits
// one line of text.
func (s *Session) print(text string) error {
	expanded, err := s.expand(text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, expanded)
	return err
}

// expand resolves ${...} templates. An unterminated ${ consumes the rest
// of the line as its spec.
func (s *Session) expand(text string) (string, error) {
	var b strings.Builder
	for {
		i := strings.Index(text, "${")
		if i < 0 {
			b.WriteString(text)
			return b.String(), nil
		}
		b.WriteString(text[:i])

		rest := text[i+2:]
		var specStr string
		if j := strings.IndexByte(rest, '}'); j >= 0 {
			specStr, text = rest[:j], rest[j+1:]
		} else {
			specStr, text = rest, ""
		}

		spec, err := metric.Parse(specStr)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%f", spec.Resolve(s.store.All())))
	}
}

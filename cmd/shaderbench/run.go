package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"shaderbench/internal/db"
	"shaderbench/internal/dispatch"
	"shaderbench/internal/kernel"
	"shaderbench/internal/session"
	"shaderbench/internal/telemetry"
)

// dialectValue adapts kernel.Dialect to the flag interface.
type dialectValue kernel.Dialect

var _ pflag.Value = (*dialectValue)(nil)

func (d *dialectValue) String() string {
	return kernel.Dialect(*d).String()
}

func (d *dialectValue) Set(s string) error {
	parsed, err := kernel.ParseDialect(s)
	if err != nil {
		return err
	}
	*d = dialectValue(parsed)
	return nil
}

func (d *dialectValue) Type() string {
	return "dialect"
}

func newRunCmd() *cobra.Command {
	var (
		workers     int
		save        bool
		metricsAddr string
		dialect     = dialectValue(kernel.DialectGLSL)
	)

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a benchmark script",
		Long: `Executes a benchmark script line by line: configuration commands mutate
the session, 'run' performs timed tiled renders, and 'print' emits text with
${...} metric templates resolved against the recorded runs. The first
malformed line or failed kernel build aborts the whole session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath := args[0]
			script, err := os.Open(scriptPath)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer script.Close()

			if metricsAddr != "" {
				go func() {
					if err := telemetry.StartMetricsServer(metricsAddr); err != nil {
						slog.Error("Metrics server failed", "error", err)
					}
				}()
			}

			if workers <= 0 {
				workers = viper.GetInt("workers")
			}
			cfg := session.DefaultConfig()
			cfg.SetResolution(viper.GetInt("width"), viper.GetInt("height"))

			sess := session.New(cfg, kernel.NewReferenceProvider(),
				dispatch.NewEngine(workers), cmd.OutOrStdout())
			sess.SetDialect(kernel.Dialect(dialect))

			// An interrupt mid-run kills the session; no partial run is
			// recorded or saved.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := sess.Execute(ctx, script); err != nil {
				return err
			}

			if save {
				if err := saveHistory(scriptPath, sess); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d run(s) to history\n", sess.Store().Len())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count for multithreaded dispatch (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "Save completed runs to the history store")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address")
	cmd.Flags().Var(&dialect, "dialect", "Kernel source dialect (glsl|slang)")
	return cmd
}

func saveHistory(scriptPath string, sess *session.Session) error {
	store, err := newHistoryStore()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	cfg := sess.Config()
	for _, record := range sess.Store().All() {
		if _, err := store.SaveRun(db.StoredRun{
			Script:        scriptPath,
			Width:         cfg.Width,
			Height:        cfg.Height,
			Multithreaded: cfg.Multithreaded,
			BuildSeconds:  record.BuildTime,
			Frames:        record.Frames,
		}); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shaderbench/internal/db"
	"shaderbench/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shaderbench",
	Short: "Benchmark harness for CPU-compiled shader kernels",
	Long: `shaderbench drives repeated tiled renders of a CPU-compiled shader
kernel and reports aggregated timing statistics. Benchmark scripts configure
the session (resolution, frame pacing, threading), execute timed runs, and
print metrics resolved from a small stacked-aggregation query language.`,
	SilenceErrors: true,
}

// Execute runs the root command. Any script or configuration error is
// fatal: the diagnostic is printed and the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shaderbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable styled output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("shaderbench")
	}

	viper.SetEnvPrefix("SHADERBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("width", 1280)
	viper.SetDefault("height", 720)
	viper.SetDefault("history.backend", "sqlite")
	viper.SetDefault("history.path", db.DefaultSQLitePath)
	viper.SetDefault("log_file", "")

	_ = viper.ReadInConfig()

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))

	if viper.GetBool("no_color") || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// newHistoryStore opens the configured history backend. A variable so
// tests can substitute a mock store.
var newHistoryStore = func() (db.Store, error) {
	return db.NewStore(db.StoreConfig{
		Type:             viper.GetString("history.backend"),
		ConnectionString: viper.GetString("history.path"),
	})
}

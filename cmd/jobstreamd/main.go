package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobstream/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobstreamd",
		Short:         "Job registry with live job event streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (.yaml, .yml, .json or .toml)")
	root.PersistentFlags().String("log-level", envOr("JOBSTREAM_LOG_LEVEL", ""), "Log level: debug|info|warn|error (defaults JOBSTREAM_LOG_LEVEL)")
	root.PersistentFlags().String("log-format", "", "Log format: json|console")
	root.PersistentFlags().String("jobs", "", "Comma-separated job names registered at startup")

	root.AddCommand(newServeCmd(), newWatchCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run:   func(cmd *cobra.Command, args []string) { fmt.Fprintln(cmd.OutOrStdout(), version) },
	})
	return root
}

// resolveConfig loads the --config file when given and fills defaults.
// Explicit flags override the file; environment defaults only fill fields
// the file leaves unset.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && (f.Changed || (f.DefValue != "" && *dst == "")) {
			*dst = f.Value.String()
		}
	}
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	str("addr", &cfg.Addr)
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		cfg.Jobs = splitCSV(f.Value.String())
	}
	if f := flags.Lookup("cors-origins"); f != nil && f.Changed {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = splitCSV(f.Value.String())
	}
	if n, err := flags.GetInt("event-buffer"); err == nil && flags.Changed("event-buffer") {
		cfg.EventBuffer = n
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Command essay-review runs the readiness pipeline locally and maintains the activity registry.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"essay-mentor/internal/common/config"
	"essay-mentor/internal/common/logger"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "essay-review",
		Short:         "Score essay readiness and manage the activity registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (defaults are used when empty)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "debug|info|warn|error")

	root.AddCommand(newClassifyCmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newRegistryCmd(opts))
	return root
}

func (o *globalOptions) load() (*config.Config, error) {
	if o.configPath == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(o.configPath)
}

func (o *globalOptions) logger() logger.Logger {
	return logger.NewStructured(o.logLevel, "console")
}

// readText returns the inline value, or the contents of path when it is set. "-" reads stdin.
func readText(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

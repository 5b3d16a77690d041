package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fio/internal/buildinfo"
)

// rootOptions holds the persistent flags that are not config overrides.
type rootOptions struct {
	configPath string
	verbose    bool
	noWait     bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "fio",
		Short:   "Download and parse bank transaction exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default is fio.yaml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.noWait, "no-wait", false, "do not wait out the API rate window")

	// Overrides picked up by config.Build when set.
	pf.String("token", "", "API token (prefer FIO_TOKEN)")
	pf.String("base-url", "", "REST API root")
	pf.Duration("timeout", 0, "HTTP timeout")
	pf.String("mode", "", "table decoding: named or positional")
	pf.String("strategy", "", "header handling: streaming or buffered")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("fetch-log", "", "path of the API call log")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newTransactionsCommand(opts))
	rootCmd.AddCommand(newCursorCommand(opts))
	rootCmd.AddCommand(newDemoCommand(opts))

	return rootCmd
}

package command

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// GlobalFlags holds the persistent flags shared by every sub-command.
type GlobalFlags struct {
	ConfigFile string
	NamesFile  string
	Format     string
	Workers    int
	Debug      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags registers the flags shared by every sub-command.
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&globalFlags.ConfigFile, "config", "", "YAML config file with default decoding options")
	flags.StringVar(&globalFlags.NamesFile, "names", "", "YAML file mapping resource and metric ids to display names")
	flags.StringVar(&globalFlags.Format, "format", FormatTable, "output format: table, json or csv")
	flags.IntVar(&globalFlags.Workers, "workers", 0, "archives decoded in parallel, 0 uses the config or the CPU count")
	flags.BoolVar(&globalFlags.Debug, "debug", false, "enable debug logging")
}

func outputFormat(cmd *cobra.Command) string {
	v, err := cmd.Flags().GetString("format")
	if err != nil {
		return FormatTable
	}

	return strings.ToLower(v)
}

// IsFormatJSON reports whether cmd was asked for JSON output.
func IsFormatJSON(cmd *cobra.Command) bool {
	return outputFormat(cmd) == FormatJSON
}

// newLogger builds the CLI logger. Only warnings reach stderr unless --debug is set.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// perfdat is a command line tool that inspects and dumps storage-array performance archives.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/perfdat/cmd/perfdat/command"
)

const (
	cliName        = "perfdat"
	cliDescription = "the command-line tool for storage-array performance archives"
)

var rootCmd = &cobra.Command{
	Use:           cliName,
	Short:         cliDescription,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnablePrefixMatching = true

	command.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		command.NewInspectCommand(),
		command.NewResourcesCommand(),
		command.NewDumpCommand(),
	)
}

func main() {
	MustStart()
}

// Start runs the root command and returns the command that ran.
func Start() (*cobra.Command, error) {
	return rootCmd.ExecuteC()
}

// MustStart runs the root command and exits non-zero on failure.
func MustStart() {
	if cmd, err := Start(); err != nil {
		command.PrintError(cmd, err)
		os.Exit(-1)
	}
}

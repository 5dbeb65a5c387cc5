// Command dcfmeta reads the metadata of R package source trees, package
// indexes, dependency graphs and build logs.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("dcfmeta failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "dcfmeta",
		Short:         "Read DCF package metadata, package indexes and build logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newParseCmd(),
		newFieldCmd(),
		newPkgInfoCmd(),
		newMaintainerCmd(),
		newOptionsCmd(),
		newTarballCmd(),
		newInjectCmd(),
		newPackagesCmd(),
		newPkgFieldCmd(),
		newSignIndexCmd(),
		newDepsCmd(),
		newInstallOKCmd(),
		newLockingPkgCmd(),
		newWarningsCmd(),
	)
	return rootCmd
}

func setupLogging(w io.Writer, level string) error {
	var lvl log.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = log.DebugLevel
	case "info":
		lvl = log.InfoLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
	log.DefaultLogger = log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:      w,
			ColorOutput: false,
		},
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printLines writes one value per line.
func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// Package commands holds the cobra CLI of the abfall-feed service.
package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "abfall-feed",
		Short: "SBAZV waste collection calendar feed for the community portal",
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newHashPasswordCmd())

	return root
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the shared logger at the configured level.
func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Package main implements the command-line interface for contactcrawl.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/northfield/contactcrawl/internal/config"
	"github.com/northfield/contactcrawl/internal/obslog"
)

var rootCmd = &cobra.Command{
	Use:   "contactcrawl",
	Short: "A polite, compliance-aware contact-enrichment crawler",
	Long:  `contactcrawl visits a bounded set of pages per company website and emits validated contact records.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(newCrawlCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("contactcrawl version 1.0.0")
		},
	})
}

func execute() error {
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(context.Background())
}

func loadConfigOrExit() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg config.Config) obslog.Logger {
	return obslog.Must(obslog.Config{Level: cfg.LogLevel})
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for QueryCollect. Serves the quiz web application,
generates rounds offline and inspects recorded guesses.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/detective-solutions/QueryCollect/cmd/querycollect/commands"
	"github.com/detective-solutions/QueryCollect/pkg/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "querycollect",
		Short: "QueryCollect - collect natural-language descriptions of table transformations",
		Long: `QueryCollect shows a randomly generated input table next to the output of one of
twelve table operations and records the user's free-text guess of the transformation.
The recorded guesses form a dataset of query descriptions.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file path")
	flags.String("env-file", "", "Environment file to load (defaults to .env when present)")
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flags.String("log-format", "custom", "Log format (text, json, custom)")
	flags.String("log-dir", "", "Log output directory (empty disables log files)")
	flags.Int("log-max-files", 10, "Maximum number of log files to keep")
	flags.String("corpus", "", "Name corpus file or URL (empty uses the embedded list)")
	flags.String("corpus-format", "", "Name corpus format (csv, txt)")
	flags.Int("rows", 5, "Rows per generated table")
	flags.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	flags.String("database", "", "Guess database path or URI")

	// Bind flags to viper
	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("env_file", flags.Lookup("env-file"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("log.dir", flags.Lookup("log-dir"))
	viper.BindPFlag("log.max_files", flags.Lookup("log-max-files"))
	viper.BindPFlag("corpus.source", flags.Lookup("corpus"))
	viper.BindPFlag("corpus.format", flags.Lookup("corpus-format"))
	viper.BindPFlag("generator.rows", flags.Lookup("rows"))
	viper.BindPFlag("generator.seed", flags.Lookup("seed"))
	viper.BindPFlag("database.path", flags.Lookup("database"))

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quiz web server",
		RunE:  commands.PerformServe,
	}
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("addr"))

	// Generate command
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate quiz rounds without the web server",
		Long: `Generate one or more rounds and print them, or write them to --output.
Arrow and Parquet hold a single table per file, so both formats write
<output>.input.<ext> and <output>.output.<ext>.`,
		RunE: commands.PerformGeneration,
	}
	generateCmd.Flags().String("operation", "", "Operation id or name (random when empty)")
	generateCmd.Flags().String("format", string(export.FormatTable), "Output format (table, json, csv, arrow, parquet)")
	generateCmd.Flags().String("output", "", "Output file, or base path for arrow and parquet")
	generateCmd.Flags().Int("count", 1, "Number of rounds")
	viper.BindPFlag("generate.operation", generateCmd.Flags().Lookup("operation"))
	viper.BindPFlag("generate.format", generateCmd.Flags().Lookup("format"))
	viper.BindPFlag("generate.output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("generate.count", generateCmd.Flags().Lookup("count"))

	// List operations command
	listCmd := &cobra.Command{
		Use:   "list-operations",
		Short: "List available operations",
		Run:   commands.ListOperations,
	}

	// Guesses command
	guessesCmd := &cobra.Command{
		Use:   "guesses",
		Short: "Show recently recorded guesses",
		RunE:  commands.ListGuesses,
	}
	guessesCmd.Flags().Int("limit", 20, "Maximum number of guesses to show")
	viper.BindPFlag("guesses.limit", guessesCmd.Flags().Lookup("limit"))

	// Self-check command
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate corpus, database, logs and every operation",
		RunE:  commands.PerformSelfCheck,
	}
	checkCmd.Flags().Int("rounds", 50, "Rounds generated per operation")
	checkCmd.Flags().String("report-dir", "", "Directory for a JSON report of the check")
	viper.BindPFlag("check.rounds", checkCmd.Flags().Lookup("rounds"))
	viper.BindPFlag("check.report_dir", checkCmd.Flags().Lookup("report-dir"))

	// Add commands to root
	rootCmd.AddCommand(serveCmd, generateCmd, listCmd, guessesCmd, checkCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

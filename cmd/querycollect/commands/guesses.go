/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: guesses.go
Description: Guesses command. Prints the most recent recorded guesses.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/detective-solutions/QueryCollect/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ListGuesses prints recent guesses, newest first
func ListGuesses(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	guesses, err := store.Open(cmd.Context(), cfg.Database.Path, nil)
	if err != nil {
		return fmt.Errorf("failed to open guess store: %w", err)
	}
	defer guesses.Close()

	total, err := guesses.Count(cmd.Context())
	if err != nil {
		return err
	}
	list, err := guesses.List(cmd.Context(), viper.GetInt("guesses.limit"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📝 QueryCollect - Recorded Guesses (%d of %d)\n", len(list), total)
	fmt.Fprintln(out, strings.Repeat("=", 40))
	for _, g := range list {
		fmt.Fprintf(out, "%s  %-20s  %s\n", g.CreatedAt.Format("2006-01-02 15:04:05"), operationLabel(g.QueryType), g.FreeTextQuery)
	}
	return nil
}

func operationLabel(queryType int) string {
	if op := operations.Operation(queryType); op.Valid() {
		return op.String()
	}
	return fmt.Sprintf("unknown(%d)", queryType)
}

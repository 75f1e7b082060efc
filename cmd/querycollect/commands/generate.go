/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generate.go
Description: Generate command. Produces quiz rounds outside the web server and writes
them as text, JSON, CSV, Arrow IPC or Parquet.
*/

package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/export"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformGeneration generates one or more rounds and writes them out
func PerformGeneration(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(viper.GetString("generate.format"))
	if err != nil {
		return err
	}
	count := viper.GetInt("generate.count")
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	output := viper.GetString("generate.output")
	if format.Columnar() && output == "" {
		return fmt.Errorf("--output is required for %s output", format)
	}

	var op *operations.Operation
	if raw := viper.GetString("generate.operation"); raw != "" {
		resolved, err := resolveOperation(raw)
		if err != nil {
			return err
		}
		op = &resolved
	}

	app, err := NewApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	rng := app.Config.Generator.NewRand()
	results := make([]*operations.Result, 0, count)
	for i := 0; i < count; i++ {
		start := time.Now()
		var res *operations.Result
		if op != nil {
			res, err = app.Registry.Run(rng, *op)
		} else {
			res, err = app.Registry.Random(rng)
		}
		if err != nil {
			return fmt.Errorf("failed to generate round %d: %w", i+1, err)
		}
		app.Logger.LogGeneration(res.Name, res.InputTable.RowCount(), res.OutputTable.RowCount(), time.Since(start), nil)
		results = append(results, res)
	}

	if format.Columnar() {
		for i, res := range results {
			base := output
			if count > 1 {
				base = fmt.Sprintf("%s.%d", output, i+1)
			}
			if err := writeColumnar(base, res, format); err != nil {
				return err
			}
		}
		return nil
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}
	for i, res := range results {
		if i > 0 && format != export.FormatJSON {
			fmt.Fprintln(w)
		}
		if err := export.Render(w, res, format); err != nil {
			return fmt.Errorf("failed to render round %d: %w", i+1, err)
		}
	}
	return nil
}

// writeColumnar writes <base>.input.<ext> and <base>.output.<ext>
func writeColumnar(base string, res *operations.Result, format export.Format) error {
	tables := []struct {
		part  string
		table *dataset.Table
	}{
		{"input", res.InputTable},
		{"output", res.OutputTable},
	}
	for _, t := range tables {
		path := base + "." + t.part + format.Extension()
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := export.WriteTable(file, t.table, format); err != nil {
			file.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

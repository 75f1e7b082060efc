/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for QueryCollect. Provides list-operations and the
self-check that validates the corpus, the guess database, the log directory and
every operation generator.
*/

package commands

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/detective-solutions/QueryCollect/pkg/monitoring"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/detective-solutions/QueryCollect/pkg/store"
	"github.com/detective-solutions/QueryCollect/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ListOperations lists all operations a round can be drawn from
func ListOperations(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🧮 QueryCollect - Available Operations")
	fmt.Fprintln(out, "======================================")
	fmt.Fprintln(out)

	for _, op := range operations.All() {
		fmt.Fprintf(out, "%2d. %s\n", int(op), op)
		fmt.Fprintf(out, "    %s\n", op.Description())
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✨ Use generate --operation <id|name> to produce a round")
}

type selfCheck struct {
	name string
	run  func(ctx context.Context) error
}

type checkResult struct {
	index   int
	name    string
	err     error
	elapsed time.Duration
}

// CheckEntry is one check in a saved report
type CheckEntry struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// CheckReport is the saved outcome of a self-check
type CheckReport struct {
	Timestamp time.Time                 `json:"timestamp"`
	Passed    int                       `json:"passed"`
	Total     int                       `json:"total"`
	Checks    []CheckEntry              `json:"checks"`
	Metrics   *monitoring.GlobalMetrics `json:"metrics"`
}

// PerformSelfCheck validates the installation
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 QueryCollect - System Self-Check")
	fmt.Fprintln(out, "===================================")
	fmt.Fprintln(out)

	app, err := NewApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	checks := []selfCheck{
		{"Name Corpus", func(context.Context) error { return checkCorpus(app) }},
		{"Guess Database", func(ctx context.Context) error { return checkDatabase(ctx, app) }},
		{"Log Directory", func(context.Context) error { return checkLogs(app) }},
	}
	rounds := viper.GetInt("check.rounds")
	metrics := monitoring.NewMetricsCollector()
	for _, op := range operations.All() {
		op := op
		checks = append(checks, selfCheck{
			name: "Operation " + op.String(),
			run:  func(context.Context) error { return checkOperation(app.Registry, metrics, op, rounds) },
		})
	}

	p := pool.NewWithResults[checkResult]().WithMaxGoroutines(runtime.NumCPU())
	for i, check := range checks {
		i, check := i, check
		p.Go(func() checkResult {
			start := time.Now()
			err := check.run(cmd.Context())
			return checkResult{index: i, name: check.name, err: err, elapsed: time.Since(start)}
		})
	}
	results := p.Wait()
	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })

	report := CheckReport{Timestamp: time.Now(), Total: len(results)}
	for _, r := range results {
		entry := CheckEntry{Name: r.name, Passed: r.err == nil, Duration: r.elapsed}
		if r.err != nil {
			entry.Error = r.err.Error()
			fmt.Fprintf(out, "🔍 %s... ❌ FAILED: %v\n", r.name, r.err)
		} else {
			fmt.Fprintf(out, "🔍 %s... ✅ PASSED (%s)\n", r.name, r.elapsed.Round(time.Millisecond))
			report.Passed++
		}
		report.Checks = append(report.Checks, entry)
	}
	report.Metrics = metrics.GetGlobalMetrics()
	passed := report.Passed

	fmt.Fprintln(out)
	fmt.Fprintf(out, "📊 Results: %d/%d checks passed\n", passed, len(results))
	if dir := viper.GetString("check.report_dir"); dir != "" {
		path, err := utils.WriteMetricsResult(dir, "check", cmd.Root().Version, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "📁 Report saved to: %s\n", path)
	}
	if passed != len(results) {
		return fmt.Errorf("%d/%d checks failed", len(results)-passed, len(results))
	}
	fmt.Fprintln(out, "✨ All checks passed! Ready to collect queries.")
	return nil
}

func checkCorpus(app *App) error {
	if app.Corpus.Len() == 0 {
		return fmt.Errorf("corpus %s is empty", app.Corpus.Source())
	}
	return nil
}

func checkDatabase(ctx context.Context, app *App) error {
	guesses, err := store.Open(ctx, app.Config.Database.Path, nil)
	if err != nil {
		return err
	}
	defer guesses.Close()
	if err := guesses.Ping(ctx); err != nil {
		return err
	}
	_, err = guesses.Count(ctx)
	return err
}

func checkLogs(app *App) error {
	if app.Config.Log.Dir == "" {
		return nil
	}
	manager := logging.NewLogManager(app.Config.Log.Dir, app.Config.Log.MaxFiles)
	analysis, err := manager.AnalyzeLogs()
	if err != nil {
		return err
	}
	app.Logger.GetLogger().WithField("summary", analysis.Summary()).Debug("Log analysis")
	return nil
}

// checkOperation generates rounds of op and verifies their shape
func checkOperation(registry *operations.Registry, metrics *monitoring.MetricsCollector, op operations.Operation, rounds int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	rng := rand.New(rand.NewSource(int64(op) + 1))
	for i := 0; i < rounds; i++ {
		start := time.Now()
		res, err := registry.Run(rng, op)
		if err != nil {
			return err
		}
		metrics.RecordGeneration(res.Name, time.Since(start))
		if res.Operation != op {
			return fmt.Errorf("round %d produced %s", i, res.Operation)
		}
		if res.InputTable.Width() == 0 || res.OutputTable.Width() == 0 {
			return fmt.Errorf("round %d produced an empty table", i)
		}
		if len(res.Output) != res.OutputTable.RowCount() {
			return fmt.Errorf("round %d records do not match the output table", i)
		}
	}
	return nil
}

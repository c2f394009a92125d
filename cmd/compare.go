package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"db-compare/internal/compare"
	"db-compare/internal/diff"
	"db-compare/internal/engine"
	"db-compare/internal/mapping"
	"db-compare/internal/metrics"
	"db-compare/internal/report"
)

var (
	dryRun        bool
	tables        []string
	excludeTables []string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare tables between the source and target databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		applySelectionFlags(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ds, err := openDataSources(ctx)
		if err != nil {
			return err
		}
		defer ds.Close()

		pairings, err := resolvePairings(ctx, ds)
		if err != nil {
			return err
		}

		if dryRun {
			Log.Info("[SIMULATION] Dry-Run Mode Active: no rows will be read")
			printPairings(cmd.OutOrStdout(), pairings)
			return nil
		}

		sink, err := diff.OpenSink(ctx, Cfg.Output.Diff)
		if err != nil {
			return err
		}
		var out io.Writer
		if sink != nil {
			out = sink
			Log.Info("Writing reconciliation script", zap.String("location", sink.Location()))
		}
		emitter := diff.NewEmitter(out, ds.target)

		var m *metrics.Metrics
		if Cfg.Metrics.Enabled {
			m = metrics.New("")
			go func() {
				if err := m.StartServer(Cfg.Metrics.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
					Log.Warn("Metrics server stopped", zap.Error(err))
				}
			}()
		}

		comparator := compare.New(ds.source.Name(), ds.target.Name(),
			compare.WithNumericTolerance(Cfg.Compare.NumericTolerance),
			compare.WithTrimText(Cfg.Compare.TrimText))

		uiprogress.Start()
		bar := uiprogress.AddBar(len(pairings)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("Comparing (%d/%d): ", b.Current(), len(pairings))
		})

		eng := engine.New(ds.source, ds.target,
			engine.WithComparator(comparator),
			engine.WithDiff(emitter),
			engine.WithWorkers(Cfg.Compare.Workers),
			engine.WithLogger(Log),
			engine.WithMetrics(m),
			engine.WithProgress(Cfg.Compare.ProgressInterval, nil),
			engine.WithTableDone(func(*report.TableReport) { bar.Incr() }),
		)
		rr, runErr := eng.Run(ctx, pairings)

		uiprogress.Stop()

		if err := sink.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("close diff output: %w", err)
		}

		if emitter.Enabled() {
			Log.Info("Reconciliation script written",
				zap.String("location", sink.Location()), zap.Int64("statements", emitter.Statements()))
		}
		return renderReport(cmd.OutOrStdout(), rr, Cfg.Output.ReportFormat, runErr)
	},
}

// renderReport prints the summary. The comparison error, if any, stays first in
// the returned error so a rendering problem cannot hide it.
func renderReport(w io.Writer, rr *report.RunReport, format string, runErr error) error {
	fmt.Fprintln(w, "\n📊 Summary Report:")
	if err := rr.Render(w, format); err != nil {
		err = fmt.Errorf("render report: %w", err)
		if runErr != nil {
			return errors.Join(runErr, err)
		}
		return err
	}
	return runErr
}

func printPairings(w io.Writer, pairings []*mapping.Pairing) {
	fmt.Fprintf(w, "🔍 Resolved Pairings:\n")
	for i, p := range pairings {
		keys, _ := p.KeyPairs()
		fmt.Fprintf(w, "[%02d] %s (columns: %d, key: %d)\n", i+1, p, len(p.Columns), len(keys))
	}
}

func init() {
	RootCmd.AddCommand(compareCmd)

	// CLI Flags
	compareCmd.Flags().String("source", "", "Source database name from config (overrides compare.source)")
	compareCmd.Flags().String("target", "", "Target database name from config (overrides compare.target)")
	compareCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Tables to compare (comma-separated)")
	compareCmd.Flags().StringSliceVar(&excludeTables, "exclude", []string{}, "Tables to skip (comma-separated)")
	compareCmd.Flags().String("diff", "", "Write the reconciliation script to a path or blob URL (.zst compresses)")
	compareCmd.Flags().Int("workers", 0, "Tables compared in parallel (overrides compare.workers)")
	compareCmd.Flags().String("format", "", "Report format: table, json or yaml")
	compareCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve table pairings without reading rows")

	viper.BindPFlag("output.diff", compareCmd.Flags().Lookup("diff"))
	viper.BindPFlag("compare.workers", compareCmd.Flags().Lookup("workers"))
	viper.BindPFlag("output.report_format", compareCmd.Flags().Lookup("format"))
}

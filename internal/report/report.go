// Package report writes the run's result tables in the tabular interchange
// format consumed by the reporting collaborator. Column names and units
// (returns as fractions) are fixed; renaming a column breaks downstream
// consumers.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/domain"
)

// Writer renders run outcomes into CSV tables under a target directory.
type Writer struct {
	outputDir string
	logger    *zap.Logger
}

// NewWriter creates a new Writer.
func NewWriter(outputDir string, logger *zap.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger}
}

// WriteAll renders every table the run produced. Portfolio may be nil when
// the run mode did not aggregate.
func (w *Writer) WriteAll(outcomes []*domain.PairOutcome, portfolio *domain.PortfolioMetrics) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", w.outputDir, err)
	}

	if err := w.writeCointegration(outcomes); err != nil {
		return err
	}
	if err := w.writeReports(outcomes); err != nil {
		return err
	}
	if portfolio != nil {
		if err := w.writePortfolio(portfolio); err != nil {
			return err
		}
	}
	return nil
}

// writeCointegration writes one row per tested pair, skipped pairs excluded.
func (w *Writer) writeCointegration(outcomes []*domain.PairOutcome) error {
	header := []string{
		"pair", "hedge_ratio", "pvalue", "adf_statistic", "spread_std",
		"half_life_hours", "correlation", "is_cointegrated", "data_points",
	}

	var rows [][]string
	for _, o := range outcomes {
		if o.Coint == nil {
			continue
		}
		c := o.Coint
		rows = append(rows, []string{
			c.Pair,
			formatFloat(c.HedgeRatio),
			formatFloat(c.PValue),
			formatFloat(c.ADFStatistic),
			formatFloat(c.SpreadStd),
			formatFloat(c.HalfLife),
			formatFloat(c.Correlation),
			strconv.FormatBool(c.IsCointegrated),
			strconv.Itoa(c.DataPoints),
		})
	}

	return w.writeTable("cointegration_results.csv", header, rows)
}

// writeReports writes the per-pair summary ranked by Sharpe ratio descending.
func (w *Writer) writeReports(outcomes []*domain.PairOutcome) error {
	header := []string{
		"pair", "hedge_ratio", "pvalue", "is_cointegrated",
		"sharpe_ratio", "total_return", "max_drawdown", "win_rate", "num_trades",
		"optimized_z_entry", "optimized_z_exit",
	}

	reports := Ranked(outcomes)
	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		rows = append(rows, []string{
			rep.Pair,
			formatFloat(rep.HedgeRatio),
			formatFloat(rep.PValue),
			strconv.FormatBool(rep.IsCointegrated),
			formatFloat(rep.SharpeRatio),
			formatFloat(rep.TotalReturn),
			formatFloat(rep.MaxDrawdown),
			formatFloat(rep.WinRate),
			strconv.Itoa(rep.NumTrades),
			formatFloat(rep.OptimizedZEntry),
			formatFloat(rep.OptimizedZExit),
		})
	}

	return w.writeTable("pair_reports.csv", header, rows)
}

// writePortfolio writes the single-row portfolio summary.
func (w *Writer) writePortfolio(p *domain.PortfolioMetrics) error {
	header := []string{
		"num_pairs", "total_return", "sharpe_ratio", "max_drawdown",
		"win_rate", "volatility", "num_trades",
	}
	rows := [][]string{{
		strconv.Itoa(p.NumPairs),
		formatFloat(p.Metrics.TotalReturn),
		formatFloat(p.Metrics.SharpeRatio),
		formatFloat(p.Metrics.MaxDrawdown),
		formatFloat(p.Metrics.WinRate),
		formatFloat(p.Metrics.Volatility),
		strconv.Itoa(p.Metrics.NumTrades),
	}}

	return w.writeTable("portfolio_summary.csv", header, rows)
}

func (w *Writer) writeTable(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	w.logger.Info("Wrote result table",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// Ranked flattens outcomes into interchange rows ordered by Sharpe ratio
// descending, pair name ascending on ties. Skipped pairs are excluded.
func Ranked(outcomes []*domain.PairOutcome) []*domain.PairReport {
	var reports []*domain.PairReport
	for _, o := range outcomes {
		if rep := o.Report(); rep != nil {
			reports = append(reports, rep)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].SharpeRatio != reports[j].SharpeRatio {
			return reports[i].SharpeRatio > reports[j].SharpeRatio
		}
		return reports[i].Pair < reports[j].Pair
	})
	return reports
}

// LogSummary emits a per-run digest: counts, skip reasons, and the top pair.
func LogSummary(logger *zap.Logger, run *domain.ScanRun, outcomes []*domain.PairOutcome) {
	skips := make(map[string]int)
	for _, o := range outcomes {
		if o.Skipped() {
			skips[o.Skip.Error()]++
		}
	}

	fields := []zap.Field{
		zap.String("run_id", run.ID.String()),
		zap.String("mode", run.Mode.String()),
		zap.Int("pairs_total", run.PairsTotal),
		zap.Int("pairs_ok", run.PairsOK),
		zap.Int("pairs_skipped", run.PairsSkip),
	}
	if ranked := Ranked(outcomes); len(ranked) > 0 {
		best := ranked[0]
		fields = append(fields,
			zap.String("best_pair", best.Pair),
			zap.Float64("best_sharpe", best.SharpeRatio),
		)
	}
	logger.Info("Scan run complete", fields...)

	for reason, count := range skips {
		logger.Debug("Skip reason",
			zap.String("reason", reason),
			zap.Int("pairs", count),
		)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Package dataset is the thin glue between prepared CSV price files and the
// core: it loads per-symbol close series and builds aligned pair
// combinations. Gap handling and cleaning happen upstream; the core assumes
// the series it receives are gap-free.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/config"
	"github.com/saltfish/pairscan/internal/domain"
)

// Loader reads prepared price series from a directory of CSV files, one file
// per symbol with a timestamp and a close column.
type Loader struct {
	cfg    *config.DataConfig
	logger *zap.Logger
}

// NewLoader creates a new Loader.
func NewLoader(cfg *config.DataConfig, logger *zap.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger}
}

// LoadSeries loads the configured symbol universe. A malformed file is
// logged and skipped; it never aborts loading of the remaining symbols.
func (l *Loader) LoadSeries() (map[string]domain.Series, error) {
	symbols, err := l.symbols()
	if err != nil {
		return nil, err
	}

	series := make(map[string]domain.Series, len(symbols))
	for _, symbol := range symbols {
		path := filepath.Join(l.cfg.Dir, symbol+".csv")
		s, err := l.loadFile(path)
		if err != nil {
			l.logger.Warn("Skipping unreadable price file",
				zap.String("symbol", symbol),
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		series[symbol] = s
		l.logger.Debug("Loaded price series",
			zap.String("symbol", symbol),
			zap.Int("observations", s.Len()),
		)
	}

	if len(series) < 2 {
		return nil, fmt.Errorf("loaded %d usable series from %s, need at least 2", len(series), l.cfg.Dir)
	}
	return series, nil
}

// symbols returns the configured universe, or every CSV in the data dir when
// none is configured.
func (l *Loader) symbols() ([]string, error) {
	if len(l.cfg.Symbols) > 0 {
		return l.cfg.Symbols, nil
	}

	entries, err := os.ReadDir(l.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir %s: %w", l.cfg.Dir, err)
	}
	var symbols []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// loadFile parses one CSV price file. The header must contain "timestamp"
// and "close" columns; timestamps parse with the configured layout, falling
// back to unix seconds.
func (l *Loader) loadFile(path string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Series{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return domain.Series{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return domain.Series{}, fmt.Errorf("no data rows")
	}

	tsCol, closeCol := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp":
			tsCol = i
		case "close":
			closeCol = i
		}
	}
	if tsCol < 0 || closeCol < 0 {
		return domain.Series{}, fmt.Errorf("header must contain timestamp and close columns")
	}

	times := make([]time.Time, 0, len(records)-1)
	values := make([]float64, 0, len(records)-1)
	for i, row := range records[1:] {
		ts, err := l.parseTimestamp(row[tsCol])
		if err != nil {
			return domain.Series{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[closeCol]), 64)
		if err != nil {
			return domain.Series{}, fmt.Errorf("row %d: bad close %q", i+2, row[closeCol])
		}
		times = append(times, ts)
		values = append(values, price)
	}
	return domain.NewSeries(times, values), nil
}

func (l *Loader) parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(l.cfg.TimestampLayout, raw); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", raw)
}

// BuildPairs forms every unordered symbol combination, inner-joined on
// timestamp. Symbols are sorted first so pair order (and therefore run
// output) is deterministic.
func BuildPairs(series map[string]domain.Series) []*domain.Pair {
	symbols := make([]string, 0, len(series))
	for symbol := range series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var pairs []*domain.Pair
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			s1, s2 := series[symbols[i]], series[symbols[j]]
			times, v1, v2 := domain.AlignInner(s1, s2)
			pair, err := domain.NewPair(symbols[i], symbols[j], times, v1, v2)
			if err != nil {
				continue
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

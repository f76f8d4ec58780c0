package table

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ppiankov/matchup/internal/cache"
	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/metrics"
	"github.com/ppiankov/matchup/internal/names"
	"golang.org/x/time/rate"
)

// Sentinel errors. Both indicate a registry/schema mismatch rather than a
// data gap, and callers are expected to surface them.
var (
	ErrMissingColumn  = errors.New("declared column not found")
	ErrUnknownDataset = errors.New("dataset not registered")
)

// ctxCheckEvery bounds how many rows are scanned between context checks.
const ctxCheckEvery = 512

// missMarker is memoized for lookups that matched nothing.
const missMarker = -1

// Repository is an immutable set of loaded tables plus the registry that
// says how to resolve names in each. It is safe for concurrent use.
type Repository struct {
	tables   map[string]*Table
	datasets Registry
	memo     cache.Cache
	metrics  *metrics.Metrics
	log      logging.Logger

	// missLog throttles the informational "no match" messages.
	missLog *rate.Sometimes
}

// Option configures a Repository.
type Option func(*Repository)

// WithCache memoizes predicate-free lookups in c.
func WithCache(c cache.Cache) Option {
	return func(r *Repository) { r.memo = c }
}

// WithMetrics records lookup outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) { r.metrics = m }
}

// WithLogger sets the logger for lookup diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRepository wraps already-loaded tables. The map is copied; the tables
// themselves must not be modified afterwards.
func NewRepository(tables map[string]*Table, datasets Registry, opts ...Option) *Repository {
	copied := make(map[string]*Table, len(tables))
	for k, t := range tables {
		copied[k] = t
	}
	if datasets == nil {
		datasets = DefaultRegistry()
	}
	r := &Repository{
		tables:   copied,
		datasets: datasets,
		log:      logging.Nop(),
		missLog:  &rate.Sometimes{First: 10, Interval: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the loaded table for dataset.
func (r *Repository) Table(dataset string) (*Table, bool) {
	t, ok := r.tables[dataset]
	return t, ok
}

// Dataset returns the registry entry for key.
func (r *Repository) Dataset(key string) (Dataset, bool) {
	d, ok := r.datasets[key]
	return d, ok
}

// Loaded returns the keys of all loaded datasets, sorted.
func (r *Repository) Loaded() []string {
	reg := make(Registry, len(r.tables))
	for k := range r.tables {
		reg[k] = Dataset{}
	}
	return reg.Keys()
}

type lookupOptions struct {
	year  int
	where func(Row) bool
}

// LookupOption refines a lookup.
type LookupOption func(*lookupOptions)

// WithYear skips rows whose year column disagrees with year. Rows without a
// year column are not filtered.
func WithYear(year int) LookupOption {
	return func(o *lookupOptions) { o.year = year }
}

// Where adds a secondary predicate a row must satisfy besides the name,
// e.g. pitch type or team agreement. Predicated lookups are not memoized.
func Where(pred func(Row) bool) LookupOption {
	return func(o *lookupOptions) { o.where = pred }
}

// Lookup returns the first row of dataset whose name column resolves to
// player. A dataset that was not loaded yields (nil, false, nil). A loaded
// dataset lacking its declared name column yields ErrMissingColumn.
func (r *Repository) Lookup(ctx context.Context, dataset, player string, opts ...LookupOption) (Row, bool, error) {
	ds, ok := r.datasets[dataset]
	if !ok {
		r.metrics.RecordLookup(dataset, metrics.ResultInvalid)
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
	}

	t, ok := r.tables[dataset]
	if !ok {
		r.metrics.RecordLookup(dataset, metrics.ResultAbsent)
		return nil, false, nil
	}

	var o lookupOptions
	for _, opt := range opts {
		opt(&o)
	}

	var key string
	if r.memo != nil && o.where == nil {
		key = cache.LookupKey(dataset, names.Normalize(player), o.year)
		if v, hit := r.memo.Get(key); hit {
			r.metrics.RecordCacheHit(dataset)
			idx := v.(int)
			if idx == missMarker {
				return nil, false, nil
			}
			return t.Rows[idx], true, nil
		}
	}

	idx, err := scan(ctx, t, ds.NameColumn, ds.YearColumn, player, o)
	if err != nil {
		if errors.Is(err, ErrMissingColumn) {
			r.metrics.RecordLookup(dataset, metrics.ResultInvalid)
			return nil, false, fmt.Errorf("dataset %s: %w", dataset, err)
		}
		// Cancelled scans are never memoized.
		return nil, false, err
	}

	if key != "" {
		r.memo.Set(key, idx, 0)
	}

	if idx == missMarker {
		r.metrics.RecordLookup(dataset, metrics.ResultMiss)
		r.missLog.Do(func() {
			r.log.Info(ctx, "no matching row",
				logging.String("dataset", dataset),
				logging.String("player", player),
				logging.Int("year", o.year),
			)
		})
		return nil, false, nil
	}

	r.metrics.RecordLookup(dataset, metrics.ResultHit)
	return t.Rows[idx], true, nil
}

// LookupTable is the column-driven lookup over a single table: the first
// row whose nameColumn normalizes into the variants of player wins.
func LookupTable(ctx context.Context, t *Table, nameColumn, player string, opts ...LookupOption) (Row, bool, error) {
	var o lookupOptions
	for _, opt := range opts {
		opt(&o)
	}
	idx, err := scan(ctx, t, nameColumn, "year", player, o)
	if err != nil || idx == missMarker {
		return nil, false, err
	}
	return t.Rows[idx], true, nil
}

func scan(ctx context.Context, t *Table, nameColumn, yearColumn, player string, o lookupOptions) (int, error) {
	if !t.HasColumn(nameColumn) {
		return missMarker, fmt.Errorf("%w: %q", ErrMissingColumn, nameColumn)
	}

	variants := names.Variants(player)
	filterYear := o.year != 0 && yearColumn != "" && t.HasColumn(yearColumn)
	want := strconv.Itoa(o.year)

	for i, row := range t.Rows {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return missMarker, err
			}
		}
		if _, ok := variants[names.Normalize(row[nameColumn])]; !ok {
			continue
		}
		if filterYear && !sameYear(row.Get(yearColumn), o.year, want) {
			continue
		}
		if o.where != nil && !o.where(row) {
			continue
		}
		return i, nil
	}
	return missMarker, nil
}

// sameYear compares a cell against year, accepting "2025" and "2025.0".
func sameYear(cell string, year int, want string) bool {
	if cell == want {
		return true
	}
	if v, ok := ParseFloat(cell); ok {
		return int(v) == year && v == float64(int(v))
	}
	return false
}

// LookupTeam returns the first row of a team-keyed dataset whose team
// column equals any of codes (abbreviation or display name).
func (r *Repository) LookupTeam(ctx context.Context, dataset string, codes ...string) (Row, bool, error) {
	ds, ok := r.datasets[dataset]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
	}
	t, ok := r.tables[dataset]
	if !ok {
		r.metrics.RecordLookup(dataset, metrics.ResultAbsent)
		return nil, false, nil
	}

	candidates := ds.TeamColumns
	if len(candidates) == 0 {
		candidates = DefaultTeamColumns
	}
	col, ok := t.FirstColumn(candidates...)
	if !ok {
		r.metrics.RecordLookup(dataset, metrics.ResultInvalid)
		return nil, false, fmt.Errorf("dataset %s: %w: none of %v", dataset, ErrMissingColumn, candidates)
	}

	for i, row := range t.Rows {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
		}
		v := row.Get(col)
		for _, code := range codes {
			if code != "" && v == code {
				r.metrics.RecordLookup(dataset, metrics.ResultHit)
				return row, true, nil
			}
		}
	}
	r.metrics.RecordLookup(dataset, metrics.ResultMiss)
	return nil, false, nil
}

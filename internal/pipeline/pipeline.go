// Package pipeline drives an upload through detection, parsing, mapping,
// validation and line-item classification.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tbingest/internal/classify"
	"github.com/cleared-dev/tbingest/internal/ledger"
	"github.com/cleared-dev/tbingest/internal/logger"
	"github.com/cleared-dev/tbingest/internal/mapping"
	"github.com/cleared-dev/tbingest/internal/model"
	"github.com/cleared-dev/tbingest/internal/sniff"
	"github.com/cleared-dev/tbingest/internal/table"
)

// Options configures a Pipeline.
type Options struct {
	Tolerance decimal.Decimal
	Coercion  mapping.CoercionPolicy
	Skip      mapping.RowSkipPolicy
	Types     classify.TypeClassifier
	LineItems classify.LineItemTable
	Logger    *zerolog.Logger // nil discards
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Tolerance: ledger.DefaultTolerance,
		Coercion:  mapping.CoerceLenient,
		Skip:      mapping.DefaultRowSkipPolicy(),
		Types:     classify.DefaultTypeClassifier,
		LineItems: classify.DefaultLineItems,
	}
}

// Result is everything learned from one upload.
type Result struct {
	Kind       sniff.Kind
	Entries    []model.Entry
	Validation model.ValidationResult
	Skipped    []mapping.Skipped
	Coerced    []mapping.Coercion
	Issues     []ledger.Issue
}

// Pipeline holds immutable configuration and is safe for concurrent use.
type Pipeline struct {
	opts   Options
	mapper *mapping.Mapper
	log    zerolog.Logger
}

// New returns a Pipeline. Zero-valued rule tables fall back to the defaults.
func New(opts Options) *Pipeline {
	if len(opts.Types.Rules) == 0 && opts.Types.Default == "" {
		opts.Types = classify.DefaultTypeClassifier
	}
	if opts.LineItems == nil {
		opts.LineItems = classify.DefaultLineItems
	}

	log := logger.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Pipeline{
		opts: opts,
		mapper: &mapping.Mapper{
			Aliases:    mapping.DefaultAliases,
			Coercion:   opts.Coercion,
			Skip:       opts.Skip,
			Classifier: opts.Types,
		},
		log: log,
	}
}

// Options returns the configuration the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run ingests a single upload. Unrecognized input fails with an error
// matching sniff.ErrUnsupportedFormat; an unbalanced trial balance does not
// fail.
func (p *Pipeline) Run(u model.Upload) (*Result, error) {
	name := u.Name
	if name == "" {
		name = "upload"
	}
	log := p.log.With().Str("upload", name).Logger()

	payload, err := sniff.Detect(u)
	if err != nil {
		log.Debug().Err(err).Msg("format not recognized")
		return nil, fmt.Errorf("ingesting %s: %w", name, err)
	}
	log.Debug().Stringer("kind", payload.Kind).Msg("format detected")

	tbl, err := parse(payload)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", name, err)
	}

	mapped, err := p.mapper.Map(tbl)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", name, err)
	}
	for _, s := range mapped.Skipped {
		log.Debug().Int("row", s.Row).Str("name", s.Name).Str("reason", string(s.Reason)).Msg("row skipped")
	}
	for _, c := range mapped.Coerced {
		log.Debug().Int("row", c.Row).Str("column", c.Column).Str("raw", c.Raw).Msg("amount read as zero")
	}

	validation := ledger.Validate(mapped.Entries, p.opts.Tolerance)
	entries := p.opts.LineItems.AssignBuckets(mapped.Entries)

	res := &Result{
		Kind:       payload.Kind,
		Entries:    entries,
		Validation: validation,
		Skipped:    mapped.Skipped,
		Coerced:    mapped.Coerced,
		Issues:     ledger.Check(entries),
	}

	level := zerolog.InfoLevel
	if !validation.Balanced {
		level = zerolog.WarnLevel
	}
	log.WithLevel(level).Int("entries", len(entries)).
		Int("skipped", len(res.Skipped)).
		Str("debits", validation.TotalDebits.StringFixed(2)).
		Str("credits", validation.TotalCredits.StringFixed(2)).
		Str("discrepancy", validation.Discrepancy.StringFixed(2)).
		Bool("balanced", validation.Balanced).
		Msg("trial balance ingested")

	return res, nil
}

func parse(payload sniff.Payload) (*table.Table, error) {
	switch payload.Kind {
	case sniff.KindDelimited:
		return table.FromDelimited(payload.Text, payload.Delimiter)
	case sniff.KindMarkup:
		return table.FromMarkup(payload.Text)
	case sniff.KindWorkbook:
		return table.FromGrid(payload.Grid)
	}
	return nil, &sniff.UnsupportedFormatError{Reason: fmt.Sprintf("unknown payload kind %d", int(payload.Kind))}
}

package segment

import (
	"context"
	"log/slog"
	"slices"

	"lexcurate/internal/lexicon"
	"lexcurate/internal/logging"
)

// Options controls Apply.
type Options struct {
	// Overwrite re-segments forms that already have segments.
	Overwrite    bool
	Placeholders lexicon.Placeholders
	Tag          string
	Logger       *slog.Logger
}

// Result lists the forms whose segments changed and the warnings raised.
type Result struct {
	Changed []string
	Report  *Report
}

// Apply segments the forms of table in place. Placeholder forms get empty
// segments. Forms that carry judgements should not be re-segmented without
// rebuilding their slices; callers pass Overwrite deliberately.
func Apply(ctx context.Context, seg Segmenter, table *lexicon.FormTable, opts Options) (Result, error) {
	logger := logging.NewComponentLogger(opts.Logger, "segment")
	placeholders := opts.Placeholders
	if placeholders == nil {
		placeholders = lexicon.NewPlaceholders(lexicon.DefaultPlaceholders...)
	}
	result := Result{Report: NewReport()}
	for _, form := range table.All() {
		if len(form.Segments) > 0 && !opts.Overwrite {
			continue
		}
		var segments []string
		if !placeholders.Match(form.Value) {
			var warnings []lexicon.UnrecognizedSymbol
			var err error
			segments, warnings, err = seg.Segment(ctx, form.Value, form.LanguageID)
			if err != nil {
				return Result{}, err
			}
			for i := range warnings {
				warnings[i].FormID = form.ID
				logger.Debug("segmenter warning",
					logging.Form(form.ID),
					logging.Int("line", form.Line),
					logging.String("symbol", warnings[i].Symbol),
					logging.String("comment", warnings[i].Comment),
				)
			}
			result.Report.Add(warnings...)
		}
		if slices.Equal(segments, form.Segments) {
			continue
		}
		updated := form.Clone()
		updated.Segments = segments
		if opts.Tag != "" {
			updated.Status = opts.Tag
		}
		table.Put(updated)
		result.Changed = append(result.Changed, form.ID)
	}
	logger.Info("segmented forms",
		logging.Int("changed", len(result.Changed)),
		logging.Int("reported_symbols", result.Report.Len()),
	)
	return result, nil
}

package timetable

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mrt6.timetable.org/internal/logging"
)

// Generator assembles timetables for several schedule variants of one line
type Generator struct {
	Line   Line
	Policy WaitPolicy
	Logger *slog.Logger
}

// Result is the outcome of one variant. Err is set when the variant failed;
// other variants are unaffected
type Result struct {
	Variant   string
	Timetable *Timetable
	Columns   []DirectionColumn
	Err       error
}

// Generate assembles every variant concurrently. Variants share no mutable
// state, so the results are identical to a sequential run; they are returned in
// input order
func (g *Generator) Generate(ctx context.Context, variants []VariantSlots) []Result {
	results := make([]Result, len(variants))

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Add(1)
		go func(i int, variant VariantSlots) {
			defer wg.Done()
			results[i] = g.generateOne(ctx, variant)
		}(i, variant)
	}
	wg.Wait()

	return results
}

func (g *Generator) generateOne(ctx context.Context, variant VariantSlots) Result {
	result := Result{Variant: variant.Variant}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	start := time.Now()
	tt, columns, err := Assemble(g.Line, variant, g.Policy, g.Logger)
	if err != nil {
		logging.LogError(g.Logger, "variant generation failed", err,
			slog.String("variant", variant.Variant),
			slog.String("component", "generator"))
		result.Err = err
		return result
	}

	result.Timetable = tt
	result.Columns = columns
	logging.LogOperation(g.Logger, "variant generated",
		slog.String("variant", variant.Variant),
		slog.Int("stations", len(tt.Stations)),
		slog.Duration("duration", time.Since(start)),
		slog.String("component", "generator"))
	return result
}

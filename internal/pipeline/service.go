package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spherical/pdf-converter/internal/aggregate"
	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/output"
	"github.com/spherical/pdf-converter/internal/selector"
)

// Service runs the full conversion pipeline: selection, parallel
// conversion, aggregation, and artifact writing.
type Service struct {
	cfg       *config.Config
	converter domain.Converter
	writer    *output.Writer
	logger    zerolog.Logger
	onSelect  func(docs []domain.Document, discovered int)
	onResult  func(domain.DocumentResult)
}

// NewService wires a pipeline service from configuration.
func NewService(cfg *config.Config, converter domain.Converter, logger zerolog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		converter: converter,
		writer:    output.NewWriter(cfg.Output.Dir),
		logger:    logger,
	}
}

// OnSelect registers a callback invoked once document selection has
// completed, before conversion starts.
func (s *Service) OnSelect(fn func(docs []domain.Document, discovered int)) {
	s.onSelect = fn
}

// OnResult registers a callback invoked as each document reaches a
// terminal outcome, in completion order.
func (s *Service) OnResult(fn func(domain.DocumentResult)) {
	s.onResult = fn
}

// Run executes one conversion run over inputDir and returns the batch
// report. Per-document failures are contained in the report; a returned
// error means the run as a whole failed and no artifacts were written.
func (s *Service) Run(ctx context.Context, inputDir string) (*domain.BatchReport, error) {
	runID := uuid.New()
	logger := s.logger.With().Str("run_id", runID.String()).Logger()
	startedAt := time.Now().UTC()

	var rng *rand.Rand
	if s.cfg.Selection.Seed != 0 {
		rng = rand.New(rand.NewSource(s.cfg.Selection.Seed))
	}

	docs, discovered, err := selector.New(s.cfg.Selection.SampleSize, rng).Select(inputDir)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("input_folder", inputDir).
		Int("discovered", discovered).
		Int("selected", len(docs)).
		Int("workers", s.cfg.Conversion.Workers).
		Msg("starting conversion run")

	if s.onSelect != nil {
		s.onSelect(docs, discovered)
	}

	pool := NewPool(NewAdapter(s.converter, s.cfg.Conversion.Timeout), s.cfg.Conversion.Workers)
	pool.OnResult(func(res domain.DocumentResult) {
		if res.Outcome.Succeeded() {
			logger.Info().
				Str("document", res.Document.Name).
				Dur("elapsed", res.Outcome.Elapsed).
				Msg("document converted")
		} else {
			logger.Warn().
				Str("document", res.Document.Name).
				Str("error_kind", string(res.Outcome.ErrorKind)).
				Str("error", res.Outcome.ErrorMessage).
				Dur("elapsed", res.Outcome.Elapsed).
				Msg("document failed")
		}
		if s.onResult != nil {
			s.onResult(res)
		}
	})

	results := pool.Run(ctx, docs)

	batch := aggregate.Build(aggregate.Params{
		RunID:       runID,
		Results:     results,
		Discovered:  discovered,
		Workers:     s.cfg.Conversion.Workers,
		OutputDir:   s.writer.Dir(),
		StartedAt:   startedAt,
		Instruction: s.cfg.Payload.Instruction,
		Question:    s.cfg.Payload.Question,
	})

	if err := s.writer.WriteBatch(batch); err != nil {
		return nil, err
	}

	logger.Info().
		Int("succeeded", batch.Report.Succeeded).
		Int("failed", batch.Report.Failed).
		Int64("duration_ms", batch.Report.DurationMS).
		Str("output_folder", s.writer.Dir()).
		Msg("conversion run complete")

	return batch.Report, nil
}

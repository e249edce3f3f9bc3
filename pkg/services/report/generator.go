package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Renderer writes the report document of a context and returns its path.
type Renderer interface {
	Render(ctx context.Context, rc domain.ReportContext) (string, error)
}

// Exporter writes a companion file next to the report document.
type Exporter interface {
	Name() string
	Export(ctx context.Context, rc domain.ReportContext) (string, error)
}

// Publisher copies a generated file to shared storage and returns its location.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// WeekRecorder observes finished weeks.
type WeekRecorder interface {
	WeekGenerated(success bool, elapsed time.Duration)
}

type nopWeekRecorder struct{}

func (nopWeekRecorder) WeekGenerated(bool, time.Duration) {}

type Option func(g *Generator)

func WithExporters(exporters ...Exporter) Option {
	return func(g *Generator) { g.exporters = append(g.exporters, exporters...) }
}

func WithPublisher(p Publisher) Option {
	return func(g *Generator) { g.publisher = p }
}

func WithWeekRecorder(r WeekRecorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// Generator produces the report of a single week.
type Generator struct {
	assembler *Assembler
	renderer  Renderer
	exporters []Exporter
	publisher Publisher
	recorder  WeekRecorder
	now       func() time.Time
}

func NewGenerator(assembler *Assembler, renderer Renderer, opts ...Option) *Generator {
	g := &Generator{
		assembler: assembler,
		renderer:  renderer,
		recorder:  nopWeekRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate assembles and renders one week. Render failures are reported in
// the outcome; exports and publishing are best effort.
func (g *Generator) Generate(ctx context.Context, window domain.WeekWindow) domain.WeekOutcome {
	started := g.now()
	logger := zerolog.Ctx(ctx).With().
		Str("startDate", window.Start.Format(logDateLayout)).
		Str("endDate", window.End.Format(logDateLayout)).
		Logger()

	assembly := g.assembler.Assemble(ctx, window.Start, window.End)
	outcome := domain.WeekOutcome{
		Window:   window,
		Degraded: assembly.Degraded,
		Exports:  []string{},
	}

	path, err := g.render(ctx, assembly.Context)
	if err != nil {
		logger.Error().Err(err).Msg("weekly report render failed")
		outcome.Err = err
		g.recorder.WeekGenerated(false, g.now().Sub(started))
		return outcome
	}
	outcome.File = path
	outcome.Success = true

	for _, exp := range g.exporters {
		exported, err := exp.Export(ctx, assembly.Context)
		if err != nil {
			logger.Warn().Err(err).Str("export", exp.Name()).Msg("weekly report export failed")
			continue
		}
		outcome.Exports = append(outcome.Exports, exported)
	}

	if g.publisher != nil {
		for _, file := range append([]string{outcome.File}, outcome.Exports...) {
			location, err := g.publisher.Publish(ctx, file)
			if err != nil {
				logger.Warn().Err(err).Str("file", file).Msg("failed to publish weekly report file")
				continue
			}
			logger.Info().Str("location", location).Msg("weekly report file published")
		}
	}

	logger.Info().
		Str("file", outcome.File).
		Int("degraded", len(outcome.Degraded)).
		Msg("weekly report generated")
	g.recorder.WeekGenerated(true, g.now().Sub(started))
	return outcome
}

func (g *Generator) render(ctx context.Context, rc domain.ReportContext) (path string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrRender, p)
		}
	}()
	return g.renderer.Render(ctx, rc)
}

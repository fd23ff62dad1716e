package scheduler

import (
	"context"

	"github.com/rs/zerolog"
)

// DueMaterializer creates the next instance of every series that is due
type DueMaterializer interface {
	MaterializeDueInstances(ctx context.Context) (int, error)
}

// AutoMaterializer keeps recurring series moving without a manual trigger
type AutoMaterializer struct {
	materializer DueMaterializer
	log          zerolog.Logger
}

// NewAutoMaterializer creates an AutoMaterializer
func NewAutoMaterializer(m DueMaterializer, log zerolog.Logger) *AutoMaterializer {
	return &AutoMaterializer{materializer: m, log: log}
}

// Run performs one pass over the due series
func (a *AutoMaterializer) Run(ctx context.Context) error {
	created, err := a.materializer.MaterializeDueInstances(ctx)
	if err != nil {
		return err
	}
	if created > 0 {
		a.log.Info().Int("created", created).Msg("Materialized due series instances")
	}
	return nil
}

// Register adds the materializer to s under spec
func (a *AutoMaterializer) Register(s *Scheduler, spec string) error {
	return s.Add("auto-materializer", spec, a.Run)
}

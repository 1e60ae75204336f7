package publisher

import (
	"context"
	"errors"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// Publisher announces completed analysis runs to downstream consumers
type Publisher interface {
	PublishAnalysis(ctx context.Context, update models.AnalysisUpdate) error
}

// Fanout publishes to every configured sink and joins their errors
type Fanout []Publisher

// PublishAnalysis implements Publisher
func (f Fanout) PublishAnalysis(ctx context.Context, update models.AnalysisUpdate) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishAnalysis(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/engine"
)

// SummaryService computes the dashboard summary for a calendar date.
type SummaryService struct {
	summarizer *engine.Summarizer
	loc        *time.Location
	now        func() time.Time
}

// NewSummaryService creates a SummaryService. An empty date means today
// in loc.
func NewSummaryService(summarizer *engine.Summarizer, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryService{
		summarizer: summarizer,
		loc:        loc,
		now:        time.Now,
	}
}

// Summary returns the summary as of date (YYYY-MM-DD, or empty for today).
func (s *SummaryService) Summary(ctx context.Context, date string) (*engine.Summary, error) {
	asOf := domain.Today(s.now(), s.loc)
	if date != "" {
		d, ok := domain.ParseDate(date)
		if !ok {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("date must be YYYY-MM-DD, got %q", date),
			}
		}
		asOf = d
	}
	return s.summarizer.Summarize(ctx, asOf)
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
)

// AnalyticsWindowDays is the default lookback window for lead analytics.
const AnalyticsWindowDays = 30

// Analytics scans leads created within the window and reduces them to counts
// by status, source, and submission type, plus the average lead score. The
// window is assumed small enough to hold one query's result set in memory.
func (s *Store) Analytics(ctx context.Context, windowDays int) (*lead.AnalyticsReport, error) {
	if windowDays <= 0 {
		windowDays = AnalyticsWindowDays
	}

	since := s.now().UTC().Add(-time.Duration(windowDays) * 24 * time.Hour)

	cur, err := s.leads().Find(ctx, bson.M{"date-time": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("querying leads for analytics: %w", err)
	}
	defer cur.Close(ctx) //nolint:errcheck // cursor close error is non-critical

	var leads []lead.Lead
	if err := cur.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("decoding leads for analytics: %w", err)
	}

	report := &lead.AnalyticsReport{
		WindowDays: windowDays,
		TotalLeads: len(leads),
		ByStatus:   lo.CountValuesBy(leads, func(l lead.Lead) string { return l.Submission.LeadStatus }),
		BySource:   lo.CountValuesBy(leads, func(l lead.Lead) string { return l.Source }),
		ByType: lo.CountValuesBy(leads, func(l lead.Lead) string {
			if l.Submission.ContactType != "" {
				return l.Submission.ContactType
			}

			return l.Submission.ClientType
		}),
		PendingSync: lo.CountBy(leads, func(l lead.Lead) bool { return !l.Submission.AgencyBlocSynced }),
	}

	scored := lo.Filter(leads, func(l lead.Lead, _ int) bool { return l.Submission.LeadScore > 0 })
	if len(scored) > 0 {
		total := lo.SumBy(scored, func(l lead.Lead) int { return l.Submission.LeadScore })
		report.AverageLeadScore = float64(total) / float64(len(scored))
	}

	return report, nil
}

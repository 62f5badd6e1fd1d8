package service

import (
	"context"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// PlatformOverview builds the network-wide KPI block with a zero-filled
// daily series. ActiveSubscriptions and TotalRevenue have no source yet
// and stay zero.
func (s *Service) PlatformOverview(ctx context.Context, q domain.OverviewQuery) (domain.OverviewResponse, error) {
	rng, err := daterange.ResolvePeriod(q.Period, q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.OverviewResponse{}, err
	}

	key := cache.Key("report:overview", q)
	return cache.GetOrCompute(ctx, s.cache, key, lightTTL, func(ctx context.Context) (domain.OverviewResponse, error) {
		f := visitdomain.Filter{From: rng.FromStart, ToExclusive: rng.ToExclusive}

		total, err := s.repo.CountVisits(ctx, f)
		if err != nil {
			return domain.OverviewResponse{}, err
		}
		days, err := s.repo.GroupByDay(ctx, f)
		if err != nil {
			return domain.OverviewResponse{}, err
		}

		return domain.OverviewResponse{
			Range:       rangeInfo(rng),
			TotalVisits: total,
			Timeseries:  fillDays(rng, days),
		}, nil
	})
}

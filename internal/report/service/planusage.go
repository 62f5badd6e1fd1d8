package service

import (
	"context"
	"sort"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

var planOrder = []domain.PlanKey{domain.PlanBasic, domain.PlanStandard, domain.PlanPremium, domain.PlanUnknown}

// PlanUsage classifies every active visitor by their primary subscription
// and buckets usage ratios against the configured thresholds. The primary
// subscription is the one the user visited under most in the window.
func (s *Service) PlanUsage(ctx context.Context, q domain.PlanUsageQuery) (domain.PlanUsageResponse, error) {
	rng, err := daterange.ResolvePeriod(q.Period, q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.PlanUsageResponse{}, err
	}

	th := domain.Thresholds{Low: defaultLowThreshold, High: defaultHighThreshold}
	if q.LowThreshold != nil {
		th.Low = *q.LowThreshold
	}
	if q.HighThreshold != nil {
		th.High = *q.HighThreshold
	}
	if th.Low < 0 || th.High > 1 || th.Low >= th.High {
		return domain.PlanUsageResponse{}, domain.ErrInvalidThresholds
	}

	key := cache.Key("report:plan-usage", q)
	return cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.PlanUsageResponse, error) {
		f := visitdomain.Filter{From: rng.FromStart, ToExclusive: rng.ToExclusive}
		rows, err := s.repo.GroupByUserSubscription(ctx, f)
		if err != nil {
			return domain.PlanUsageResponse{}, err
		}

		// Primary subscription per user: the most-visited one; on ties the
		// first in (user, subscription) emission order wins.
		type primary struct {
			subID  *int64
			visits int
		}
		primaries := make(map[int64]primary, len(rows))
		userOrder := make([]int64, 0, len(rows))
		for _, row := range rows {
			cur, seen := primaries[row.UserID]
			if !seen {
				userOrder = append(userOrder, row.UserID)
			}
			if !seen || row.Visits > cur.visits {
				primaries[row.UserID] = primary{subID: row.SubscriptionID, visits: row.Visits}
			}
		}

		subIDs := make([]int64, 0, len(userOrder))
		for _, userID := range userOrder {
			if subID := primaries[userID].subID; subID != nil {
				subIDs = append(subIDs, *subID)
			}
		}
		subs, err := s.repo.SubscriptionsByID(ctx, subIDs)
		if err != nil {
			return domain.PlanUsageResponse{}, err
		}
		users, err := s.repo.UsersByID(ctx, userOrder)
		if err != nil {
			return domain.PlanUsageResponse{}, err
		}

		items := make([]domain.PlanUsageItem, 0, len(userOrder))
		for _, userID := range userOrder {
			p := primaries[userID]

			plan, limit := domain.PlanUnknown, 0
			if p.subID != nil {
				if sub, ok := subs[*p.subID]; ok {
					plan, limit = classifyPlan(sub.Name)
				}
			}
			if limit == 0 {
				_, limit = classifyPlan("")
			}

			ratio := float64(p.visits) / float64(limit)
			if ratio > 1 {
				ratio = 1
			}
			ratio = round4(ratio)

			bucket := domain.BucketNormal
			switch {
			case ratio < th.Low:
				bucket = domain.BucketLow
			case ratio > th.High:
				bucket = domain.BucketHigh
			}

			user := users[userID]
			items = append(items, domain.PlanUsageItem{
				UserID:     userID,
				Name:       user.Name,
				Email:      user.Email,
				Plan:       plan,
				VisitsUsed: p.visits,
				VisitLimit: limit,
				UsageRatio: ratio,
				Bucket:     bucket,
			})
		}

		sort.SliceStable(items, func(i, j int) bool {
			if items[i].UsageRatio != items[j].UsageRatio {
				return items[i].UsageRatio > items[j].UsageRatio
			}
			return items[i].UserID < items[j].UserID
		})

		perPlan := aggregatePlans(items, th)
		pageItems, pagination := paginate(items, q.Page, q.PageSize, listPageSize)

		return domain.PlanUsageResponse{
			Range:      rangeInfo(rng),
			Thresholds: th,
			Pagination: pagination,
			PerPlan:    perPlan,
			Items:      pageItems,
		}, nil
	})
}

// aggregatePlans summarizes the full item set per plan, before pagination.
// Plans with no subscribers are omitted.
func aggregatePlans(items []domain.PlanUsageItem, th domain.Thresholds) []domain.PlanAggregate {
	ratios := make(map[domain.PlanKey][]float64)
	low := make(map[domain.PlanKey]int)
	high := make(map[domain.PlanKey]int)
	for _, item := range items {
		ratios[item.Plan] = append(ratios[item.Plan], item.UsageRatio)
		switch item.Bucket {
		case domain.BucketLow:
			low[item.Plan]++
		case domain.BucketHigh:
			high[item.Plan]++
		}
	}

	aggregates := make([]domain.PlanAggregate, 0, len(ratios))
	for _, plan := range planOrder {
		values := ratios[plan]
		if len(values) == 0 {
			continue
		}
		aggregates = append(aggregates, domain.PlanAggregate{
			Plan:        plan,
			Subscribers: len(values),
			AvgUsage:    round4(mean(values)),
			MedianUsage: round4(median(values)),
			LowCount:    low[plan],
			HighCount:   high[plan],
		})
	}
	return aggregates
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// TopGyms ranks gyms by visits or derived revenue over the window.
// Revenue is visits times the gym's per-visit rate; a gym without a rate
// contributes zero. Ties keep the gym-id ascending emission order.
func (s *Service) TopGyms(ctx context.Context, q domain.TopGymsQuery) (domain.TopGymsResponse, error) {
	rng, err := daterange.ResolvePeriod("", q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.TopGymsResponse{}, err
	}

	sortBy := q.SortBy
	if sortBy != domain.TopGymsSortVisits && sortBy != domain.TopGymsSortRevenue {
		sortBy = domain.TopGymsSortVisits
	}
	order := q.Order
	if order != domain.OrderAsc {
		order = domain.OrderDesc
	}

	key := cache.Key("report:top-gyms", q)
	return cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.TopGymsResponse, error) {
		f := visitdomain.Filter{From: rng.FromStart, ToExclusive: rng.ToExclusive}
		rows, err := s.repo.GroupByGym(ctx, f)
		if err != nil {
			return domain.TopGymsResponse{}, err
		}

		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.GymID)
		}
		gyms, err := s.repo.GymsByID(ctx, ids)
		if err != nil {
			return domain.TopGymsResponse{}, err
		}

		items := make([]domain.TopGymItem, 0, len(rows))
		for _, row := range rows {
			gym := gyms[row.GymID]
			revenue := 0.0
			if gym.VisitPrice != nil {
				revenue = round2(float64(row.Visits) * *gym.VisitPrice)
			}
			items = append(items, domain.TopGymItem{
				GymID:   strconv.FormatInt(row.GymID, 10),
				GymName: gymLabel(gyms, row.GymID),
				Visits:  row.Visits,
				Revenue: revenue,
			})
		}

		sort.SliceStable(items, func(i, j int) bool {
			var less bool
			if sortBy == domain.TopGymsSortRevenue {
				less = items[i].Revenue < items[j].Revenue
			} else {
				less = items[i].Visits < items[j].Visits
			}
			if order == domain.OrderDesc {
				return !less && !equalKey(items[i], items[j], sortBy)
			}
			return less
		})

		pageItems, pagination := paginate(items, q.Page, q.PageSize, defaultPageSize)
		return domain.TopGymsResponse{
			Range:      rangeInfo(rng),
			Pagination: pagination,
			Sort:       domain.Sort{By: sortBy, Order: order},
			Items:      pageItems,
		}, nil
	})
}

func equalKey(a, b domain.TopGymItem, sortBy string) bool {
	if sortBy == domain.TopGymsSortRevenue {
		return a.Revenue == b.Revenue
	}
	return a.Visits == b.Visits
}

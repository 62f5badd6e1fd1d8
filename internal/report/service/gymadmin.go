package service

import (
	"context"
	"fmt"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// GymToday counts today's visits and unique visitors for one gym.
func (s *Service) GymToday(ctx context.Context, q domain.GymTodayQuery) (domain.GymTodayResponse, error) {
	rng, err := daterange.ResolvePeriod(daterange.PeriodToday, "", "", s.clock.Now())
	if err != nil {
		return domain.GymTodayResponse{}, err
	}

	key := cache.Key("report:gym-today", q)
	return cache.GetOrCompute(ctx, s.cache, key, lightTTL, func(ctx context.Context) (domain.GymTodayResponse, error) {
		f := visitdomain.Filter{
			GymID:       &q.GymID,
			BranchID:    q.BranchID,
			From:        rng.FromStart,
			ToExclusive: rng.ToExclusive,
		}
		visits, err := s.repo.CountVisits(ctx, f)
		if err != nil {
			return domain.GymTodayResponse{}, err
		}
		unique, err := s.repo.CountUniqueUsers(ctx, f)
		if err != nil {
			return domain.GymTodayResponse{}, err
		}
		return domain.GymTodayResponse{TotalVisitsToday: visits, UniqueUsersToday: unique}, nil
	})
}

// GymRange reports totals and a zero-filled daily breakdown over an
// explicit window. Both bounds are required.
func (s *Service) GymRange(ctx context.Context, q domain.GymRangeQuery) (domain.GymRangeResponse, error) {
	if q.From == "" || q.To == "" {
		return domain.GymRangeResponse{}, fmt.Errorf("%w: from and to are required", daterange.ErrInvalidRange)
	}
	rng, err := daterange.ResolvePeriod("", q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.GymRangeResponse{}, err
	}

	key := cache.Key("report:gym-range", q)
	return cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.GymRangeResponse, error) {
		f := visitdomain.Filter{
			GymID:       &q.GymID,
			BranchID:    q.BranchID,
			From:        rng.FromStart,
			ToExclusive: rng.ToExclusive,
		}
		visits, err := s.repo.CountVisits(ctx, f)
		if err != nil {
			return domain.GymRangeResponse{}, err
		}
		unique, err := s.repo.CountUniqueUsers(ctx, f)
		if err != nil {
			return domain.GymRangeResponse{}, err
		}
		days, err := s.repo.GroupByDay(ctx, f)
		if err != nil {
			return domain.GymRangeResponse{}, err
		}
		return domain.GymRangeResponse{
			TotalVisits:    visits,
			UniqueUsers:    unique,
			DailyBreakdown: fillDays(rng, days),
		}, nil
	})
}

// GymTopUsers ranks a gym's most frequent visitors over the window,
// defaulting to the last 30 days and a top-10 cut.
func (s *Service) GymTopUsers(ctx context.Context, q domain.GymTopUsersQuery) (domain.GymTopUsersResponse, error) {
	rng, err := daterange.ResolvePeriod("", q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.GymTopUsersResponse{}, err
	}

	limit := q.Limit
	if limit < 1 {
		limit = defaultUsersLimit
	}
	if limit > maxUsersLimit {
		limit = maxUsersLimit
	}

	key := cache.Key("report:gym-top-users", q)
	return cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.GymTopUsersResponse, error) {
		f := visitdomain.Filter{
			GymID:       &q.GymID,
			BranchID:    q.BranchID,
			From:        rng.FromStart,
			ToExclusive: rng.ToExclusive,
		}
		rows, err := s.repo.GroupByUser(ctx, f, limit)
		if err != nil {
			return domain.GymTopUsersResponse{}, err
		}

		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.UserID)
		}
		users, err := s.repo.UsersByID(ctx, ids)
		if err != nil {
			return domain.GymTopUsersResponse{}, err
		}

		items := make([]domain.TopUserItem, 0, len(rows))
		for _, row := range rows {
			user := users[row.UserID]
			items = append(items, domain.TopUserItem{
				UserID: row.UserID,
				Visits: row.Visits,
				Name:   user.Name,
				Email:  user.Email,
			})
		}

		return domain.GymTopUsersResponse{Range: rangeInfo(rng), Items: items}, nil
	})
}

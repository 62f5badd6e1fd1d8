package service

import (
	"context"
	"sort"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// UnassignedBranchName labels the synthetic series for visits recorded
// without a branch.
const UnassignedBranchName = "Unassigned"

// GymBranchDaily builds one zero-filled daily series per branch that saw
// visits in the window. Visits without a branch collect under a synthetic
// branch id 0. The default window is the last 30 days.
func (s *Service) GymBranchDaily(ctx context.Context, q domain.BranchDailyQuery) (domain.BranchDailyResponse, error) {
	rng, err := daterange.ResolvePeriod(q.Period, q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.BranchDailyResponse{}, err
	}

	key := cache.Key("report:gym-branch-daily", q)
	return cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.BranchDailyResponse, error) {
		f := visitdomain.Filter{
			GymID:       &q.GymID,
			BranchID:    q.BranchID,
			From:        rng.FromStart,
			ToExclusive: rng.ToExclusive,
		}
		rows, err := s.repo.GroupByBranchDay(ctx, f)
		if err != nil {
			return domain.BranchDailyResponse{}, err
		}

		perBranch := make(map[int64]map[string]int)
		branchIDs := make([]int64, 0)
		for _, row := range rows {
			if _, seen := perBranch[row.BranchID]; !seen {
				perBranch[row.BranchID] = make(map[string]int)
				branchIDs = append(branchIDs, row.BranchID)
			}
			perBranch[row.BranchID][row.Day] += row.Visits
		}
		sort.Slice(branchIDs, func(i, j int) bool { return branchIDs[i] < branchIDs[j] })

		lookupIDs := make([]int64, 0, len(branchIDs))
		for _, id := range branchIDs {
			if id != 0 {
				lookupIDs = append(lookupIDs, id)
			}
		}
		branches, err := s.repo.BranchesByID(ctx, lookupIDs)
		if err != nil {
			return domain.BranchDailyResponse{}, err
		}

		days := rng.EachDay()
		series := make([]domain.BranchSeries, 0, len(branchIDs))
		for _, id := range branchIDs {
			name := UnassignedBranchName
			if id != 0 {
				name = branchLabel(branches, id)
			}
			points := make([]domain.DayPoint, 0, len(days))
			for _, day := range days {
				points = append(points, domain.DayPoint{Date: day, Visits: perBranch[id][day]})
			}
			series = append(series, domain.BranchSeries{BranchID: id, BranchName: name, Points: points})
		}

		totalVisits, err := s.repo.CountVisits(ctx, f)
		if err != nil {
			return domain.BranchDailyResponse{}, err
		}
		uniqueUsers, err := s.repo.CountUniqueUsers(ctx, f)
		if err != nil {
			return domain.BranchDailyResponse{}, err
		}

		return domain.BranchDailyResponse{
			Range:  rangeInfo(rng),
			Series: series,
			Totals: domain.BranchDailyTotals{Visits: totalVisits, UniqueUsers: uniqueUsers},
		}, nil
	})
}

package service

import (
	"context"
	"time"

	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// MyVisits lists a user's visit history newest first, joined with gym and
// branch names. Personal views are never cached. A single-sided bound is
// honored: a missing "to" defaults to today, a missing "from" to 30 days
// before today.
func (s *Service) MyVisits(ctx context.Context, q domain.MyVisitsQuery) (domain.MyVisitsResponse, error) {
	now := s.clock.Now()
	from, to := q.From, q.To
	switch {
	case from != "" && to == "":
		to = daterange.FormatYMD(now)
	case to != "" && from == "":
		from = daterange.FormatYMD(now.AddDate(0, 0, -29))
	}
	rng, err := daterange.ResolvePeriod("", from, to, now)
	if err != nil {
		return domain.MyVisitsResponse{}, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = listPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	f := visitdomain.Filter{
		UserID:      &q.UserID,
		From:        rng.FromStart,
		ToExclusive: rng.ToExclusive,
	}
	total, err := s.repo.CountVisits(ctx, f)
	if err != nil {
		return domain.MyVisitsResponse{}, err
	}
	rows, err := s.repo.ListVisits(ctx, f, (page-1)*pageSize, pageSize)
	if err != nil {
		return domain.MyVisitsResponse{}, err
	}

	gymIDs := make([]int64, 0, len(rows))
	branchIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		gymIDs = append(gymIDs, row.GymID)
		if row.BranchID != nil {
			branchIDs = append(branchIDs, *row.BranchID)
		}
	}
	gyms, err := s.repo.GymsByID(ctx, gymIDs)
	if err != nil {
		return domain.MyVisitsResponse{}, err
	}
	branches, err := s.repo.BranchesByID(ctx, branchIDs)
	if err != nil {
		return domain.MyVisitsResponse{}, err
	}

	items := make([]domain.UserVisitItem, 0, len(rows))
	for _, row := range rows {
		item := domain.UserVisitItem{
			VisitID:   row.VisitID,
			VisitDate: daterange.FormatYMD(row.VisitDate),
			GymID:     row.GymID,
			GymName:   gymLabel(gyms, row.GymID),
			BranchID:  row.BranchID,
		}
		if row.CheckedInAt != nil {
			stamp := row.CheckedInAt.In(visitdomain.DisplayLocation()).Format(time.RFC3339)
			item.CheckedInAt = &stamp
		}
		if row.BranchID != nil {
			if branch, ok := branches[*row.BranchID]; ok {
				name := branch.Name
				item.BranchName = &name
			}
		}
		items = append(items, item)
	}

	return domain.MyVisitsResponse{
		Range: rangeInfo(rng),
		Pagination: domain.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
		Items: items,
	}, nil
}

// SubscriptionRemaining reports usage against the user's active
// entitlement as of the reference date. Usage counts visits from the
// entitlement start through the earlier of tomorrow and the entitlement
// end. No active entitlement is a distinct not-found condition, never a
// zero-usage success.
func (s *Service) SubscriptionRemaining(ctx context.Context, q domain.RemainingQuery) (domain.RemainingResponse, error) {
	asOf := startOfDay(s.clock.Now())
	if q.AsOf != "" {
		parsed, err := daterange.ParseYMD(q.AsOf)
		if err != nil {
			return domain.RemainingResponse{}, err
		}
		asOf = parsed
	}

	visitThreshold := defaultVisitThreshold
	if q.VisitThreshold != nil {
		visitThreshold = *q.VisitThreshold
	}
	daysThreshold := defaultDaysThreshold
	if q.DaysThreshold != nil {
		daysThreshold = *q.DaysThreshold
	}

	sub, err := s.repo.ActiveUserSubscription(ctx, q.UserID, asOf)
	if err != nil {
		return domain.RemainingResponse{}, err
	}

	plan := domain.PlanUnknown
	subs, err := s.repo.SubscriptionsByID(ctx, []int64{sub.SubscriptionID})
	if err != nil {
		return domain.RemainingResponse{}, err
	}
	if ref, ok := subs[sub.SubscriptionID]; ok {
		plan, _ = classifyPlan(ref.Name)
	}

	usageEnd := asOf.AddDate(0, 0, 1)
	if sub.EndDate.Before(usageEnd) {
		usageEnd = sub.EndDate
	}
	used, err := s.repo.CountVisits(ctx, visitdomain.Filter{
		UserID:      &q.UserID,
		From:        sub.StartDate,
		ToExclusive: usageEnd,
	})
	if err != nil {
		return domain.RemainingResponse{}, err
	}

	remainingVisits := sub.VisitLimit - used
	if remainingVisits < 0 {
		remainingVisits = 0
	}

	totalDays := daysBetween(sub.StartDate, sub.EndDate)
	passedDays := daysBetween(sub.StartDate, asOf) + 1
	if passedDays > totalDays {
		passedDays = totalDays
	}
	if passedDays < 0 {
		passedDays = 0
	}
	remainingDays := totalDays - passedDays

	return domain.RemainingResponse{
		SubscriptionID: sub.SubscriptionID,
		Plan:           plan,
		Period: domain.RemainingPeriod{
			From:        daterange.FormatYMD(sub.StartDate),
			ToExclusive: daterange.FormatYMD(sub.EndDate),
			Timezone:    domain.Timezone,
		},
		Usage: domain.RemainingUsage{
			TotalVisits:     sub.VisitLimit,
			UsedVisits:      used,
			RemainingVisits: remainingVisits,
		},
		Days: domain.RemainingDays{
			Total:     totalDays,
			Passed:    passedDays,
			Remaining: remainingDays,
		},
		NearExpiry: remainingVisits <= visitThreshold || remainingDays <= daysThreshold,
	}, nil
}

func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

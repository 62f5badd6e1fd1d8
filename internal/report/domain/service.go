package domain

import (
	"context"
	"errors"
)

// ErrInvalidThresholds marks a plan-usage threshold pair outside
// 0 <= low < high <= 1.
var ErrInvalidThresholds = errors.New("invalid_thresholds")

// Service is the reporting core. Inputs are already authorized: the access
// gate resolves scope before any of these run. Every operation validates
// its window and options before touching the visit collection, and empty
// result sets produce zero-filled responses, never errors.
type Service interface {
	PlatformOverview(ctx context.Context, q OverviewQuery) (OverviewResponse, error)
	TopGyms(ctx context.Context, q TopGymsQuery) (TopGymsResponse, error)
	PlanUsage(ctx context.Context, q PlanUsageQuery) (PlanUsageResponse, error)
	GymHourlyHeatmap(ctx context.Context, q HeatmapQuery) (HeatmapResponse, error)
	GymBranchDaily(ctx context.Context, q BranchDailyQuery) (BranchDailyResponse, error)

	Reconciliation(ctx context.Context, q ReconciliationQuery) (ReconciliationResponse, error)
	ReconciliationExport(ctx context.Context, q ReconciliationQuery) (ReconciliationDataset, error)

	GymToday(ctx context.Context, q GymTodayQuery) (GymTodayResponse, error)
	GymRange(ctx context.Context, q GymRangeQuery) (GymRangeResponse, error)
	GymTopUsers(ctx context.Context, q GymTopUsersQuery) (GymTopUsersResponse, error)

	MyVisits(ctx context.Context, q MyVisitsQuery) (MyVisitsResponse, error)
	SubscriptionRemaining(ctx context.Context, q RemainingQuery) (RemainingResponse, error)
}

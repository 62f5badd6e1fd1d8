package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoActiveSubscription is returned when a user has no active entitlement
// as of the reference date. Callers must not treat it as zero usage.
var ErrNoActiveSubscription = errors.New("no_active_subscription")

// Filter narrows the visit collection. From/ToExclusive apply to VisitDate
// unless OnCheckedInAt is set, in which case they apply to the precise
// check-in timestamp.
type Filter struct {
	GymID         *int64
	BranchID      *int64
	UserID        *int64
	From          time.Time
	ToExclusive   time.Time
	OnCheckedInAt bool
}

// Grouped count rows. The repository returns raw counts only; gap-filling
// and reference-data joins are the callers' concern.
type GymCount struct {
	GymID  int64
	Visits int
}

type UserCount struct {
	UserID int64
	Visits int
}

type UserSubscriptionCount struct {
	UserID         int64
	SubscriptionID *int64
	Visits         int
}

type DayCount struct {
	Day    string // YYYY-MM-DD
	Visits int
}

// BranchDayCount groups by branch and day. BranchID 0 is the synthetic
// bucket for visits without a branch assignment.
type BranchDayCount struct {
	BranchID int64
	Day      string
	Visits   int
}

// HourDowCount is one cell of the 7x24 grid, bucketed in DisplayTimezone.
type HourDowCount struct {
	Dow    int // 0=Sunday .. 6=Saturday
	Hour   int // 0..23
	Visits int
}

// VisitRow is one visit in a user's history listing.
type VisitRow struct {
	VisitID     int64
	VisitDate   time.Time
	CheckedInAt *time.Time
	GymID       int64
	BranchID    *int64
}

// Repository is the aggregation capability the reporting core depends on.
type Repository interface {
	CountVisits(ctx context.Context, f Filter) (int, error)
	CountUniqueUsers(ctx context.Context, f Filter) (int, error)

	GroupByGym(ctx context.Context, f Filter) ([]GymCount, error)
	GroupByUser(ctx context.Context, f Filter, limit int) ([]UserCount, error)
	GroupByUserSubscription(ctx context.Context, f Filter) ([]UserSubscriptionCount, error)
	GroupByDay(ctx context.Context, f Filter) ([]DayCount, error)
	GroupByBranchDay(ctx context.Context, f Filter) ([]BranchDayCount, error)
	GroupByHourDow(ctx context.Context, f Filter) ([]HourDowCount, error)

	ListVisits(ctx context.Context, f Filter, offset, limit int) ([]VisitRow, error)

	GymsByID(ctx context.Context, ids []int64) (map[int64]Gym, error)
	BranchesByID(ctx context.Context, ids []int64) (map[int64]Branch, error)
	UsersByID(ctx context.Context, ids []int64) (map[int64]User, error)
	SubscriptionsByID(ctx context.Context, ids []int64) (map[int64]Subscription, error)

	ActiveUserSubscription(ctx context.Context, userID int64, asOf time.Time) (UserSubscription, error)
}

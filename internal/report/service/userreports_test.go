package service

import (
	"context"
	"testing"

	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedEntitlement(db *gorm.DB, id, userID, subID int64, from, to string, limit int) {
	start, _ := daterange.ParseYMD(from)
	end, _ := daterange.ParseYMD(to)
	db.Create(&visitdomain.UserSubscription{
		ID: id, UserID: userID, SubscriptionID: subID,
		StartDate: start, EndDate: end,
		VisitLimit: limit, Status: visitdomain.StatusActive,
	})
}

func TestMyVisits_NewestFirstWithNames(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedGym(db, 1, "Iron Works", nil)
	seedBranch(db, 5, 1, "Downtown")

	seedVisit(db, 7, 1, ptr(int64(5)), nil, day(2025, 9, 1), nil)
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 3), nil)
	seedVisit(db, 8, 1, nil, nil, day(2025, 9, 2), nil) // other user

	resp, err := svc.MyVisits(ctx, domain.MyVisitsQuery{UserID: 7, From: "2025-09-01", To: "2025-09-30"})
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Pagination.Total)

	first := resp.Items[0]
	assert.Equal(t, "2025-09-03", first.VisitDate)
	assert.Equal(t, "Iron Works", first.GymName)
	assert.Nil(t, first.BranchID)
	assert.Nil(t, first.BranchName)

	second := resp.Items[1]
	assert.Equal(t, "2025-09-01", second.VisitDate)
	assert.Equal(t, int64(5), *second.BranchID)
	assert.Equal(t, "Downtown", *second.BranchName)
}

func TestMyVisits_Pagination(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedGym(db, 1, "Gym", nil)
	for i := 0; i < 5; i++ {
		seedVisit(db, 7, 1, nil, nil, day(2025, 9, i+1), nil)
	}

	resp, err := svc.MyVisits(ctx, domain.MyVisitsQuery{
		UserID: 7, From: "2025-09-01", To: "2025-09-30", Page: 2, PageSize: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.Pagination{Page: 2, PageSize: 2, Total: 5, TotalPages: 3}, resp.Pagination)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "2025-09-03", resp.Items[0].VisitDate)
	assert.Equal(t, "2025-09-02", resp.Items[1].VisitDate)
}

func TestMyVisits_FromOnlyExtendsToToday(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedGym(db, 1, "Gym", nil)
	seedVisit(db, 7, 1, nil, nil, day(2025, 1, 10), nil) // well before the default window

	resp, err := svc.MyVisits(ctx, domain.MyVisitsQuery{UserID: 7, From: "2025-01-01"})
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-01", resp.Range.From)
	assert.Equal(t, "2025-09-15", resp.Range.To)
	assert.Equal(t, 1, resp.Pagination.Total)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "2025-01-10", resp.Items[0].VisitDate)
}

func TestMyVisits_ToOnlyDefaultsFromTo30Days(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedGym(db, 1, "Gym", nil)
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 1), nil)
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 12), nil) // past the to bound

	resp, err := svc.MyVisits(ctx, domain.MyVisitsQuery{UserID: 7, To: "2025-09-10"})
	assert.NoError(t, err)
	assert.Equal(t, "2025-08-17", resp.Range.From)
	assert.Equal(t, "2025-09-10", resp.Range.To)
	assert.Equal(t, 1, resp.Pagination.Total)
	assert.Equal(t, "2025-09-01", resp.Items[0].VisitDate)
}

func TestSubscriptionRemaining_NearExpiryByVisits(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedSubscription(db, 2, "Premium Annual", "premium")
	seedEntitlement(db, 1, 7, 2, "2025-09-01", "2025-10-01", 12)
	for i := 0; i < 10; i++ {
		seedVisit(db, 7, 1, nil, nil, day(2025, 9, i+1), nil)
	}

	resp, err := svc.SubscriptionRemaining(ctx, domain.RemainingQuery{UserID: 7})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), resp.SubscriptionID)
	assert.Equal(t, domain.PlanPremium, resp.Plan)
	assert.Equal(t, domain.RemainingPeriod{From: "2025-09-01", ToExclusive: "2025-10-01", Timezone: "Asia/Riyadh"}, resp.Period)
	assert.Equal(t, domain.RemainingUsage{TotalVisits: 12, UsedVisits: 10, RemainingVisits: 2}, resp.Usage)
	assert.Equal(t, domain.RemainingDays{Total: 30, Passed: 15, Remaining: 15}, resp.Days)
	assert.True(t, resp.NearExpiry) // 2 remaining <= 3
}

func TestSubscriptionRemaining_NearExpiryByDays(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedSubscription(db, 1, "Basic", "basic")
	seedEntitlement(db, 1, 7, 1, "2025-09-01", "2025-10-01", 12)
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 2), nil)

	resp, err := svc.SubscriptionRemaining(ctx, domain.RemainingQuery{UserID: 7, AsOf: "2025-09-28"})
	assert.NoError(t, err)
	assert.Equal(t, 11, resp.Usage.RemainingVisits)
	assert.Equal(t, 2, resp.Days.Remaining)
	assert.True(t, resp.NearExpiry) // 2 days <= 5
}

func TestSubscriptionRemaining_NotNear(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedSubscription(db, 1, "Standard", "standard")
	seedEntitlement(db, 1, 7, 1, "2025-09-01", "2025-10-01", 12)
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 2), nil)

	resp, err := svc.SubscriptionRemaining(ctx, domain.RemainingQuery{UserID: 7, AsOf: "2025-09-10"})
	assert.NoError(t, err)
	assert.Equal(t, 11, resp.Usage.RemainingVisits)
	assert.Equal(t, 20, resp.Days.Remaining)
	assert.False(t, resp.NearExpiry)
}

func TestSubscriptionRemaining_UsageCountsOnlyEntitlementWindow(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedSubscription(db, 1, "Basic", "basic")
	seedEntitlement(db, 1, 7, 1, "2025-09-01", "2025-10-01", 8)

	seedVisit(db, 7, 1, nil, nil, day(2025, 8, 30), nil) // before start
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 5), nil)
	seedVisit(db, 7, 1, nil, nil, day(2025, 9, 20), nil) // after asOf

	resp, err := svc.SubscriptionRemaining(ctx, domain.RemainingQuery{UserID: 7, AsOf: "2025-09-10"})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Usage.UsedVisits)
}

func TestSubscriptionRemaining_NoActiveEntitlement(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SubscriptionRemaining(context.Background(), domain.RemainingQuery{UserID: 7})
	assert.ErrorIs(t, err, visitdomain.ErrNoActiveSubscription)
}

func TestSubscriptionRemaining_InvalidAsOf(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SubscriptionRemaining(context.Background(), domain.RemainingQuery{UserID: 7, AsOf: "09-2025"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestSubscriptionRemaining_CustomThresholds(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedSubscription(db, 1, "Standard", "standard")
	seedEntitlement(db, 1, 7, 1, "2025-09-01", "2025-10-01", 12)

	resp, err := svc.SubscriptionRemaining(ctx, domain.RemainingQuery{
		UserID: 7, AsOf: "2025-09-10", VisitThreshold: ptr(12), DaysThreshold: ptr(0),
	})
	assert.NoError(t, err)
	assert.True(t, resp.NearExpiry) // 12 remaining <= threshold 12
}

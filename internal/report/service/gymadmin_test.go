package service

import (
	"context"
	"testing"

	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	"github.com/stretchr/testify/assert"
)

func TestGymToday_CountsOnlyToday(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	today := day(2025, 9, 15)
	seedVisit(db, 1, 1, nil, nil, today, nil)
	seedVisit(db, 1, 1, ptr(int64(2)), nil, today, nil)
	seedVisit(db, 2, 1, nil, nil, day(2025, 9, 14), nil) // yesterday
	seedVisit(db, 3, 2, nil, nil, today, nil)            // other gym

	resp, err := svc.GymToday(ctx, domain.GymTodayQuery{GymID: 1})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.TotalVisitsToday)
	assert.Equal(t, 1, resp.UniqueUsersToday)
}

func TestGymRange_RequiresBothBounds(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GymRange(context.Background(), domain.GymRangeQuery{GymID: 1, From: "2025-09-01"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = svc.GymRange(context.Background(), domain.GymRangeQuery{GymID: 1, To: "2025-09-05"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestGymRange_TotalsAndBreakdown(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedVisit(db, 1, 1, nil, nil, day(2025, 9, 1), nil)
	seedVisit(db, 1, 1, nil, nil, day(2025, 9, 2), nil)
	seedVisit(db, 2, 1, nil, nil, day(2025, 9, 2), nil)

	resp, err := svc.GymRange(ctx, domain.GymRangeQuery{GymID: 1, From: "2025-09-01", To: "2025-09-03"})
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.TotalVisits)
	assert.Equal(t, 2, resp.UniqueUsers)
	assert.Equal(t, []domain.DayPoint{
		{Date: "2025-09-01", Visits: 1},
		{Date: "2025-09-02", Visits: 2},
		{Date: "2025-09-03", Visits: 0},
	}, resp.DailyBreakdown)
}

func TestGymTopUsers_RankedWithProfiles(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedUser(db, 1, "Ahmed", "ahmed@example.com")
	seedUser(db, 2, "Sara", "sara@example.com")

	for i := 0; i < 3; i++ {
		seedVisit(db, 2, 1, nil, nil, day(2025, 9, i+1), nil)
	}
	seedVisit(db, 1, 1, nil, nil, day(2025, 9, 1), nil)

	resp, err := svc.GymTopUsers(ctx, domain.GymTopUsersQuery{GymID: 1, From: "2025-09-01", To: "2025-09-07"})
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, domain.TopUserItem{UserID: 2, Visits: 3, Name: "Sara", Email: "sara@example.com"}, resp.Items[0])
	assert.Equal(t, domain.TopUserItem{UserID: 1, Visits: 1, Name: "Ahmed", Email: "ahmed@example.com"}, resp.Items[1])
}

func TestGymTopUsers_LimitApplied(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	for userID := int64(1); userID <= 5; userID++ {
		seedVisit(db, userID, 1, nil, nil, day(2025, 9, 1), nil)
	}

	resp, err := svc.GymTopUsers(ctx, domain.GymTopUsersQuery{
		GymID: 1, Limit: 2, From: "2025-09-01", To: "2025-09-07",
	})
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

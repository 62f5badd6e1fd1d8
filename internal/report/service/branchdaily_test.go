package service

import (
	"context"
	"testing"

	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedBranch(db *gorm.DB, id, gymID int64, name string) {
	db.Create(&visitdomain.Branch{ID: id, GymID: gymID, Name: name})
}

func TestGymBranchDaily_SeriesPerBranch(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedBranch(db, 5, 1, "Downtown")
	seedBranch(db, 9, 1, "Marina")

	seedVisit(db, 1, 1, ptr(int64(9)), nil, day(2025, 9, 1), nil)
	seedVisit(db, 2, 1, ptr(int64(5)), nil, day(2025, 9, 1), nil)
	seedVisit(db, 2, 1, ptr(int64(5)), nil, day(2025, 9, 3), nil)
	seedVisit(db, 3, 1, nil, nil, day(2025, 9, 2), nil) // unassigned

	resp, err := svc.GymBranchDaily(ctx, domain.BranchDailyQuery{
		GymID: 1, From: "2025-09-01", To: "2025-09-03",
	})
	assert.NoError(t, err)

	// Branch id ascending: synthetic 0 first.
	assert.Len(t, resp.Series, 3)
	assert.Equal(t, int64(0), resp.Series[0].BranchID)
	assert.Equal(t, "Unassigned", resp.Series[0].BranchName)
	assert.Equal(t, int64(5), resp.Series[1].BranchID)
	assert.Equal(t, "Downtown", resp.Series[1].BranchName)
	assert.Equal(t, int64(9), resp.Series[2].BranchID)

	// Every series spans the full window.
	for _, series := range resp.Series {
		assert.Len(t, series.Points, 3)
	}
	assert.Equal(t, []domain.DayPoint{
		{Date: "2025-09-01", Visits: 1},
		{Date: "2025-09-02", Visits: 0},
		{Date: "2025-09-03", Visits: 1},
	}, resp.Series[1].Points)

	assert.Equal(t, domain.BranchDailyTotals{Visits: 4, UniqueUsers: 3}, resp.Totals)
}

func TestGymBranchDaily_EmptyWindow(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.GymBranchDaily(context.Background(), domain.BranchDailyQuery{
		GymID: 1, From: "2025-09-01", To: "2025-09-03",
	})
	assert.NoError(t, err)
	assert.Empty(t, resp.Series)
	assert.Equal(t, domain.BranchDailyTotals{}, resp.Totals)
}

func TestGymBranchDaily_MissingBranchRowGetsSyntheticLabel(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedVisit(db, 1, 1, ptr(int64(42)), nil, day(2025, 9, 1), nil) // no branches row for 42

	resp, err := svc.GymBranchDaily(ctx, domain.BranchDailyQuery{
		GymID: 1, From: "2025-09-01", To: "2025-09-01",
	})
	assert.NoError(t, err)
	assert.Len(t, resp.Series, 1)
	assert.Equal(t, "Branch#42", resp.Series[0].BranchName)
}

func TestGymBranchDaily_ScopedToGym(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedVisit(db, 1, 1, nil, nil, day(2025, 9, 1), nil)
	seedVisit(db, 2, 2, nil, nil, day(2025, 9, 1), nil)

	resp, err := svc.GymBranchDaily(ctx, domain.BranchDailyQuery{
		GymID: 1, From: "2025-09-01", To: "2025-09-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.Visits)
}

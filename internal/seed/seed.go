// Package seed loads a deterministic demo dataset for local development.
// It runs only when SEED=true and is idempotent: a database that already
// has gyms is left untouched.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/mutazsaeed/fitzy/internal/clock"
	"github.com/mutazsaeed/fitzy/internal/config"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Invoke(Run)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Clock clock.Clock
	Log   *zap.Logger
}

// Run migrates the reporting tables and, when enabled, loads the demo set.
func Run(p Params) error {
	db := p.DB
	err := db.AutoMigrate(
		&visitdomain.Gym{},
		&visitdomain.Branch{},
		&visitdomain.User{},
		&visitdomain.Subscription{},
		&visitdomain.UserSubscription{},
		&visitdomain.Visit{},
	)
	if err != nil {
		return fmt.Errorf("seed: migrate: %w", err)
	}

	if !p.Cfg.Seed {
		return nil
	}

	ctx := context.Background()
	var gyms int64
	if err := db.WithContext(ctx).Model(&visitdomain.Gym{}).Count(&gyms).Error; err != nil {
		return err
	}
	if gyms > 0 {
		p.Log.Info("seed: gyms already present, skipping")
		return nil
	}

	log := p.Log.Named("seed")
	log.Info("seeding demo dataset")

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedReferenceData(tx); err != nil {
			return err
		}
		return seedVisits(tx, p.Clock.Now())
	})
}

func price(v float64) *float64 { return &v }

func seedReferenceData(tx *gorm.DB) error {
	gyms := []visitdomain.Gym{
		{ID: 1, Name: "Iron Works", VisitPrice: price(15)},
		{ID: 2, Name: "Pulse Fitness", VisitPrice: price(12.5)},
		{ID: 3, Name: "Desert Lift", VisitPrice: price(20)},
		{ID: 4, Name: "Corniche Club", VisitPrice: nil},
	}
	if err := tx.Create(&gyms).Error; err != nil {
		return err
	}

	branches := []visitdomain.Branch{
		{ID: 1, GymID: 1, Name: "Downtown"},
		{ID: 2, GymID: 1, Name: "Marina"},
		{ID: 3, GymID: 2, Name: "North"},
	}
	if err := tx.Create(&branches).Error; err != nil {
		return err
	}

	users := make([]visitdomain.User, 0, 12)
	for i := int64(1); i <= 12; i++ {
		users = append(users, visitdomain.User{
			ID:    i,
			Name:  fmt.Sprintf("Member %02d", i),
			Email: fmt.Sprintf("member%02d@example.com", i),
		})
	}
	if err := tx.Create(&users).Error; err != nil {
		return err
	}

	subs := []visitdomain.Subscription{
		{ID: 1, Name: "Basic Monthly", Level: "BASIC"},
		{ID: 2, Name: "Standard Monthly", Level: "STANDARD"},
		{ID: 3, Name: "Premium Monthly", Level: "PREMIUM"},
	}
	return tx.Create(&subs).Error
}

// seedVisits writes one month of check-ins ending today. The spread is
// deterministic so local runs always produce the same reports.
func seedVisits(tx *gorm.DB, now time.Time) error {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -29)
	end := start.AddDate(0, 1, 0)

	entitlements := make([]visitdomain.UserSubscription, 0, 12)
	for i := int64(1); i <= 12; i++ {
		subID := i%3 + 1
		limit := map[int64]int{1: 8, 2: 12, 3: 20}[subID]
		entitlements = append(entitlements, visitdomain.UserSubscription{
			ID:             i,
			UserID:         i,
			SubscriptionID: subID,
			StartDate:      start,
			EndDate:        end,
			VisitLimit:     limit,
			Status:         visitdomain.StatusActive,
		})
	}
	if err := tx.Create(&entitlements).Error; err != nil {
		return err
	}

	var visits []visitdomain.Visit
	var id int64
	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)
		for userID := int64(1); userID <= 12; userID++ {
			// each member trains every 2nd or 3rd day on a fixed offset
			stride := 2 + int(userID%2)
			if (day+int(userID))%stride != 0 {
				continue
			}
			gymID := userID%4 + 1
			var branchID *int64
			if gymID == 1 {
				b := userID%2 + 1
				branchID = &b
			} else if gymID == 2 {
				b := int64(3)
				branchID = &b
			}
			checkedIn := date.Add(time.Duration(6+userID) * time.Hour)
			subID := userID%3 + 1
			id++
			visits = append(visits, visitdomain.Visit{
				ID:             id,
				UserID:         userID,
				GymID:          gymID,
				BranchID:       branchID,
				SubscriptionID: &subID,
				VisitDate:      date,
				CheckedInAt:    &checkedIn,
				Method:         "QR",
				CreatedAt:      checkedIn,
			})
		}
	}
	return tx.CreateInBatches(&visits, 100).Error
}

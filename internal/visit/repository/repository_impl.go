package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mutazsaeed/fitzy/internal/visit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Repository struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Repository {
	return &Repository{
		db:  p.DB,
		log: p.Log.Named("visit.repository"),
	}
}

func (r *Repository) scoped(ctx context.Context, f domain.Filter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Visit{})
	if f.GymID != nil {
		tx = tx.Where("gym_id = ?", *f.GymID)
	}
	if f.BranchID != nil {
		tx = tx.Where("branch_id = ?", *f.BranchID)
	}
	if f.UserID != nil {
		tx = tx.Where("user_id = ?", *f.UserID)
	}
	dateColumn := "visit_date"
	if f.OnCheckedInAt {
		dateColumn = "checked_in_at"
	}
	if !f.From.IsZero() && !f.ToExclusive.IsZero() {
		tx = tx.Where(dateColumn+" >= ? AND "+dateColumn+" < ?", f.From, f.ToExclusive)
	}
	return tx
}

func (r *Repository) CountVisits(ctx context.Context, f domain.Filter) (int, error) {
	var count int64
	if err := r.scoped(ctx, f).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CountUniqueUsers(ctx context.Context, f domain.Filter) (int, error) {
	var count int64
	if err := r.scoped(ctx, f).Distinct("user_id").Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) GroupByGym(ctx context.Context, f domain.Filter) ([]domain.GymCount, error) {
	var rows []domain.GymCount
	err := r.scoped(ctx, f).
		Select("gym_id, COUNT(*) AS visits").
		Group("gym_id").
		Order("gym_id").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) GroupByUser(ctx context.Context, f domain.Filter, limit int) ([]domain.UserCount, error) {
	tx := r.scoped(ctx, f).
		Select("user_id, COUNT(*) AS visits").
		Group("user_id").
		Order("visits DESC, user_id")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []domain.UserCount
	err := tx.Scan(&rows).Error
	return rows, err
}

func (r *Repository) GroupByUserSubscription(ctx context.Context, f domain.Filter) ([]domain.UserSubscriptionCount, error) {
	var rows []domain.UserSubscriptionCount
	err := r.scoped(ctx, f).
		Select("user_id, subscription_id, COUNT(*) AS visits").
		Group("user_id, subscription_id").
		Order("user_id, subscription_id").
		Scan(&rows).Error
	return rows, err
}

// GroupByDay groups on the stored visit_date values and folds them to
// calendar-day strings in Go, which keeps the query identical across
// postgres, mysql and sqlite.
func (r *Repository) GroupByDay(ctx context.Context, f domain.Filter) ([]domain.DayCount, error) {
	var raw []struct {
		VisitDate time.Time
		Visits    int
	}
	err := r.scoped(ctx, f).
		Select("visit_date, COUNT(*) AS visits").
		Group("visit_date").
		Order("visit_date").
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(raw))
	order := make([]string, 0, len(raw))
	for _, row := range raw {
		day := row.VisitDate.Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] += row.Visits
	}

	rows := make([]domain.DayCount, 0, len(order))
	for _, day := range order {
		rows = append(rows, domain.DayCount{Day: day, Visits: byDay[day]})
	}
	return rows, nil
}

func (r *Repository) GroupByBranchDay(ctx context.Context, f domain.Filter) ([]domain.BranchDayCount, error) {
	var raw []struct {
		BranchID  *int64
		VisitDate time.Time
		Visits    int
	}
	err := r.scoped(ctx, f).
		Select("branch_id, visit_date, COUNT(*) AS visits").
		Group("branch_id, visit_date").
		Order("branch_id, visit_date").
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		branchID int64
		day      string
	}
	counts := make(map[key]int, len(raw))
	order := make([]key, 0, len(raw))
	for _, row := range raw {
		var branchID int64
		if row.BranchID != nil {
			branchID = *row.BranchID
		}
		k := key{branchID: branchID, day: row.VisitDate.Format("2006-01-02")}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k] += row.Visits
	}

	rows := make([]domain.BranchDayCount, 0, len(order))
	for _, k := range order {
		rows = append(rows, domain.BranchDayCount{BranchID: k.branchID, Day: k.day, Visits: counts[k]})
	}
	return rows, nil
}

// GroupByHourDow scans check-in timestamps and buckets them in the fixed
// display timezone. Bucketing in Go rather than SQL keeps the zone
// semantics exact on every supported database.
func (r *Repository) GroupByHourDow(ctx context.Context, f domain.Filter) ([]domain.HourDowCount, error) {
	f.OnCheckedInAt = true

	var stamps []time.Time
	err := r.scoped(ctx, f).
		Where("checked_in_at IS NOT NULL").
		Pluck("checked_in_at", &stamps).Error
	if err != nil {
		return nil, err
	}

	loc := domain.DisplayLocation()
	counts := make(map[[2]int]int)
	for _, stamp := range stamps {
		local := stamp.In(loc)
		counts[[2]int{int(local.Weekday()), local.Hour()}]++
	}

	rows := make([]domain.HourDowCount, 0, len(counts))
	for dow := 0; dow <= 6; dow++ {
		for hour := 0; hour <= 23; hour++ {
			if visits, ok := counts[[2]int{dow, hour}]; ok {
				rows = append(rows, domain.HourDowCount{Dow: dow, Hour: hour, Visits: visits})
			}
		}
	}
	return rows, nil
}

func (r *Repository) ListVisits(ctx context.Context, f domain.Filter, offset, limit int) ([]domain.VisitRow, error) {
	var visits []domain.Visit
	err := r.scoped(ctx, f).
		Order("visit_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&visits).Error
	if err != nil {
		return nil, err
	}

	rows := make([]domain.VisitRow, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, domain.VisitRow{
			VisitID:     v.ID,
			VisitDate:   v.VisitDate,
			CheckedInAt: v.CheckedInAt,
			GymID:       v.GymID,
			BranchID:    v.BranchID,
		})
	}
	return rows, nil
}

func (r *Repository) GymsByID(ctx context.Context, ids []int64) (map[int64]domain.Gym, error) {
	result := make(map[int64]domain.Gym, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var gyms []domain.Gym
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&gyms).Error; err != nil {
		return nil, err
	}
	for _, g := range gyms {
		result[g.ID] = g
	}
	return result, nil
}

func (r *Repository) BranchesByID(ctx context.Context, ids []int64) (map[int64]domain.Branch, error) {
	result := make(map[int64]domain.Branch, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var branches []domain.Branch
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&branches).Error; err != nil {
		return nil, err
	}
	for _, b := range branches {
		result[b.ID] = b
	}
	return result, nil
}

func (r *Repository) UsersByID(ctx context.Context, ids []int64) (map[int64]domain.User, error) {
	result := make(map[int64]domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *Repository) SubscriptionsByID(ctx context.Context, ids []int64) (map[int64]domain.Subscription, error) {
	result := make(map[int64]domain.Subscription, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var subs []domain.Subscription
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subs).Error; err != nil {
		return nil, err
	}
	for _, s := range subs {
		result[s.ID] = s
	}
	return result, nil
}

func (r *Repository) ActiveUserSubscription(ctx context.Context, userID int64, asOf time.Time) (domain.UserSubscription, error) {
	var sub domain.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date > ?",
			userID, domain.StatusActive, asOf, asOf).
		Order("start_date DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserSubscription{}, domain.ErrNoActiveSubscription
	}
	if err != nil {
		return domain.UserSubscription{}, err
	}
	return sub, nil
}

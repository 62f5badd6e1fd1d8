// Package service implements the reporting metric builders on top of the
// visit aggregation repository.
package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/clock"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Cache TTLs. Short for the cheap dashboards, longer for the heavy
// aggregations. Caching is advisory only; correctness never depends on it.
const (
	lightTTL = 30 * time.Second
	heavyTTL = 2 * time.Minute
)

const (
	defaultPageSize   = 10
	listPageSize      = 20
	maxPageSize       = 100
	defaultUsersLimit = 10
	maxUsersLimit     = 100
)

const (
	defaultLowThreshold  = 0.3
	defaultHighThreshold = 0.8
)

const (
	defaultVisitThreshold = 3
	defaultDaysThreshold  = 5
)

type Params struct {
	fx.In

	Repo  visitdomain.Repository
	Clock clock.Clock
	Cache cache.Store
	Log   *zap.Logger
}

type Service struct {
	repo  visitdomain.Repository
	clock clock.Clock
	cache cache.Store
	log   *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		repo:  p.Repo,
		clock: p.Clock,
		cache: p.Cache,
		log:   p.Log.Named("report.service"),
	}
}

func rangeInfo(r daterange.Range) domain.RangeInfo {
	return domain.RangeInfo{From: r.FromStr, To: r.ToStr, Timezone: domain.Timezone}
}

// Fallback labels for visits whose reference row no longer exists.
func gymLabel(gyms map[int64]visitdomain.Gym, id int64) string {
	if gym, ok := gyms[id]; ok {
		return gym.Name
	}
	return fmt.Sprintf("Gym#%d", id)
}

func branchLabel(branches map[int64]visitdomain.Branch, id int64) string {
	if branch, ok := branches[id]; ok {
		return branch.Name
	}
	return fmt.Sprintf("Branch#%d", id)
}

// paginate slices a fully materialized result set. Page numbers past the
// end yield an empty page, never an error; totals always describe the full
// set.
func paginate[T any](items []T, page, pageSize, defaultSize int) ([]T, domain.Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	p := domain.Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}

	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, p
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// classifyPlan maps a subscription name to its plan key and visit limit.
// The limit table is fixed product configuration, deliberately independent
// of per-user entitlements.
func classifyPlan(name string) (domain.PlanKey, int) {
	upper := strings.ToUpper(name)
	switch {
	case strings.Contains(upper, "BASIC"):
		return domain.PlanBasic, 8
	case strings.Contains(upper, "STANDARD"):
		return domain.PlanStandard, 12
	case strings.Contains(upper, "PREMIUM"):
		return domain.PlanPremium, 20
	default:
		return domain.PlanUnknown, 10
	}
}

// fillDays expands sparse day counts into a complete zero-filled series
// over the resolved range.
func fillDays(rng daterange.Range, counts []visitdomain.DayCount) []domain.DayPoint {
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Visits
	}
	days := rng.EachDay()
	points := make([]domain.DayPoint, 0, len(days))
	for _, d := range days {
		points = append(points, domain.DayPoint{Date: d, Visits: byDay[d]})
	}
	return points
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

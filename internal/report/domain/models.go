// Package domain defines the reporting query and response shapes.
package domain

import (
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// Timezone is stamped on every range-bearing response.
const Timezone = visitdomain.DisplayTimezone

// RangeInfo describes the resolved window of a report.
type RangeInfo struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Timezone string `json:"timezone"`
}

// Pagination describes offset paging over a full result set.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Sort echoes the applied sort key and direction.
type Sort struct {
	By    string `json:"by"`
	Order string `json:"order"`
}

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// DayPoint is one day of a zero-filled series.
type DayPoint struct {
	Date   string `json:"date"`
	Visits int    `json:"visits"`
}

// ---- Platform overview ----

type OverviewQuery struct {
	Period string `json:"period,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// OverviewResponse carries the platform KPI block.
// ActiveSubscriptions and TotalRevenue are not wired to a source yet and
// are always zero.
type OverviewResponse struct {
	Range               RangeInfo  `json:"range"`
	TotalVisits         int        `json:"totalVisits"`
	ActiveSubscriptions int        `json:"activeSubscriptions"`
	TotalRevenue        float64    `json:"totalRevenue"`
	Timeseries          []DayPoint `json:"timeseries"`
}

// ---- Top gyms ----

const (
	TopGymsSortVisits  = "visits"
	TopGymsSortRevenue = "revenue"
)

type TopGymsQuery struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	SortBy   string `json:"sortBy,omitempty"`
	Order    string `json:"order,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

type TopGymItem struct {
	GymID   string  `json:"gymId"`
	GymName string  `json:"gymName"`
	Visits  int     `json:"visits"`
	Revenue float64 `json:"revenue"`
}

type TopGymsResponse struct {
	Range      RangeInfo    `json:"range"`
	Pagination Pagination   `json:"pagination"`
	Sort       Sort         `json:"sort"`
	Items      []TopGymItem `json:"items"`
}

// ---- Plan usage ----

type PlanKey string

const (
	PlanBasic    PlanKey = "BASIC"
	PlanStandard PlanKey = "STANDARD"
	PlanPremium  PlanKey = "PREMIUM"
	PlanUnknown  PlanKey = "UNKNOWN"
)

const (
	BucketLow    = "low"
	BucketNormal = "normal"
	BucketHigh   = "high"
)

type PlanUsageQuery struct {
	Period        string   `json:"period,omitempty"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	LowThreshold  *float64 `json:"lowThreshold,omitempty"`
	HighThreshold *float64 `json:"highThreshold,omitempty"`
	Page          int      `json:"page,omitempty"`
	PageSize      int      `json:"pageSize,omitempty"`
}

type Thresholds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type PlanUsageItem struct {
	UserID     int64   `json:"userId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Plan       PlanKey `json:"plan"`
	VisitsUsed int     `json:"visitsUsed"`
	VisitLimit int     `json:"visitLimit"`
	UsageRatio float64 `json:"usageRatio"`
	Bucket     string  `json:"bucket"`
}

type PlanAggregate struct {
	Plan        PlanKey `json:"plan"`
	Subscribers int     `json:"subscribers"`
	AvgUsage    float64 `json:"avgUsage"`
	MedianUsage float64 `json:"medianUsage"`
	LowCount    int     `json:"lowCount"`
	HighCount   int     `json:"highCount"`
}

type PlanUsageResponse struct {
	Range      RangeInfo       `json:"range"`
	Thresholds Thresholds      `json:"thresholds"`
	Pagination Pagination      `json:"pagination"`
	PerPlan    []PlanAggregate `json:"perPlan"`
	Items      []PlanUsageItem `json:"items"`
}

// ---- Gym hourly heatmap ----

type HeatmapQuery struct {
	GymID    int64  `json:"gymId"`
	BranchID *int64 `json:"branchId,omitempty"`
	Period   string `json:"period,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

type HeatmapCell struct {
	Dow    int `json:"dow"`
	Hour   int `json:"hour"`
	Visits int `json:"visits"`
}

type PeakHour struct {
	Hour   int `json:"hour"`
	Visits int `json:"visits"`
}

type PeakDay struct {
	Dow    int `json:"dow"`
	Visits int `json:"visits"`
}

type HeatmapPeak struct {
	TopHours []PeakHour `json:"topHours"`
	TopDays  []PeakDay  `json:"topDays"`
}

type HeatmapParams struct {
	GymID    int64  `json:"gymId"`
	BranchID *int64 `json:"branchId"`
}

type HeatmapResponse struct {
	Range   RangeInfo     `json:"range"`
	Params  HeatmapParams `json:"params"`
	Heatmap []HeatmapCell `json:"heatmap"`
	Peak    HeatmapPeak   `json:"peak"`
}

// ---- Branch daily series ----

type BranchDailyQuery struct {
	GymID    int64  `json:"gymId"`
	BranchID *int64 `json:"branchId,omitempty"`
	Period   string `json:"period,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

type BranchSeries struct {
	BranchID   int64      `json:"branchId"`
	BranchName string     `json:"branchName"`
	Points     []DayPoint `json:"points"`
}

type BranchDailyTotals struct {
	Visits      int `json:"visits"`
	UniqueUsers int `json:"uniqueUsers"`
}

type BranchDailyResponse struct {
	Range  RangeInfo         `json:"range"`
	Series []BranchSeries    `json:"series"`
	Totals BranchDailyTotals `json:"totals"`
}

// ---- Monthly reconciliation ----

const (
	RecoSortGymName = "gymName"
	RecoSortVisits  = "visits"
	RecoSortDues    = "dues"
)

type ReconciliationQuery struct {
	Month    string `json:"month,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	SortBy   string `json:"sortBy,omitempty"`
	Order    string `json:"order,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

type ReconciliationItem struct {
	GymID         int64    `json:"gymId"`
	GymName       string   `json:"gymName"`
	VisitPrice    *float64 `json:"visitPrice"`
	Visits        int      `json:"visits"`
	Dues          float64  `json:"dues"`
	InvoiceNumber string   `json:"invoiceNumber"`
}

type ReconciliationTotals struct {
	TotalVisits int     `json:"totalVisits"`
	TotalDues   float64 `json:"totalDues"`
}

type ReconciliationResponse struct {
	Range      RangeInfo            `json:"range"`
	Pagination Pagination           `json:"pagination"`
	Sort       Sort                 `json:"sort"`
	Items      []ReconciliationItem `json:"items"`
	Totals     ReconciliationTotals `json:"totals"`
}

// ReconciliationDataset is the unpaginated export view.
type ReconciliationDataset struct {
	Range           RangeInfo            `json:"range"`
	Items           []ReconciliationItem `json:"items"`
	Totals          ReconciliationTotals `json:"totals"`
	InvoiceMonthTag string               `json:"invoiceMonthTag"`
}

// ---- Gym admin reports ----

type GymTodayQuery struct {
	GymID    int64  `json:"gymId"`
	BranchID *int64 `json:"branchId,omitempty"`
}

type GymTodayResponse struct {
	TotalVisitsToday int `json:"totalVisitsToday"`
	UniqueUsersToday int `json:"uniqueUsersToday"`
}

type GymRangeQuery struct {
	GymID    int64  `json:"gymId"`
	From     string `json:"from"`
	To       string `json:"to"`
	BranchID *int64 `json:"branchId,omitempty"`
}

type GymRangeResponse struct {
	TotalVisits    int        `json:"totalVisits"`
	UniqueUsers    int        `json:"uniqueUsers"`
	DailyBreakdown []DayPoint `json:"dailyBreakdown"`
}

type GymTopUsersQuery struct {
	GymID    int64  `json:"gymId"`
	Limit    int    `json:"limit,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	BranchID *int64 `json:"branchId,omitempty"`
}

type TopUserItem struct {
	UserID int64  `json:"userId"`
	Visits int    `json:"visits"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type GymTopUsersResponse struct {
	Range RangeInfo     `json:"range"`
	Items []TopUserItem `json:"items"`
}

// ---- User reports ----

type MyVisitsQuery struct {
	UserID   int64  `json:"userId"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

type UserVisitItem struct {
	VisitID     int64   `json:"visitId"`
	VisitDate   string  `json:"visitDate"`
	CheckedInAt *string `json:"checkedInAt"`
	GymID       int64   `json:"gymId"`
	GymName     string  `json:"gymName"`
	BranchID    *int64  `json:"branchId"`
	BranchName  *string `json:"branchName"`
}

type MyVisitsResponse struct {
	Range      RangeInfo       `json:"range"`
	Pagination Pagination      `json:"pagination"`
	Items      []UserVisitItem `json:"items"`
}

type RemainingQuery struct {
	UserID         int64  `json:"userId"`
	AsOf           string `json:"asOf,omitempty"`
	VisitThreshold *int   `json:"visitThreshold,omitempty"`
	DaysThreshold  *int   `json:"daysThreshold,omitempty"`
}

type RemainingPeriod struct {
	From        string `json:"from"`
	ToExclusive string `json:"toExclusive"`
	Timezone    string `json:"timezone"`
}

type RemainingUsage struct {
	TotalVisits     int `json:"totalVisits"`
	UsedVisits      int `json:"usedVisits"`
	RemainingVisits int `json:"remainingVisits"`
}

type RemainingDays struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	Remaining int `json:"remaining"`
}

type RemainingResponse struct {
	SubscriptionID int64           `json:"subscriptionId"`
	Plan           PlanKey         `json:"plan"`
	Period         RemainingPeriod `json:"period"`
	Usage          RemainingUsage  `json:"usage"`
	Days           RemainingDays   `json:"days"`
	NearExpiry     bool            `json:"nearExpiry"`
}

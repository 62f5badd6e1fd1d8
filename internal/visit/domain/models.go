// Package domain contains the visit collection and the reference data the
// reporting layer joins against. The reporting core reads these rows; it
// never creates or mutates them.
package domain

import "time"

// DisplayTimezone is the product's fixed display zone. Hour-of-day and
// day-of-week bucketing must use this zone regardless of server locale.
const DisplayTimezone = "Asia/Riyadh"

// DisplayLocation returns the fixed display zone. Asia/Riyadh has no DST,
// so a fixed UTC+3 zone is an exact fallback when tzdata is unavailable.
func DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(DisplayTimezone)
	if err != nil {
		return time.FixedZone("AST", 3*60*60)
	}
	return loc
}

// Visit is one check-in. VisitDate carries the calendar day at local
// midnight; CheckedInAt is the precise timestamp used for hourly analytics.
// Uniqueness per (user, gym, day) is enforced at check-in time.
type Visit struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	UserID         int64      `gorm:"not null;index" json:"userId"`
	GymID          int64      `gorm:"not null;index" json:"gymId"`
	BranchID       *int64     `gorm:"index" json:"branchId"`
	SubscriptionID *int64     `gorm:"index" json:"subscriptionId"`
	VisitDate      time.Time  `gorm:"not null;index" json:"visitDate"`
	CheckedInAt    *time.Time `gorm:"index" json:"checkedInAt"`
	Method         string     `gorm:"type:text" json:"method"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (Visit) TableName() string { return "visits" }

// Gym carries the per-visit rate used to derive revenue and dues.
type Gym struct {
	ID         int64    `gorm:"primaryKey" json:"id"`
	Name       string   `gorm:"type:text;not null" json:"name"`
	VisitPrice *float64 `json:"visitPrice"`
}

func (Gym) TableName() string { return "gyms" }

type Branch struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	GymID int64  `gorm:"not null;index" json:"gymId"`
	Name  string `gorm:"type:text;not null" json:"name"`
}

func (Branch) TableName() string { return "branches" }

type User struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:text" json:"name"`
	Email string `gorm:"type:text" json:"email"`
}

func (User) TableName() string { return "users" }

type Subscription struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:text" json:"name"`
	Level string `gorm:"type:text" json:"level"`
}

func (Subscription) TableName() string { return "subscriptions" }

// UserSubscription is the entitlement window with the visit cap. EndDate
// is exclusive.
type UserSubscription struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;index" json:"userId"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscriptionId"`
	StartDate      time.Time `gorm:"not null" json:"startDate"`
	EndDate        time.Time `gorm:"not null" json:"endDate"`
	VisitLimit     int       `gorm:"not null" json:"visitLimit"`
	Status         string    `gorm:"type:text;not null" json:"status"`
}

func (UserSubscription) TableName() string { return "user_subscriptions" }

const StatusActive = "active"

// Package identity resolves the caller once at the HTTP boundary into a
// typed identity. Handlers downstream receive already-authorized scope and
// never re-interpret token claims.
package identity

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Tier is the caller's permission level.
type Tier string

const (
	TierPlatformAdmin Tier = "platform_admin"
	TierGymAdmin      Tier = "gym_admin"
	TierEndUser       Tier = "end_user"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Caller is the resolved identity variant. Exactly one scope field is
// meaningful per tier: GymID/BranchID for gym admins, UserID for end users.
type Caller struct {
	Tier     Tier
	GymID    int64
	BranchID *int64
	UserID   int64
}

func (c Caller) IsPlatformAdmin() bool { return c.Tier == TierPlatformAdmin }
func (c Caller) IsGymAdmin() bool      { return c.Tier == TierGymAdmin }
func (c Caller) IsEndUser() bool       { return c.Tier == TierEndUser }

const contextKey = "identity.caller"

// FromContext returns the caller resolved by the middleware.
func FromContext(c *gin.Context) (Caller, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := value.(Caller)
	return caller, ok
}

func setCaller(c *gin.Context, caller Caller) {
	c.Set(contextKey, caller)
}

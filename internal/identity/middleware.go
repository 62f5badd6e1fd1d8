package identity

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the accepted token payload. Role determines which scope
// fields are required.
type Claims struct {
	Role     string `json:"role"`
	GymID    int64  `json:"gymId,omitempty"`
	BranchID *int64 `json:"branchId,omitempty"`
	jwt.RegisteredClaims
}

// Middleware parses the Bearer token and stores the resolved Caller.
// Requests without a valid token are rejected before any handler runs.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := resolve(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"type": "unauthenticated", "message": "invalid or missing token"},
			})
			return
		}
		setCaller(c, caller)
		c.Next()
	}
}

func resolve(header, secret string) (Caller, error) {
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" || raw == header {
		return Caller{}, ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Caller{}, ErrUnauthenticated
	}

	switch claims.Role {
	case "OWNER", "MANAGER", "SUPERVISOR":
		return Caller{Tier: TierPlatformAdmin}, nil
	case "GYM_SUPERVISOR", "RECEPTIONIST":
		if claims.GymID == 0 {
			return Caller{}, ErrUnauthenticated
		}
		return Caller{Tier: TierGymAdmin, GymID: claims.GymID, BranchID: claims.BranchID}, nil
	case "USER":
		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			return Caller{}, ErrUnauthenticated
		}
		return Caller{Tier: TierEndUser, UserID: userID}, nil
	default:
		return Caller{}, ErrUnauthenticated
	}
}

// RequirePlatform admits platform admins only.
func RequirePlatform() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := FromContext(c)
		if !ok || !caller.IsPlatformAdmin() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireGymScope admits platform admins for any gym, and gym admins only
// for the gym named by the gymID resolver.
func RequireGymScope(gymID func(*gin.Context) int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := FromContext(c)
		if !ok {
			abortForbidden(c)
			return
		}
		switch {
		case caller.IsPlatformAdmin():
		case caller.IsGymAdmin() && caller.GymID == gymID(c):
		default:
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireSelf admits the named end user, plus platform and gym admins.
func RequireSelf(userID func(*gin.Context) int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := FromContext(c)
		if !ok {
			abortForbidden(c)
			return
		}
		switch {
		case caller.IsPlatformAdmin() || caller.IsGymAdmin():
		case caller.IsEndUser() && caller.UserID == userID(c):
		default:
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": gin.H{"type": "forbidden", "message": "insufficient permissions"},
	})
}

// SignToken issues an HMAC token for the given claims. Used by seeds and
// tests; production token issuance lives in the auth service.
func SignToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

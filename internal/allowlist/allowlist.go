package allowlist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker reports trusted users whose held submissions are admitted without review
type Checker struct {
	users  map[string]struct{}
	logger *zap.Logger
}

// NewChecker creates a new allowlist checker
func NewChecker(users []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(users))
	names := make([]string, 0, len(users))
	for _, user := range users {
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		if _, dup := normalized[user]; !dup {
			normalized[user] = struct{}{}
			names = append(names, user)
		}
	}

	if len(names) > 0 && logger != nil {
		logger.Info("Initialized allowlist checker", zap.Strings("users", names))
	}

	return &Checker{
		users:  normalized,
		logger: logger,
	}
}

// IsAllowed checks if the user is on the allowlist. User IDs are case sensitive.
func (c *Checker) IsAllowed(userID string) bool {
	if len(c.users) == 0 {
		return false
	}

	if _, ok := c.users[strings.TrimSpace(userID)]; ok {
		if c.logger != nil {
			c.logger.Debug("User is allowlisted", zap.String("user_id", userID))
		}
		return true
	}

	return false
}

// Len returns the number of allowlisted users
func (c *Checker) Len() int {
	return len(c.users)
}

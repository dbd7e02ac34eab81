package models

import (
	"strings"
	"time"
)

// Permissions understood by the admin API
const (
	PermCatalogRead  = "catalog:read"
	PermCatalogWrite = "catalog:write"
)

// ApiClient is a caller of the admin API, identified by its API key
type ApiClient struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	ApiKey      string     `json:"-"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	Permissions []string   `json:"permissions"`
}

// HasPermission reports whether the client is active and holds the permission.
// "*" grants everything and "catalog:*" grants every catalog permission.
func (c *ApiClient) HasPermission(required string) bool {
	if c == nil || !c.IsActive {
		return false
	}

	resource, _, _ := strings.Cut(required, ":")
	for _, perm := range c.Permissions {
		switch perm {
		case "*", required, resource + ":*":
			return true
		}
	}
	return false
}

// MaskedApiKey returns a log-safe prefix of the key
func (c *ApiClient) MaskedApiKey() string {
	return MaskKey(c.ApiKey)
}

// MaskKey keeps the first 8 characters of an API key
func MaskKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:8] + "..."
}

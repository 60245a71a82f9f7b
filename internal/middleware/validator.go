package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

var (
	tenantPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	subredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)
)

// MaxCompetitorRunes bounds the product name typed by the user.
const MaxCompetitorRunes = 100

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}
	if !tenantPattern.MatchString(tenant) {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateCompetitor checks an already sanitized product name.
func ValidateCompetitor(name string) error {
	if name == "" {
		return fmt.Errorf("competitor cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCompetitorRunes {
		return fmt.Errorf("competitor is too long (max %d characters)", MaxCompetitorRunes)
	}
	return nil
}

// NormalizeSubreddit strips an "r/" prefix and validates the community
// name. Empty means all of the site.
func NormalizeSubreddit(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(strings.TrimPrefix(name, "/"), "r/")
	if name == "" {
		return "", nil
	}
	if !subredditPattern.MatchString(name) {
		return "", fmt.Errorf("invalid subreddit name: %s", name)
	}
	return name, nil
}

// ValidateScanID validates scan ID format
func ValidateScanID(scanID string) error {
	if scanID == "" {
		return fmt.Errorf("scan ID cannot be empty")
	}
	if _, err := uuid.Parse(scanID); err != nil {
		return fmt.Errorf("invalid scan ID format")
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateSearchLimit rejects negative post counts. Zero keeps the server
// default; the upper bound is left to the search API.
func ValidateSearchLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("limit cannot be negative")
	}
	return limit, nil
}

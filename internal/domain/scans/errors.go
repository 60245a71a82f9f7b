package scans

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories for an unknown scan id.
var ErrNotFound = errors.New("scan not found")

// ErrMissingCredentials means the Reddit client id/secret are not configured.
var ErrMissingCredentials = errors.New("reddit api credentials not configured")

// NoResultsError means the search returned nothing to analyze.
type NoResultsError struct {
	Competitor string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no posts found about %s", e.Competitor)
}

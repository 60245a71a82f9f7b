package httpserver

import (
	"errors"
	"net/http"

	appscans "github.com/bryanwahyu/roast-radar/internal/application/scans"
	domai "github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/credentials"
	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
	"github.com/bryanwahyu/roast-radar/internal/domain/upstream"
)

const relayHint = "a server-side relay is required"

// requestError is a client input problem.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

type httpError struct {
	status  int
	message string
	hint    string
	// kind labels the failure in metrics.
	kind string
}

// classify maps a pipeline or handler error to its HTTP answer.
func classify(err error) httpError {
	var (
		reqErr    *requestError
		noResults *domain.NoResultsError
		unsup     *domai.UnsupportedProviderError
		authErr   *reddit.AuthError
		parseErr  *domai.ResponseParseError
		transport *upstream.TransportError
		provErr   *domai.ProviderError
		apiErr    *reddit.APIError
		unstored  *credentials.UnstoredProviderError
	)
	msg := err.Error()

	switch {
	case errors.As(err, &reqErr):
		return httpError{http.StatusBadRequest, msg, "", "validation"}
	case errors.Is(err, domain.ErrNotFound):
		return httpError{http.StatusNotFound, msg, "", "not_found"}
	case errors.As(err, &noResults):
		return httpError{http.StatusNotFound, msg, "try a broader time range or another subreddit", "no_results"}
	case errors.Is(err, domain.ErrMissingCredentials):
		return httpError{http.StatusBadRequest, msg, "save the reddit client id and secret first", "credentials"}
	case errors.Is(err, domai.ErrUnknownModel), errors.As(err, &unsup):
		return httpError{http.StatusBadRequest, msg, "", "model"}
	case errors.Is(err, domai.ErrMissingAPIKey):
		return httpError{http.StatusBadRequest, msg, "save an api key for the selected model's provider", "credentials"}
	case errors.Is(err, domai.ErrQuotaExceeded), errors.Is(err, reddit.ErrRateLimited):
		return httpError{http.StatusTooManyRequests, msg, "", "quota"}
	case errors.As(err, &authErr):
		return httpError{http.StatusBadGateway, "reddit authentication failed: " + authErr.Message, "", "auth"}
	case errors.As(err, &parseErr):
		return httpError{http.StatusBadGateway, msg, "", "parse"}
	case errors.As(err, &transport):
		e := httpError{http.StatusBadGateway, msg, "", "transport"}
		if transport.RelayRequired() {
			e.hint = relayHint
		}
		return e
	case errors.As(err, &provErr), errors.As(err, &apiErr):
		return httpError{http.StatusBadGateway, msg, "", "upstream"}
	case errors.As(err, &unstored):
		return httpError{http.StatusBadRequest, msg, "", "credentials"}
	case errors.Is(err, appscans.ErrNoCredentialStore):
		return httpError{http.StatusServiceUnavailable, msg, "", "internal"}
	}
	return httpError{http.StatusInternalServerError, msg, "", "internal"}
}

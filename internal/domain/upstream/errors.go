// Package upstream holds failure types shared by the outbound HTTP adapters.
package upstream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// TransportError wraps a failure to talk to an upstream at all, as opposed to
// an error the upstream returned. Op names the call ("reddit token", "gemini generate").
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RelayRequired reports whether the request never reached the upstream
// (DNS, dial or TLS refusal). Callers then advise routing through a relay.
func (e *TransportError) RelayRequired() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(e.Err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(e.Err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(e.Err, &certErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	return errors.As(e.Err, &recordErr)
}

// NewTransportError builds a TransportError, unwrapping *url.Error so the
// operation and target are reported once.
func NewTransportError(op, target string, err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &TransportError{Op: op, URL: uerr.URL, Err: uerr.Err}
	}
	return &TransportError{Op: op, URL: target, Err: err}
}

package remote

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/studio-b12/gowebdav"
)

var (
	// ErrNoSession means the operation requires an active session.
	ErrNoSession = errors.New("not connected to a server")

	// ErrAuth means the server rejected the credentials.
	ErrAuth = errors.New("authentication failed")

	// ErrRemoteNotFound means the remote path does not exist.
	ErrRemoteNotFound = errors.New("remote path not found")

	// ErrPermission means the server refused access to the path.
	ErrPermission = errors.New("access denied")

	// ErrUnreachable means the host could not be resolved or reached.
	ErrUnreachable = errors.New("server unreachable")

	// ErrTLS means certificate trust could not be established.
	ErrTLS = errors.New("certificate not trusted")

	// ErrTimeout means a bounded operation exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrSuperseded means a newer connect attempt replaced this one while
	// its probe was in flight. The attempt's result was discarded.
	ErrSuperseded = errors.New("connect attempt superseded")
)

// Classify maps a transport-level failure onto the user-facing taxonomy. The
// result is advisory only: callers use it for messaging and must not branch
// on it. Unrecognized errors come back unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified
	for _, sentinel := range []error{ErrNoSession, ErrAuth, ErrRemoteNotFound, ErrPermission, ErrUnreachable, ErrTLS, ErrTimeout} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ErrTimeout
	}

	if gowebdav.IsErrCode(err, http.StatusUnauthorized) {
		return ErrAuth
	}
	if gowebdav.IsErrCode(err, http.StatusForbidden) {
		return ErrPermission
	}
	if gowebdav.IsErrNotFound(err) {
		return ErrRemoteNotFound
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrUnreachable
	}

	var unknownAuth x509.UnknownAuthorityError
	var certInvalid x509.CertificateInvalidError
	var hostname x509.HostnameError
	var record tls.RecordHeaderError
	if errors.As(err, &unknownAuth) || errors.As(err, &certInvalid) || errors.As(err, &hostname) || errors.As(err, &record) {
		return ErrTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrUnreachable
	}

	return err
}

// StatusToError maps an unexpected HTTP status onto the taxonomy. Used by
// transfer paths that speak plain HTTP instead of the WebDAV handle.
func StatusToError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrAuth
	case http.StatusForbidden:
		return ErrPermission
	case http.StatusNotFound:
		return ErrRemoteNotFound
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

// wrapClass attaches the advisory classification as the wrapped error while
// keeping the raw transport text in the message for diagnostics.
func wrapClass(err error, op string) error {
	class := Classify(err)
	if class == nil {
		return nil
	}
	if errors.Is(err, class) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", class, op, err)
}

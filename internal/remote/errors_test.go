package remote

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/studio-b12/gowebdav"
)

func davStatus(code int) error {
	return &os.PathError{Op: "PROPFIND", Path: "/", Err: gowebdav.StatusError{Status: code}}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"nil", nil, nil},
		{"deadline", context.DeadlineExceeded, ErrTimeout},
		{"wrapped deadline", fmt.Errorf("list /: %w", context.DeadlineExceeded), ErrTimeout},
		{"401", davStatus(401), ErrAuth},
		{"403", davStatus(403), ErrPermission},
		{"404", davStatus(404), ErrRemoteNotFound},
		{"dns", &net.DNSError{Err: "no such host", Name: "a.test"}, ErrUnreachable},
		{"refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, ErrUnreachable},
		{"tls", x509.UnknownAuthorityError{}, ErrTLS},
		{"already classified", fmt.Errorf("connect: %w", ErrTimeout), ErrTimeout},
	}

	for _, tc := range tests {
		got := Classify(tc.err)
		if got != tc.expected {
			t.Errorf("%s: Classify() = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestClassifyUnknownPassesThrough(t *testing.T) {
	err := errors.New("something odd")
	if got := Classify(err); got != err {
		t.Errorf("Expected unknown error unchanged, got %v", got)
	}
}

func TestStatusToError(t *testing.T) {
	tests := []struct {
		code     int
		expected error
	}{
		{401, ErrAuth},
		{403, ErrPermission},
		{404, ErrRemoteNotFound},
	}
	for _, tc := range tests {
		if got := StatusToError(tc.code); !errors.Is(got, tc.expected) {
			t.Errorf("StatusToError(%d) = %v, expected %v", tc.code, got, tc.expected)
		}
	}
	if err := StatusToError(502); err == nil {
		t.Error("Expected generic error for unexpected status")
	}
}

func TestWrapClassKeepsRawMessage(t *testing.T) {
	err := wrapClass(davStatus(401), "connect https://a.test")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Expected ErrAuth class, got %v", err)
	}
	// Raw transport detail stays in the message for diagnostics
	if msg := err.Error(); len(msg) == 0 || msg == ErrAuth.Error() {
		t.Errorf("Expected raw detail retained, got %q", msg)
	}
}

package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cdrip/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "cdparanoia", "scan", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"cdparanoia", "scan", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrValidation, "wave", "splice", "bad size", nil), 2},
		{fmt.Errorf("load: %w", services.ErrConfiguration), 2},
		{services.Wrap(services.ErrNotFound, "disc", "scan", "no disc", nil), 3},
		{services.Wrap(services.ErrTransient, "disc", "lock", "drive busy", nil), 3},
		{services.Wrap(services.ErrExternalTool, "disc", "scan", "missing", nil), 1},
		{errors.New("plain"), 1},
	}
	for _, tc := range testCases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

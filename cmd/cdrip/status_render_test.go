package main

import (
	"fmt"
	"strings"
	"testing"

	"cdrip/internal/disc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Scan", statusError, "cdparanoia is required", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Scan:", "[ERROR] cdparanoia is required")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Scan", statusOK, "disc scanned", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestScanStatusKind(t *testing.T) {
	tests := []struct {
		code disc.StatusCode
		want statusKind
	}{
		{disc.StatusOK, statusOK},
		{disc.StatusNoDiscInDrive, statusWarn},
		{disc.StatusNotInstalled, statusError},
		{disc.StatusUnknownDrive, statusError},
		{disc.StatusError, statusError},
		{"", statusInfo},
	}
	for _, tt := range tests {
		if got := scanStatusKind(disc.ScanStatus{Code: tt.code}); got != tt.want {
			t.Fatalf("scanStatusKind(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable(tableSpec{
		Title:   "TOC",
		Headers: []string{"Track", "Start"},
		Rows:    [][]string{{"1"}, {"2", "13209"}},
		Footer:  []string{"", "36:12"},
	})
	for _, want := range []string{"13209", "36:12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected table to contain %q:\n%s", want, out)
		}
	}
	if renderTable(tableSpec{}) != "" {
		t.Fatalf("expected empty output without headers")
	}
}

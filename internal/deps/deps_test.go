package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestPathLookupInstalled(t *testing.T) {
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "cdrdao"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	lookup := PathLookup{}
	if !lookup.Installed("cdrdao") {
		t.Fatal("expected cdrdao stub to be found on PATH")
	}
	if lookup.Installed("cd-info") {
		t.Fatal("expected cd-info to be missing")
	}
	if lookup.Installed("") {
		t.Fatal("expected empty name to be reported missing")
	}
}

func TestScannerRequirementsOnlyCdparanoiaMandatory(t *testing.T) {
	for _, req := range ScannerRequirements() {
		if req.Name == "cdparanoia" {
			if req.Optional {
				t.Fatal("cdparanoia must be mandatory")
			}
			continue
		}
		if !req.Optional {
			t.Fatalf("expected %s to be optional", req.Name)
		}
	}
}

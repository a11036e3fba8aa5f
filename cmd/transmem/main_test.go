package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "-version")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout, "transmem") {
		t.Errorf("Version output = %q", stdout)
	}
}

func TestRun_StatsEmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tm.db")

	stdout, _, err := runCLI(t, "-db", db, "-stats")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout, "documents:    0") {
		t.Errorf("Stats output = %q", stdout)
	}
}

func TestRun_HistoryEmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tm.db")

	stdout, _, err := runCLI(t, "-db", db, "-history")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout, "no translations recorded") {
		t.Errorf("History output = %q", stdout)
	}
}

func TestRun_Diff(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "v1.txt")
	newPath := filepath.Join(dir, "v2.txt")
	if err := os.WriteFile(oldPath, []byte("Hello world. This is a test."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, []byte("Hello world. Entirely new content here."), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "-diff", oldPath, newPath)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout, "unchanged: 1") {
		t.Errorf("Diff output = %q", stdout)
	}
	if !strings.Contains(stdout, "Entirely new content here.") {
		t.Errorf("Diff output missing added segment: %q", stdout)
	}
}

func TestRun_DiffRequiresInputFile(t *testing.T) {
	if _, _, err := runCLI(t, "-diff", "old.txt"); err == nil {
		t.Error("Expected error without input file")
	}
}

func TestRun_MissingPair(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tm.db")
	doc := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(doc, []byte("Hello world."), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "-db", db, doc); err == nil {
		t.Error("Expected error without --pair")
	}
}

func TestRun_NoArguments(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tm.db")
	if _, _, err := runCLI(t, "-db", db, "-pair", "en-fr"); err == nil {
		t.Error("Expected error without an input file")
	}
}

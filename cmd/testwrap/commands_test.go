package main

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bebsworthy/testwrap/internal/testutil"
)

func execCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(os.Stderr)
	return cmd.Execute()
}

func TestCommandStructure(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{"run": false, "archive": false, "annotations": false}
	for _, sub := range root.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestArchiveCommand(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("0123456789"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("01234"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	zipPath := filepath.Join(out, "outputs.zip")
	manifestPath := filepath.Join(out, "MANIFEST")

	if err := execCommand(t, "archive", "--out", zipPath, "--manifest", manifestPath, root); err != nil {
		t.Fatalf("archive command failed: %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("archive is not a readable zip: %v", err)
	}
	defer zr.Close() //nolint:errcheck

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	for _, want := range []string{"a.txt", "sub/", "sub/b.txt"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("archive missing entry %q, has %v", want, names)
		}
	}

	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if !strings.Contains(string(manifest), "a.txt\t10\t") {
		t.Errorf("unexpected manifest content: %q", manifest)
	}
}

func TestArchiveCommand_DepthZero(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "deep.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	if err := execCommand(t, "archive", "--out", zipPath, "--depth", "0", root); err != nil {
		t.Fatalf("archive command failed: %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close() //nolint:errcheck
	for _, f := range zr.File {
		if f.Name == "sub/deep.txt" {
			t.Error("depth 0 must not descend into subdirectories")
		}
	}
}

func TestArchiveCommand_MissingRoot(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "out.zip")
	if err := execCommand(t, "archive", "--out", zipPath, filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected an error for a missing root directory")
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	xmlPath := filepath.Join(dir, "test.xml")

	var runErr error
	console, _, err := testutil.CaptureOutput(func() {
		runErr = execCommand(t, "run", "--log", logPath, "--xml", xmlPath, "--name", "probe",
			"--", "sh", "-c", "echo run-probe-output")
	})
	if err != nil {
		t.Fatalf("capturing output: %v", err)
	}
	if runErr != nil {
		t.Fatalf("run command failed: %v", runErr)
	}
	if !strings.Contains(console, "run-probe-output") {
		t.Errorf("console mirror missing test output: %q", console)
	}

	log, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log not written: %v", err)
	}
	if !strings.Contains(string(log), "run-probe-output") {
		t.Errorf("log missing test output: %q", log)
	}

	xmlData, err := os.ReadFile(xmlPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(xmlData), "run-probe-output") {
		t.Errorf("report missing captured output: %q", xmlData)
	}
}

func TestRunCommand_TestFailureExitCode(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	err := execCommand(t, "run", "--log", logPath, "--", "sh", "-c", "exit 7")
	var exitErr *testExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected testExitError, got %v", err)
	}
	if exitErr.code != 7 {
		t.Errorf("expected exit code 7, got %d", exitErr.code)
	}
}

func TestRunCommand_PackagesOutputs(t *testing.T) {
	outputsDir := t.TempDir()
	artifacts := t.TempDir()
	logPath := filepath.Join(artifacts, "test.log")
	zipPath := filepath.Join(artifacts, "outputs.zip")
	manifestPath := filepath.Join(artifacts, "MANIFEST")

	err := execCommand(t, "run",
		"--log", logPath,
		"--outputs-dir", outputsDir,
		"--zip", zipPath,
		"--manifest", manifestPath,
		"--", "sh", "-c", "echo extra-data > \"$0\"/extra.txt", outputsDir)
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("outputs archive not written: %v", err)
	}
	defer zr.Close() //nolint:errcheck
	if len(zr.File) != 1 || zr.File[0].Name != "extra.txt" {
		t.Errorf("unexpected archive contents: %v", zr.File)
	}

	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if !strings.HasPrefix(string(manifest), "extra.txt\t") {
		t.Errorf("unexpected manifest: %q", manifest)
	}
}

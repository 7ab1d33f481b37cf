package bundle

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestMakeSelfContainedAppendsBundleAfterHostBinary(t *testing.T) {
	dir := t.TempDir()
	hostPath := filepath.Join(dir, "lua-host")
	hostBytes := []byte("#!/bin/sh\necho fake host\n")

	if err := os.WriteFile(hostPath, hostBytes, 0o755); err != nil {
		t.Fatalf("WriteFile host: %v", err)
	}

	outputPath := filepath.Join(dir, "app")
	modules := map[string]Module{"main": {Payload: []byte{1, 2, 3}}}

	if err := MakeSelfContained(hostPath, outputPath, modules); err != nil {
		t.Fatalf("MakeSelfContained: %v", err)
	}

	out, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("Open output: %v", err)
	}
	defer out.Close()

	got, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(got["main"].Payload, []byte{1, 2, 3}) {
		t.Fatalf("payload mismatch: %+v", got["main"])
	}

	full, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if !bytes.HasPrefix(full, hostBytes) {
		t.Fatalf("expected output to begin with the host binary bytes")
	}
}

func TestMakeSelfContainedHonorsHostBinaryOverrideEnv(t *testing.T) {
	dir := t.TempDir()

	ignoredPath := filepath.Join(dir, "ignored")
	if err := os.WriteFile(ignoredPath, []byte("ignored"), 0o755); err != nil {
		t.Fatalf("WriteFile ignored: %v", err)
	}

	overridePath := filepath.Join(dir, "override")
	overrideBytes := []byte("override host bytes")

	if err := os.WriteFile(overridePath, overrideBytes, 0o755); err != nil {
		t.Fatalf("WriteFile override: %v", err)
	}

	t.Setenv(HostBinaryOverrideEnv, overridePath)

	outputPath := filepath.Join(dir, "app")
	if err := MakeSelfContained(ignoredPath, outputPath, map[string]Module{}); err != nil {
		t.Fatalf("MakeSelfContained: %v", err)
	}

	full, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if !bytes.HasPrefix(full, overrideBytes) {
		t.Fatalf("expected output to begin with the override host bytes, not ignoredPath's")
	}
}

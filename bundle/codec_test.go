package bundle

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	modules := map[string]Module{
		"m/main": {Payload: []byte{1, 2, 3}, Manifest: []byte{10, 11}},
		"m/util": {Payload: []byte{0x0A}, Manifest: []byte{10, 11}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, modules); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(got))
	}

	if !bytes.Equal(got["m/main"].Payload, []byte{1, 2, 3}) {
		t.Fatalf("m/main payload mismatch: %+v", got["m/main"])
	}

	if !bytes.Equal(got["m/main"].Manifest, []byte{10, 11}) {
		t.Fatalf("m/main manifest mismatch: %+v", got["m/main"])
	}

	if !bytes.Equal(got["m/util"].Payload, []byte{0x0A}) {
		t.Fatalf("m/util payload mismatch: %+v", got["m/util"])
	}

	if !bytes.Equal(got["m/util"].Manifest, []byte{10, 11}) {
		t.Fatalf("m/util manifest mismatch: %+v", got["m/util"])
	}
}

func TestEncodeDecodeModuleWithNoManifest(t *testing.T) {
	modules := map[string]Module{
		"m/bare": {Payload: []byte{9, 9}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, modules); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got["m/bare"].Manifest != nil {
		t.Fatalf("expected nil manifest, got %+v", got["m/bare"].Manifest)
	}
}

func TestDecodeIsPrefixInvariant(t *testing.T) {
	modules := map[string]Module{
		"m": {Payload: []byte{1}, Manifest: []byte{2}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, modules); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	prefix := []byte("#!/bin/sh\nexec lua-host \"$@\"\n\x7fELF\x02\x01garbagegarbage")
	withPrefix := append(append([]byte{}, prefix...), buf.Bytes()...)

	got, err := Decode(bytes.NewReader(withPrefix))
	if err != nil {
		t.Fatalf("Decode with prefix: %v", err)
	}

	if !bytes.Equal(got["m"].Payload, []byte{1}) {
		t.Fatalf("payload mismatch after prefix: %+v", got["m"])
	}
}

func TestEncodeDecodeEmptyBundle(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, map[string]Module{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected empty mapping, got %+v", got)
	}
}

func TestDecodePlainFileIsNotABundle(t *testing.T) {
	plain := bytes.Repeat([]byte{0x00}, 64)

	_, err := Decode(bytes.NewReader(plain))
	if !errors.Is(err, ErrNotABundle) {
		t.Fatalf("expected ErrNotABundle, got %v", err)
	}
}

func TestDecodeShortFileIsNotABundle(t *testing.T) {
	short := []byte{1, 2, 3}

	_, err := Decode(bytes.NewReader(short))
	if !errors.Is(err, ErrNotABundle) {
		t.Fatalf("expected ErrNotABundle, got %v", err)
	}
}

func TestDecodeTruncatedBodyIsCorruptBundle(t *testing.T) {
	modules := map[string]Module{
		"m": {Payload: bytes.Repeat([]byte{0xAB}, 16), Manifest: []byte{1, 2, 3, 4}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, modules); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	raw := buf.Bytes()
	body := raw[:len(raw)-trailerSize]
	trailer := raw[len(raw)-trailerSize:]

	corrupted := append(append([]byte{}, body[:len(body)-3]...), trailer...)

	_, err := Decode(bytes.NewReader(corrupted))
	if !errors.Is(err, ErrCorruptBundle) {
		t.Fatalf("expected ErrCorruptBundle, got %v", err)
	}
}

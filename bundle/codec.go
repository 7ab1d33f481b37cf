// Package bundle implements the binary bundle container format: a
// set of named host-language
// artifacts, each with an optional reference into a deduplicated
// manifest pool, packed into a single appendable file discovered via a
// trailer at EOF.
package bundle

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Module is one bundle entry: a compiled payload plus its optional
// manifest bytes (nil means no manifest, encoded as the sentinel pool
// index 0xFFFFFFFF).
type Module struct {
	Payload  []byte
	Manifest []byte
}

// ErrNotABundle means the trailer magic was absent — a probe result,
// not a hard failure: an embedded-bundle loader may
// treat this as "no embedded bundle present" and continue.
var ErrNotABundle = errors.New("bundle: not a bundle")

// ErrCorruptBundle means a valid trailer was found but a record or the
// manifest pool that follows it is inconsistent or truncated.
var ErrCorruptBundle = errors.New("bundle: corrupt bundle")

const (
	magic         = "LUL!"
	trailerSize   = 20
	noManifestIdx = 0xFFFFFFFF
)

// Encode writes modules out as a bundle: records in modules'
// (undefined, reader-must-not-assume-stable) iteration order, then
// the deduplicated manifest pool, then the 20-byte trailer. The body
// is assembled in memory first — total_size must be known before the
// trailer can be written, and bundles hold compiled module text,
// small enough for that to be the cheaper tradeoff.
func Encode(w io.Writer, modules map[string]Module) error {
	pool, indices := buildManifestPool(modules)

	var body []byte
	for name, mod := range modules {
		body = appendRecord(body, name, mod.Payload, indices[name])
	}
	body = appendManifestPool(body, pool)

	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint64(trailer[0:8], uint64(len(body)))
	binary.LittleEndian.PutUint64(trailer[8:16], uint64(len(modules)))
	copy(trailer[16:20], magic)

	if _, err := w.Write(body); err != nil {
		return err
	}

	_, err := w.Write(trailer[:])

	return err
}

// buildManifestPool deduplicates every module's manifest byte-string
// into an ordered pool, returning each module name's resolved pool
// index (or noManifestIdx for modules with no manifest).
func buildManifestPool(modules map[string]Module) ([][]byte, map[string]uint32) {
	pool := make([][]byte, 0)
	seen := make(map[string]uint32)
	indices := make(map[string]uint32, len(modules))

	for name, mod := range modules {
		if mod.Manifest == nil {
			indices[name] = noManifestIdx

			continue
		}

		key := string(mod.Manifest)

		idx, ok := seen[key]
		if !ok {
			idx = uint32(len(pool))
			pool = append(pool, mod.Manifest)
			seen[key] = idx
		}

		indices[name] = idx
	}

	return pool, indices
}

func appendRecord(buf []byte, name string, payload []byte, manifestIdx uint32) []byte {
	var u32 [4]byte
	var u64 [8]byte

	binary.LittleEndian.PutUint32(u32[:], uint32(len(name)))
	buf = append(buf, u32[:]...)
	buf = append(buf, name...)

	binary.LittleEndian.PutUint64(u64[:], uint64(len(payload)))
	buf = append(buf, u64[:]...)
	buf = append(buf, payload...)

	binary.LittleEndian.PutUint32(u32[:], manifestIdx)
	buf = append(buf, u32[:]...)

	return buf
}

func appendManifestPool(buf []byte, pool [][]byte) []byte {
	var u64 [8]byte

	binary.LittleEndian.PutUint64(u64[:], uint64(len(pool)))
	buf = append(buf, u64[:]...)

	for _, m := range pool {
		binary.LittleEndian.PutUint64(u64[:], uint64(len(m)))
		buf = append(buf, u64[:]...)
		buf = append(buf, m...)
	}

	return buf
}

// Decode reads the bundle trailer-first: seek 20
// bytes before EOF, check the magic, then seek to the computed start
// of the record section and parse forward. Any byte prefix preceding
// the record section (an appended-to host executable, or garbage) is
// never inspected, which is what makes the format prefix-invariant.
func Decode(r io.ReadSeeker) (map[string]Module, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}

	if end < trailerSize {
		log.Debugf("bundle: file too short (%d bytes) to carry a trailer", end)
		return nil, ErrNotABundle
	}

	if _, err := r.Seek(end-trailerSize, io.SeekStart); err != nil {
		return nil, err
	}

	var trailer [trailerSize]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, err
	}

	if string(trailer[16:20]) != magic {
		log.Debug("bundle: trailer magic absent, treating as not a bundle")
		return nil, ErrNotABundle
	}

	totalSize := binary.LittleEndian.Uint64(trailer[0:8])
	moduleCount := binary.LittleEndian.Uint64(trailer[8:16])

	bodyStart := end - trailerSize - int64(totalSize)
	if bodyStart < 0 {
		log.Warnf("bundle: trailer reports total_size=%d, overruns file of %d bytes", totalSize, end)
		return nil, ErrCorruptBundle
	}

	if _, err := r.Seek(bodyStart, io.SeekStart); err != nil {
		return nil, err
	}

	br := bufio.NewReader(io.LimitReader(r, int64(totalSize)))

	type pendingRecord struct {
		name        string
		payload     []byte
		manifestIdx uint32
	}

	records := make([]pendingRecord, 0, moduleCount)

	for i := uint64(0); i < moduleCount; i++ {
		name, payload, idx, err := readRecord(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptBundle, err)
		}

		records = append(records, pendingRecord{name, payload, idx})
	}

	pool, err := readManifestPool(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBundle, err)
	}

	out := make(map[string]Module, len(records))

	for _, rec := range records {
		mod := Module{Payload: rec.payload}

		if rec.manifestIdx != noManifestIdx {
			if int(rec.manifestIdx) >= len(pool) {
				return nil, fmt.Errorf("%w: manifest index %d out of range", ErrCorruptBundle, rec.manifestIdx)
			}

			mod.Manifest = pool[rec.manifestIdx]
		}

		out[rec.name] = mod
	}

	return out, nil
}

func readRecord(r io.Reader) (name string, payload []byte, manifestIdx uint32, err error) {
	nameLen, err := readU32(r)
	if err != nil {
		return "", nil, 0, err
	}

	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return "", nil, 0, err
	}

	dataLen, err := readU64(r)
	if err != nil {
		return "", nil, 0, err
	}

	payload = make([]byte, dataLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return "", nil, 0, err
	}

	manifestIdx, err = readU32(r)
	if err != nil {
		return "", nil, 0, err
	}

	return string(nameBytes), payload, manifestIdx, nil
}

func readManifestPool(r io.Reader) ([][]byte, error) {
	count, err := readU64(r)
	if err != nil {
		return nil, err
	}

	pool := make([][]byte, 0, count)

	for i := uint64(0); i < count; i++ {
		length, err := readU64(r)
		if err != nil {
			return nil, err
		}

		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}

		pool = append(pool, data)
	}

	return pool, nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(buf[:]), nil
}

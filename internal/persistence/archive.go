package persistence

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/mini-market/internal/economy"
)

// archiveVersion is written in the header line of every archive.
const archiveVersion = 1

// ArchiveHeader is the first line of an archive.
type ArchiveHeader struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id,omitempty"`
	Seed    int64  `json:"seed"`
}

// ArchiveWriter records every tick's snapshot as zstd-compressed JSON lines.
// The database keeps sampled history; the archive keeps all of it.
type ArchiveWriter struct {
	f   *os.File
	enc *zstd.Encoder
	bw  *bufio.Writer
	je  *json.Encoder
	n   int
}

// CreateArchive creates (or truncates) an archive at path and writes its header.
func CreateArchive(path string, header ArchiveHeader) (*ArchiveWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &ArchiveWriter{f: f, enc: enc}
	w.bw = bufio.NewWriterSize(enc, 64*1024)
	w.je = json.NewEncoder(w.bw)

	header.Version = archiveVersion
	if err := w.je.Encode(header); err != nil {
		w.Close()
		return nil, fmt.Errorf("write archive header: %w", err)
	}
	return w, nil
}

// Append writes one snapshot.
func (w *ArchiveWriter) Append(snap economy.Snapshot) error {
	if err := w.je.Encode(snap); err != nil {
		return fmt.Errorf("archive tick %d: %w", snap.Tick, err)
	}
	w.n++
	return nil
}

// Len returns the number of snapshots appended.
func (w *ArchiveWriter) Len() int { return w.n }

// Close flushes the compressed stream and closes the file.
func (w *ArchiveWriter) Close() error {
	return errors.Join(w.bw.Flush(), w.enc.Close(), w.f.Close())
}

// ReadArchive streams an archive's snapshots to fn in tick order. fn returning
// an error stops the read.
func ReadArchive(path string, fn func(economy.Snapshot) error) (ArchiveHeader, error) {
	var header ArchiveHeader
	f, err := os.Open(path)
	if err != nil {
		return header, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return header, err
	}
	defer dec.Close()

	jd := json.NewDecoder(bufio.NewReaderSize(dec, 64*1024))
	if err := jd.Decode(&header); err != nil {
		return header, fmt.Errorf("read archive header: %w", err)
	}
	if header.Version != archiveVersion {
		return header, fmt.Errorf("archive version %d: unsupported", header.Version)
	}

	for {
		var snap economy.Snapshot
		if err := jd.Decode(&snap); err != nil {
			if errors.Is(err, io.EOF) {
				return header, nil
			}
			return header, fmt.Errorf("read archive: %w", err)
		}
		if err := fn(snap); err != nil {
			return header, err
		}
	}
}

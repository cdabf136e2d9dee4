// Package journal persists broadcast events as zstd-compressed JSON lines,
// one file per engine run, so a session can be replayed from its tick
// sequence.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

type JSONLZstdWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLZstdWriter opens a new journal file under baseDir named by the
// prefix and the current UTC time.
func NewJSONLZstdWriter(baseDir, prefix string) (*JSONLZstdWriter, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir %q: %w", baseDir, err)
	}

	name := fmt.Sprintf("%s-%s.jsonl.zst", prefix, time.Now().UTC().Format("2006-01-02T15-04-05"))
	f, err := os.Create(filepath.Join(baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("journal: create file %q: %w", name, err)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("journal: create zstd writer: %w", err)
	}

	return &JSONLZstdWriter{
		f:   f,
		enc: enc,
		w:   bufio.NewWriter(enc),
	}, nil
}

// Append writes one event as a JSON line.
func (j *JSONLZstdWriter) Append(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("journal: marshal event: %w", err)
	}
	if _, err := j.w.Write(b); err != nil {
		return fmt.Errorf("journal: write event: %w", err)
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("journal: write newline: %w", err)
	}
	return nil
}

// Close flushes and closes the journal file.
func (j *JSONLZstdWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.w.Flush(); err != nil {
		return fmt.Errorf("journal: flush: %w", err)
	}
	if err := j.enc.Close(); err != nil {
		return fmt.Errorf("journal: close zstd writer: %w", err)
	}
	if err := j.f.Close(); err != nil {
		return fmt.Errorf("journal: close file: %w", err)
	}
	return nil
}

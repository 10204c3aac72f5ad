// Package rawlog captures the raw server stream as timestamped JSONL so a
// session can be inspected or replayed offline, exactly as it arrived and
// before any parsing touched it.
package rawlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one captured chunk.
type Entry struct {
	Time  time.Time `json:"time"`
	Chunk string    `json:"chunk"`
}

// Writer appends chunks to a capture file.
type Writer struct {
	f   *os.File
	enc *json.Encoder
}

// Open creates or appends to a capture file.
func Open(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	return &Writer{f: f, enc: json.NewEncoder(f)}, nil
}

// Append records one received chunk.
func (w *Writer) Append(chunk string) error {
	return w.enc.Encode(Entry{Time: time.Now(), Chunk: chunk})
}

// Close closes the capture file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// ReadAll loads every entry of a capture file, in order.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("malformed capture line: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/model"
)

// maxLineSize bounds a single record line when reading the store.
const maxLineSize = 1024 * 1024

// TextStorage keeps movements in a line-oriented text file:
//
//	<id> <timestamp> <amount> <note>
//
// The note is the rest of the line. The file is read whole and rewritten
// whole; concurrent writers are not coordinated.
type TextStorage struct {
	path string
}

// NewTextStorage creates a text store backed by path. The file is not
// touched until Load or Save.
func NewTextStorage(path string) (*TextStorage, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	return &TextStorage{path: path}, nil
}

// Path returns the backing file.
func (s *TextStorage) Path() string {
	return s.path
}

// Load reads every movement from the file.
func (s *TextStorage) Load(ctx context.Context) ([]model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrStoreUnreadable, s.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close store", "path", s.path, "error", closeErr)
		}
	}()

	movements, err := decodeMovements(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	slog.Debug("Loaded movements", "path", s.path, "count", len(movements))
	return movements, nil
}

// Save truncates the file and writes every movement.
func (s *TextStorage) Save(ctx context.Context, movements []model.Movement) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMovements(movements); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to open store for writing: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := encodeMovements(w, movements); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	slog.Debug("Saved movements", "path", s.path, "count", len(movements))
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *TextStorage) Close() error {
	return nil
}

// createTextStore creates an empty store file. It reports false when the
// file already exists.
func createTextStore(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return false, fmt.Errorf("failed to create store directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create store: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to create store: %w", err)
	}
	return true, nil
}

func encodeMovements(w io.Writer, movements []model.Movement) error {
	for _, m := range movements {
		if _, err := fmt.Fprintf(w, "%d %d %f %s\n", m.ID, m.Timestamp, m.Amount, m.Note); err != nil {
			return err
		}
	}
	return nil
}

func decodeMovements(r io.Reader) ([]model.Movement, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var movements []model.Movement
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		m, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", common.ErrStoreCorrupt, lineNo, err)
		}
		movements = append(movements, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnreadable, err)
	}

	return movements, nil
}

// parseRecord decodes one record line. The note keeps inner spaces but not
// the whitespace separating it from the amount.
func parseRecord(line string) (model.Movement, error) {
	var fields [3]string
	rest := line
	for i := range fields {
		rest = strings.TrimLeft(rest, " \t")
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		fields[i], rest = rest[:end], rest[end:]
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Movement{}, fmt.Errorf("bad id %q", fields[0])
	}
	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return model.Movement{}, fmt.Errorf("bad timestamp %q", fields[1])
	}
	amount, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return model.Movement{}, fmt.Errorf("bad amount %q", fields[2])
	}

	return model.Movement{
		ID:        id,
		Timestamp: ts,
		Amount:    amount,
		Note:      strings.TrimLeft(rest, " \t"),
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

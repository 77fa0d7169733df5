package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Header is the first line of every ResultsLog file.
const Header = "Timestamp,FirstName,LastName,Score,TotalQuestions,AnswersJSON"

var ErrLogNotFound = errors.New("results log does not exist")

// ResultsLog is the append-only CSV file holding one row per submission.
// Appends are single write calls on an O_APPEND descriptor and take no
// in-process lock; concurrent rows never interleave but their order is
// unspecified.
type ResultsLog struct {
	path string
}

func NewResultsLog(path string) *ResultsLog {
	return &ResultsLog{path: path}
}

func (l *ResultsLog) Path() string {
	return l.path
}

// Ensure creates the file with its header line when it is missing. It
// reports whether the file was created. The check is not atomic across
// processes; a single server instance is assumed.
func (l *ResultsLog) Ensure() (bool, error) {
	if _, err := os.Stat(l.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat results log: %w", err)
	}

	if err := os.WriteFile(l.path, []byte(Header+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("failed to create results log: %w", err)
	}
	return true, nil
}

// Append writes one already-terminated CSV line with a single write.
func (l *ResultsLog) Append(line []byte) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results log: %w", err)
	}

	_, writeErr := f.Write(line)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to append to results log: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close results log: %w", closeErr)
	}
	return nil
}

// Open returns the file for streaming together with its size. The caller
// closes the file.
func (l *ResultsLog) Open() (*os.File, int64, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, ErrLogNotFound
		}
		return nil, 0, fmt.Errorf("failed to open results log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat results log: %w", err)
	}
	return f, info.Size(), nil
}

// HasRows reports whether the log holds anything beyond its header.
func (l *ResultsLog) HasRows() (bool, error) {
	f, size, err := l.Open()
	if err != nil {
		return false, err
	}
	defer f.Close()

	if size > int64(len(Header)+2) {
		return true, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return false, fmt.Errorf("failed to read results log: %w", err)
	}
	content := strings.TrimRight(string(data), "\r\n")
	return content != "" && content != Header, nil
}

// Rows parses every data row. Lines that do not parse are returned as
// LineErrors alongside the rows that did.
func (l *ResultsLog) Rows() ([]Row, []LineError, error) {
	f, _, err := l.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var (
		rows    []Row
		invalid []LineError
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 || (lineNum == 1 && string(line) == Header) {
			continue
		}

		row, err := ParseRow(string(line))
		if err != nil {
			invalid = append(invalid, LineError{Line: lineNum, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to scan results log: %w", err)
	}
	return rows, invalid, nil
}

type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

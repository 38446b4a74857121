package document

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MaxLineCapacity is the maximum buffer size for reading fragment JSONL
// lines (1MB per line).
const MaxLineCapacity = 1024 * 1024

// ReadFragments reads an ordered fragment list from a JSONL stream.
// Empty lines are skipped; fragments with no kind default to unknown.
func ReadFragments(r io.Reader) ([]Fragment, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	var frags []Fragment
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var f Fragment
		if err := json.Unmarshal(line, &f); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if f.Kind == "" {
			f.Kind = KindUnknown
		}
		if f.Page < 1 {
			f.Page = 1
		}
		frags = append(frags, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fragments: %w", err)
	}

	return frags, nil
}

// ReadFragmentsFile reads fragments from a JSONL file on disk.
func ReadFragmentsFile(path string) ([]Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fragments file: %w", err)
	}
	defer f.Close()
	return ReadFragments(f)
}

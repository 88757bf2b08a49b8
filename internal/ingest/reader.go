package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avelichko/searchcore/internal/engine"
	"github.com/avelichko/searchcore/internal/engine/document"
)

// ReadDocuments parses line-oriented document records from r and adds them to
// the engine. Each line has four pipe-separated fields:
//
//	id|status|rating rating ...|document text
//
// Blank lines and lines starting with '#' are skipped. The ratings field may
// be empty. Parsing stops at the first malformed line or rejected document.
// Returns the number of documents added.
func ReadDocuments(r io.Reader, srv *engine.Server) (int, error) {
	scanner := bufio.NewScanner(r)
	added := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, status, ratings, text, err := parseLine(line)
		if err != nil {
			return added, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := srv.AddDocument(id, text, status, ratings); err != nil {
			return added, fmt.Errorf("line %d: %w", lineNo, err)
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("reading documents: %w", err)
	}
	return added, nil
}

func parseLine(line string) (int, document.Status, []int, string, error) {
	fields := strings.SplitN(line, "|", 4)
	if len(fields) != 4 {
		return 0, 0, nil, "", fmt.Errorf("expected 4 pipe-separated fields, got %d", len(fields))
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, nil, "", fmt.Errorf("parsing document id: %w", err)
	}
	status, err := document.ParseStatus(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, nil, "", err
	}
	var ratings []int
	for _, part := range strings.Fields(fields[2]) {
		rating, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, nil, "", fmt.Errorf("parsing rating %q: %w", part, err)
		}
		ratings = append(ratings, rating)
	}
	return id, status, ratings, fields[3], nil
}

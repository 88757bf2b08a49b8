// Package ingest feeds documents into the engine from external sources: a
// PostgreSQL corpus table or a line-oriented reader.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/avelichko/searchcore/internal/engine"
	"github.com/avelichko/searchcore/internal/engine/document"
	"github.com/avelichko/searchcore/pkg/postgres"
)

// LoadCorpus reads all rows of the corpus_documents table in id order and
// adds them to the engine. Rows that fail validation are logged and skipped;
// the load continues. Returns the number of documents added.
func LoadCorpus(ctx context.Context, db *postgres.Client, srv *engine.Server) (int, error) {
	logger := slog.Default().With("component", "corpus-loader")

	rows, err := db.DB.QueryContext(ctx,
		`SELECT id, body, status, ratings FROM corpus_documents ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("querying corpus documents: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var (
			id      int
			body    string
			status  string
			ratings []int64
		)
		if err := rows.Scan(&id, &body, &status, pq.Array(&ratings)); err != nil {
			return loaded, fmt.Errorf("scanning corpus row: %w", err)
		}
		docStatus, err := document.ParseStatus(status)
		if err != nil {
			logger.Warn("skipping corpus row with unknown status", "doc_id", id, "status", status)
			continue
		}
		intRatings := make([]int, len(ratings))
		for i, r := range ratings {
			intRatings[i] = int(r)
		}
		if err := srv.AddDocument(id, body, docStatus, intRatings); err != nil {
			logger.Warn("skipping invalid corpus document", "doc_id", id, "error", err)
			continue
		}
		loaded++
	}
	if err := rows.Err(); err != nil {
		return loaded, fmt.Errorf("iterating corpus rows: %w", err)
	}
	logger.Info("corpus loaded", "documents", loaded)
	return loaded, nil
}

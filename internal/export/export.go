// Package export produces the full-store backup archive. The dump is built
// from the records rather than the database file so sqlite and postgres
// deployments export identically.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"inversiones-bot/internal/repository"
)

// Archive returns a zip containing users.json and investments.json with the
// complete store contents.
func Archive(ctx context.Context, store *repository.Store) ([]byte, error) {
	users, err := store.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump users: %w", err)
	}
	investments, err := store.AllInvestments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump investments: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data interface{}
	}{
		{"users.json", users},
		{"investments.json", investments},
	}

	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entry.data); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package datasync copies collections between storage backends, e.g. from JSON files into MySQL.
package datasync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/at-ishikawa/langtutor/internal/store"
)

// ImportResult tracks counts of collections per outcome.
type ImportResult struct {
	New     int
	Skipped int
	Updated int
	Empty   int
	// Records is the number of records written, or that would be written in a dry run.
	Records int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer copies whole collections from one backend to another.
type Importer struct {
	source      store.Backend
	destination store.Backend
	writer      io.Writer
}

// NewImporter creates a new Importer that reports every collection to writer.
func NewImporter(source, destination store.Backend, writer io.Writer) *Importer {
	return &Importer{
		source:      source,
		destination: destination,
		writer:      writer,
	}
}

// Import copies the named collections. A collection already present in the
// destination is kept unless opts.UpdateExisting is set.
func (imp *Importer) Import(ctx context.Context, collections []string, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	for _, collection := range collections {
		if err := imp.importCollection(ctx, collection, opts, &result); err != nil {
			return nil, fmt.Errorf("importCollection(%s) > %w", collection, err)
		}
	}
	return &result, nil
}

func (imp *Importer) importCollection(ctx context.Context, collection string, opts ImportOptions, result *ImportResult) error {
	data, err := imp.source.Read(ctx, collection)
	if err != nil {
		return fmt.Errorf("source.Read() > %w", err)
	}
	count, err := countRecords(data)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintf(imp.writer, "  [EMPTY]  %s\n", collection)
		result.Empty++
		return nil
	}

	existing, err := imp.destination.Read(ctx, collection)
	if err != nil {
		return fmt.Errorf("destination.Read() > %w", err)
	}
	exists := len(bytes.TrimSpace(existing)) > 0
	if exists && !opts.UpdateExisting {
		fmt.Fprintf(imp.writer, "  [SKIP]  %s\n", collection)
		result.Skipped++
		return nil
	}

	if !opts.DryRun {
		if err := imp.destination.Write(ctx, collection, data); err != nil {
			return fmt.Errorf("destination.Write() > %w", err)
		}
	}
	if exists {
		fmt.Fprintf(imp.writer, "  [UPDATE]  %s (%d records)\n", collection, count)
		result.Updated++
	} else {
		fmt.Fprintf(imp.writer, "  [NEW]  %s (%d records)\n", collection, count)
		result.New++
	}
	result.Records += count
	return nil
}

// countRecords checks that data is a JSON array and returns its length.
func countRecords(data []byte) (int, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return 0, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrMalformed, err)
	}
	return len(records), nil
}

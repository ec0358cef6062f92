// ABOUTME: Source importer loads SourceDescriptors from a JSON array
// ABOUTME: Each record is validated on its own; bad records are skipped and reported

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/interfaces"
)

// ImportSummary reports the outcome of an import
type ImportSummary struct {
	Accepted int                             `json:"accepted"`
	Sources  []string                        `json:"sources"`
	Skipped  []*coreerrors.ImportRecordError `json:"-"`
}

// importRecord mirrors the import file format; pointers detect absent fields
type importRecord struct {
	Name     *string `json:"name"`
	URL      *string `json:"url"`
	Icon     *string `json:"icon"`
	Category *string `json:"category"`
	Active   *bool   `json:"active"`
}

// Importer writes imported sources to a SourceStore
type Importer struct {
	store  interfaces.SourceStore
	logger interfaces.Logger
}

// NewImporter creates an importer
func NewImporter(store interfaces.SourceStore, logger interfaces.Logger) *Importer {
	return &Importer{store: store, logger: interfaces.LoggerOrNop(logger)}
}

// ImportFile imports the JSON file at path
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import reads a JSON array of source records. Only an unreadable document
// or a store failure is returned as an error.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &coreerrors.ValidationError{Field: "document", Message: "expected a JSON array of sources: " + err.Error()}
	}

	summary := &ImportSummary{}
	for i, msg := range raw {
		source, recErr := parseRecord(i, msg)
		if recErr != nil {
			summary.Skipped = append(summary.Skipped, recErr)
			im.logger.Warn("Skipping invalid source record", map[string]interface{}{
				"index":  recErr.Index,
				"name":   recErr.Name,
				"reason": recErr.Reason,
			})
			continue
		}

		if err := im.store.SaveSource(ctx, source); err != nil {
			return summary, &coreerrors.StoreError{Op: "save source " + source.Name, Err: err}
		}
		summary.Accepted++
		summary.Sources = append(summary.Sources, source.Name)
		im.logger.Info("Imported source", map[string]interface{}{
			"name":     source.Name,
			"category": source.Category,
			"active":   source.Active,
		})
	}

	im.logger.Info("Source import finished", map[string]interface{}{
		"accepted": summary.Accepted,
		"skipped":  len(summary.Skipped),
	})
	return summary, nil
}

func parseRecord(index int, msg json.RawMessage) (*domain.Source, *coreerrors.ImportRecordError) {
	var rec importRecord
	if err := json.Unmarshal(msg, &rec); err != nil {
		return nil, &coreerrors.ImportRecordError{Index: index, Reason: "not a source object: " + err.Error()}
	}

	name := ""
	if rec.Name != nil {
		name = strings.TrimSpace(*rec.Name)
	}
	fail := func(reason string) *coreerrors.ImportRecordError {
		return &coreerrors.ImportRecordError{Index: index, Name: name, Reason: reason}
	}
	if rec.URL == nil {
		return nil, fail("missing url")
	}
	if rec.Category == nil {
		return nil, fail("missing category")
	}

	source := &domain.Source{
		Name:     name,
		URL:      strings.TrimSpace(*rec.URL),
		Category: strings.TrimSpace(*rec.Category),
		Active:   true,
	}
	if rec.Icon != nil && strings.TrimSpace(*rec.Icon) != "" {
		icon := strings.TrimSpace(*rec.Icon)
		source.Icon = &icon
	}
	if rec.Active != nil {
		source.Active = *rec.Active
	}

	if err := source.Validate(); err != nil {
		return nil, fail(err.Error())
	}
	return source, nil
}

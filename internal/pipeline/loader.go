package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/velocitatem/concordia/internal/model"
)

// Loader reads pipeline inputs from disk: pre-extracted records as JSON, or
// page text awaiting extraction.
type Loader struct{}

// NewLoader creates a new loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecord reads one pre-extracted record from a JSON file. The document
// ID defaults to the file name when the record does not carry one.
func (l *Loader) LoadRecord(path string) (*model.SourceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var rec model.SourceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if rec.DocumentID == "" {
		rec.DocumentID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &rec, nil
}

// LoadRecords reads every record in a list of paths; directories expand to
// their *.json entries.
func (l *Loader) LoadRecords(paths []string) ([]*model.SourceRecord, error) {
	var records []*model.SourceRecord
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			rec, err := l.LoadRecord(path)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", path, err)
		}
		for _, match := range matches {
			rec, err := l.LoadRecord(match)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// LoadPages reads document text for extraction. A .json file holds an array
// of pages; anything else is treated as plain text forming a single page.
func (l *Loader) LoadPages(path string) ([]model.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var pages []model.PageText
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return pages, nil
	}

	return []model.PageText{{Page: 1, Text: string(data)}}, nil
}

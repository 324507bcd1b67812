package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// FileRosterLoader reads a roster from a JSON document on disk.
type FileRosterLoader struct {
	path string
}

// NewFileRosterLoader constructs a loader for the JSON file at path.
func NewFileRosterLoader(path string) *FileRosterLoader {
	return &FileRosterLoader{path: path}
}

// Load decodes the roster file.
func (l *FileRosterLoader) Load(ctx context.Context) (*models.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("roster file %s not found", l.path))
		}
		return nil, fmt.Errorf("read roster file %s: %w", l.path, err)
	}

	var doc rosterDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRoster.Code, appErrors.ErrInvalidRoster.Status, fmt.Sprintf("decode roster file %s", l.path))
	}
	return doc.toRoster()
}

// Key identifies the loaded roster for caching.
func (l *FileRosterLoader) Key() string {
	return string(models.RosterSourceJSON) + ":" + l.path
}

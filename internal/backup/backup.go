// Package backup implements whole-state export and import. An export
// is a byte-for-byte copy of the persisted blob; an import replaces
// the blob wholesale (never merged) after validation.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mindweek/mw/internal/storage"
)

// DefaultFilename is the conventional name of an exported backup.
const DefaultFilename = "journal-backup.json"

// ErrNoData is returned by Export when nothing has been persisted yet.
var ErrNoData = errors.New("no saved data to export")

// Validate checks that data looks like a backup of this application:
// a JSON object containing at least a tasks or journal array. The
// returned errors are user-facing.
func Validate(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid file format (not a JSON object)")
	}

	var probe []json.RawMessage
	if msg, ok := raw["tasks"]; ok && json.Unmarshal(msg, &probe) == nil {
		return nil
	}
	if msg, ok := raw["journal"]; ok && json.Unmarshal(msg, &probe) == nil {
		return nil
	}
	return fmt.Errorf("unrecognized data layout: missing 'tasks' or 'journal' array")
}

// Export writes the current persisted blob to w, byte for byte.
func Export(ctx context.Context, store storage.Store, w io.Writer) error {
	data, ok, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read saved data: %w", err)
	}
	if !ok {
		return ErrNoData
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Import validates data and overwrites the persisted blob with it.
// On validation failure nothing is written and the existing data is
// untouched. The caller is responsible for obtaining explicit user
// confirmation before calling, and for reloading engine state after.
func Import(ctx context.Context, store storage.Store, data []byte) error {
	if err := Validate(data); err != nil {
		return err
	}
	if err := store.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to write imported data: %w", err)
	}
	return nil
}

package backup

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal in-memory storage.Store.
type fakeStore struct {
	data  []byte
	ok    bool
	saves int
}

func (f *fakeStore) Load(ctx context.Context) ([]byte, bool, error) {
	return f.data, f.ok, nil
}

func (f *fakeStore) Save(ctx context.Context, data []byte) error {
	f.saves++
	f.data = append([]byte(nil), data...)
	f.ok = true
	return nil
}

func (f *fakeStore) Close() error { return nil }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"tasks array", `{"tasks": []}`, false},
		{"journal array", `{"journal": []}`, false},
		{"both arrays", `{"tasks": [], "journal": []}`, false},
		{"full shape", `{"tasks":[{"id":"t1","text":"A"}],"habits":[],"journal":[]}`, false},
		{"tasks not an array", `{"tasks": "yes"}`, true},
		{"neither key", `{"foo": 1}`, true},
		{"top-level array", `[1, 2, 3]`, true},
		{"not json", `hello`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExportByteForByte(t *testing.T) {
	ctx := context.Background()
	// Deliberately oddly-formatted blob: export must not reformat.
	blob := []byte("{\"tasks\": [],\n  \"journal\": []}")
	store := &fakeStore{data: blob, ok: true}

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, store, &buf))
	assert.Equal(t, blob, buf.Bytes())
}

func TestExportWithoutData(t *testing.T) {
	store := &fakeStore{}
	var buf bytes.Buffer
	err := Export(context.Background(), store, &buf)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Zero(t, buf.Len())
}

func TestImportReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{data: []byte(`{"tasks":[{"id":"old"}],"journal":[]}`), ok: true}

	incoming := []byte(`{"tasks":[],"journal":[{"id":"j1"}]}`)
	require.NoError(t, Import(ctx, store, incoming))

	// Replace, never merge.
	assert.Equal(t, incoming, store.data)
	assert.Equal(t, 1, store.saves)
}

func TestImportRejectsInvalidWithoutWriting(t *testing.T) {
	ctx := context.Background()
	original := []byte(`{"tasks":[{"id":"keep"}]}`)
	store := &fakeStore{data: original, ok: true}

	err := Import(ctx, store, []byte(`{"foo": 1}`))
	require.Error(t, err)
	assert.Equal(t, original, store.data, "existing data must be untouched on rejection")
	assert.Zero(t, store.saves)
}

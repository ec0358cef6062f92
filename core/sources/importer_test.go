package sources

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
)

const importDoc = `[
  {"name": "AWS", "url": "https://aws.amazon.com/blogs/aws/feed/", "icon": "https://aws.amazon.com/favicon.ico", "category": "cloud"},
  {"name": "Azure", "url": "https://azure.microsoft.com/en-us/blog/feed/", "category": "cloud", "active": false},
  {"name": "No URL", "category": "cloud"},
  {"name": "Bad URL", "url": "not a url", "category": "cloud"},
  {"name": "No category", "url": "https://example.com/feed"},
  "just a string"
]`

func TestImport_SkipsInvalidRecords(t *testing.T) {
	store := &mockSourceStore{}
	var saved []*domain.Source
	store.On("SaveSource", mock.Anything, mock.AnythingOfType("*domain.Source")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*domain.Source)) }).
		Return(nil)

	summary, err := NewImporter(store, nil).Import(context.Background(), strings.NewReader(importDoc))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, []string{"AWS", "Azure"}, summary.Sources)
	require.Len(t, summary.Skipped, 4)
	assert.Equal(t, 2, summary.Skipped[0].Index)
	assert.Equal(t, "No URL", summary.Skipped[0].Name)
	assert.Equal(t, "missing url", summary.Skipped[0].Reason)
	assert.Equal(t, 5, summary.Skipped[3].Index)

	require.Len(t, saved, 2)
	assert.True(t, saved[0].Active, "active defaults to true")
	require.NotNil(t, saved[0].Icon)
	assert.Equal(t, "https://aws.amazon.com/favicon.ico", *saved[0].Icon)
	assert.False(t, saved[1].Active)
	assert.Nil(t, saved[1].Icon)
	store.AssertNumberOfCalls(t, "SaveSource", 2)
}

func TestImport_RejectsNonArray(t *testing.T) {
	store := &mockSourceStore{}
	_, err := NewImporter(store, nil).Import(context.Background(), strings.NewReader(`{"name": "AWS"}`))
	assert.True(t, coreerrors.IsValidation(err))
	store.AssertNotCalled(t, "SaveSource", mock.Anything, mock.Anything)
}

func TestImport_StoreFailureStops(t *testing.T) {
	store := &mockSourceStore{}
	store.On("SaveSource", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	summary, err := NewImporter(store, nil).Import(context.Background(), strings.NewReader(importDoc))
	assert.True(t, coreerrors.IsStore(err))
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Accepted)
	store.AssertNumberOfCalls(t, "SaveSource", 1)
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.json")
	require.NoError(t, os.WriteFile(path, []byte(importDoc), 0o600))

	store := &mockSourceStore{}
	store.On("SaveSource", mock.Anything, mock.Anything).Return(nil)

	summary, err := NewImporter(store, nil).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Accepted)

	_, err = NewImporter(store, nil).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

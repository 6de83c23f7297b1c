package fileproc

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFiles(t *testing.T) {
	files := []string{"a.go", "bb.go", "ccc.go"}

	results, err := MapFiles(context.Background(), files, 2,
		func(_ context.Context, path string) (int, error) {
			return len(path), nil
		}, nil, nil)

	require.NoError(t, err)
	sort.Ints(results)
	assert.Equal(t, []int{4, 5, 6}, results)
}

func TestMapFilesProgressAndErrors(t *testing.T) {
	files := []string{"ok.go", "bad.go", "fine.go"}
	boom := errors.New("boom")

	var progressCalls int
	var failed []string

	results, err := MapFiles(context.Background(), files, 1,
		func(_ context.Context, path string) (string, error) {
			if path == "bad.go" {
				return "", boom
			}
			return path, nil
		},
		func(completed, total int) {
			progressCalls++
			assert.Equal(t, 3, total)
			assert.Equal(t, progressCalls, completed)
		},
		func(path string, err error) {
			failed = append(failed, path)
			assert.ErrorIs(t, err, boom)
		})

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"bad.go"}, failed)
	assert.Equal(t, 3, progressCalls)
}

func TestMapFilesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := make([]string, 100)
	for i := range files {
		files[i] = "f.go"
	}

	var processed int
	results, err := MapFiles(ctx, files, 4,
		func(_ context.Context, path string) (int, error) {
			processed++
			return 0, nil
		}, nil, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Zero(t, processed)
}

func TestMapFilesEmptyInput(t *testing.T) {
	results, err := MapFiles(context.Background(), nil, 4,
		func(_ context.Context, path string) (int, error) { return 0, nil },
		nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

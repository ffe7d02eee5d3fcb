// file: cmd/export_test.go
// version: 1.0.0
// guid: 6b1d9e40-2f7a-4c83-95e8-d3a0c4f71b26

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/asset-store/internal/models"
)

// pagedFetcher serves total assets two per page.
func pagedFetcher(total int, calls *[]int) pageFetcher {
	return func(ctx context.Context, p models.AssetSearchParams) *models.AssetAPIResponse {
		*calls = append(*calls, p.Page)
		resp := models.EmptyResponse(p)
		start := (p.Page - 1) * 2
		for i := start; i < start+2 && i < total; i++ {
			resp.Data = append(resp.Data, models.Asset{ID: fmt.Sprintf("a%d", i), Provider: models.ProviderPexels})
		}
		resp.Total = total
		resp.HasMore = start+2 < total
		return resp
	}
}

func decodeLines(t *testing.T, r io.Reader) []models.Asset {
	t.Helper()
	var out []models.Asset
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var a models.Asset
		require.NoError(t, json.Unmarshal(sc.Bytes(), &a))
		out = append(out, a)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestExportPages_StopsWhenExhausted(t *testing.T) {
	var calls []int
	var out bytes.Buffer
	n, err := exportPages(context.Background(), pagedFetcher(5, &calls), models.AssetSearchParams{Page: 1, PerPage: 2}, 10, &out, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, []int{1, 2, 3}, calls)
	assets := decodeLines(t, &out)
	require.Len(t, assets, 5)
	assert.Equal(t, "a0", assets[0].ID)
	assert.Equal(t, "a4", assets[4].ID)
}

func TestExportPages_RespectsPageLimit(t *testing.T) {
	var calls []int
	n, err := exportPages(context.Background(), pagedFetcher(100, &calls), models.AssetSearchParams{Page: 3, PerPage: 2}, 2, io.Discard, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{3, 4}, calls)
}

func TestExportPages_Failure(t *testing.T) {
	fail := func(ctx context.Context, p models.AssetSearchParams) *models.AssetAPIResponse {
		return models.FailedResponse(p, "unsplash: invalid API key")
	}
	_, err := exportPages(context.Background(), fail, models.AssetSearchParams{Page: 1}, 3, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API key")

	_, err = exportPages(context.Background(), fail, models.AssetSearchParams{Page: 1}, 0, io.Discard, io.Discard)
	assert.Error(t, err)
}

func TestExportPages_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls []int
	_, err := exportPages(ctx, pagedFetcher(10, &calls), models.AssetSearchParams{Page: 1}, 3, io.Discard, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

type closeRecorder struct {
	err    error
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.err
}

func TestCloseOutput(t *testing.T) {
	flushErr := errors.New("disk full")

	c := &closeRecorder{err: flushErr}
	err := closeOutput(c, nil)
	assert.True(t, c.closed)
	assert.ErrorIs(t, err, flushErr)

	writeErr := errors.New("page 1 failed")
	c = &closeRecorder{err: flushErr}
	assert.ErrorIs(t, closeOutput(c, writeErr), writeErr)
	assert.True(t, c.closed)

	assert.NoError(t, closeOutput(&closeRecorder{}, nil))
}

func TestWriteOutput(t *testing.T) {
	write := func(w io.Writer) (int, error) {
		_, err := io.WriteString(w, "{\"id\":\"a0\"}\n")
		return 1, err
	}

	var stdout bytes.Buffer
	n, err := writeOutput("-", &stdout, write)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "{\"id\":\"a0\"}\n", stdout.String())

	path := filepath.Join(t.TempDir(), "assets.jsonl")
	stdout.Reset()
	n, err = writeOutput(path, &stdout, write)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":\"a0\"}\n", string(data))

	_, err = writeOutput(filepath.Join(t.TempDir(), "missing", "out.jsonl"), &stdout, write)
	assert.Error(t, err)
}

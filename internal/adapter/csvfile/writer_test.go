package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/xmrg-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observations() []domain.Observation {
	return []domain.Observation{
		{Geo: domain.Geo{Lat: 24.5, Lon: -105}, LonWest: 105, PrecipMM: 1.25},
		{Geo: domain.Geo{Lat: 90, Lon: -15}, LonWest: 15, PrecipMM: -999, Missing: true},
	}
}

func TestWriter_LoadBatch(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf, nil)

	require.NoError(t, w.LoadBatch(context.Background(), observations()))
	assert.Equal(t, "105,24.5,1.25\n15,90,-999\n", buf.String())
	require.NoError(t, w.Close())
}

func TestWriter_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.LoadBatch(context.Background(), observations()[:1]))
	require.NoError(t, w.Close())

	w, err = NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.LoadBatch(context.Background(), observations()[1:]))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "105,24.5,1.25\n15,90,-999\n", string(data))
}

func TestWriter_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.LoadBatch(ctx, observations()), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestNewWriter_BadPath(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "features.csv"))
	assert.Error(t, err)
}

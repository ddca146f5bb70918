package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHYUIHGY/Otegui-lab/internal/db"
	"github.com/JHYUIHGY/Otegui-lab/internal/fsutil"
	"github.com/JHYUIHGY/Otegui-lab/internal/meta"
	"github.com/JHYUIHGY/Otegui-lab/internal/segment"
)

func seededStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.NewDB(filepath.Join(t.TempDir(), "spots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.RecordSpots(meta.Parse("20X-a_z1c1.tif"), []segment.Measurement{
		{Label: 1, AreaPixels: 12, MeanIntensity: 90, IntegratedIntensity: 1080},
		{Label: 2, AreaPixels: 30, MeanIntensity: 120, IntegratedIntensity: 3600},
	}))
	require.NoError(t, store.RecordSpots(meta.Parse("20X-b_z1c2.tif"), []segment.Measurement{
		{Label: 1, AreaPixels: 48, MeanIntensity: 200, IntegratedIntensity: 9600},
	}))
	return store
}

func TestWriteHTML(t *testing.T) {
	store := seededStore(t)
	fsys := fsutil.NewMemoryFileSystem()

	path := filepath.Join("report", "summary.html")
	require.NoError(t, WriteHTML(fsys, store, "run-1", path))

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	require.Contains(t, html, "Spots per image")
	require.Contains(t, html, "Spot area distribution")
	require.Contains(t, html, "20X-a_z1c1.tif")
}

func TestWriteHTMLEmptyStore(t *testing.T) {
	store, err := db.NewDB(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer store.Close()

	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, WriteHTML(fsys, store, "run-2", "summary.html"))
	require.True(t, fsys.Exists("summary.html"))
}

func TestHistogram(t *testing.T) {
	labels, values := histogram([]float64{1, 1, 2, 10}, 3)
	require.Len(t, labels, 3)
	require.Len(t, values, 3)

	total := 0
	for _, v := range values {
		total += v.Value.(int)
	}
	require.Equal(t, 4, total, "every area lands in exactly one bin")

	// Constant areas collapse to a single bin.
	labels, values = histogram([]float64{7, 7, 7}, 5)
	require.Len(t, labels, 1)
	require.Equal(t, 3, values[0].Value.(int))

	labels, values = histogram(nil, 5)
	require.Nil(t, labels)
	require.Nil(t, values)
}

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/medwaste/classify-be/internal/classifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(n int) classifier.Result {
	return classifier.Result{
		TopCategory: "sharps",
		Confidence:  0.9,
		Filename:    fmt.Sprintf("scan-%d.jpg", n),
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "recent.json"))
	assert.Zero(t, c.Len())
	assert.Empty(t, c.All())
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c := Open(path)
	assert.Zero(t, c.Len())
}

func TestAddNewestFirst(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "recent.json"))

	require.NoError(t, c.Add(result(1)))
	require.NoError(t, c.Add(result(2)))
	require.NoError(t, c.Add(result(3)))

	entries := c.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "scan-3.jpg", entries[0].Filename)
	assert.Equal(t, "scan-1.jpg", entries[2].Filename)
}

func TestAddEvictsPastCapacity(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "recent.json"))

	for i := 1; i <= Capacity+1; i++ {
		require.NoError(t, c.Add(result(i)))
	}

	entries := c.All()
	require.Len(t, entries, Capacity)
	assert.Equal(t, fmt.Sprintf("scan-%d.jpg", Capacity+1), entries[0].Filename)
	// The very first entry aged out.
	assert.Equal(t, "scan-2.jpg", entries[Capacity-1].Filename)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")

	c := Open(path)
	require.NoError(t, c.Add(result(1)))
	require.NoError(t, c.Add(result(2)))

	reopened := Open(path)
	entries := reopened.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "scan-2.jpg", entries[0].Filename)
}

func TestOpenTruncatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")

	var entries []classifier.Result
	for i := 1; i <= Capacity+5; i++ {
		entries = append(entries, result(i))
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	c := Open(path)
	assert.Equal(t, Capacity, c.Len())
}

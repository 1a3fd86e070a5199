package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/classify", r.URL.Path)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "bin.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"top_category": "sharps",
			"confidence": 0.93,
			"all_predictions": [
				{"category": "sharps", "confidence": 0.93},
				{"category": "general", "confidence": 0.07}
			],
			"timestamp": 1756728000.5,
			"filename": "bin.jpg"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Classify(context.Background(), "bin.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "sharps", result.TopCategory)
	assert.InDelta(t, 0.93, result.Confidence, 1e-9)
	require.Len(t, result.AllPredictions, 2)
	assert.Equal(t, "general", result.AllPredictions[1].Category)
}

func TestClassifyServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "unsupported file type"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Classify(context.Background(), "bin.gif", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassificationFailed)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestClassifyServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL)
	_, err := c.Classify(context.Background(), "bin.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrClassificationFailed)
}

func TestCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories": [
			{"name": "sharps", "description": "Needles and blades"},
			{"name": "biohazard", "description": "Infectious material"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	categories, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "sharps", categories[0].Name)
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", c.baseURL)
}

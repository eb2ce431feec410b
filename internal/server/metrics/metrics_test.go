package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPhoto(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordPhoto("attach", "ok")
	m.RecordPhoto("attach", "ok")
	m.RecordPhoto("attach", "skipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.photoOutcome.WithLabelValues("attach", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.photoOutcome.WithLabelValues("attach", "skipped")))
}

func TestRecordPhoto_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordPhoto("attach", "ok")
}

func TestHandler_ExposesPhotoCounter(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.RecordPhoto("detach", "failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `todos_photos_operations_total{operation="detach",outcome="failed"} 1`)
}

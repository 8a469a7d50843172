package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/metrics"
	"github.com/dmitrymomot/formguard/pkg/validation"
)

func TestCollector_Observer(t *testing.T) {
	t.Parallel()

	c := metrics.NewWithRegistry(prometheus.NewRegistry())
	ctx := context.Background()

	c.FieldValidated(ctx, "form", validation.FieldResult{Field: "email", Status: validation.StatusInvalid, Rule: "email"})
	c.FieldValidated(ctx, "form", validation.FieldResult{Field: "name", Status: validation.StatusValid})
	c.FieldValidated(ctx, "form", validation.FieldResult{Field: "email", Status: validation.StatusInvalid, Rule: "email"})
	c.SubmissionFinished(ctx, &validation.Submission{State: validation.StateBlocked}, 2*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.FieldResults.WithLabelValues("invalid", "email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FieldResults.WithLabelValues("valid", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Submissions.WithLabelValues("blocked", "false")))
}

func TestCollector_Reloads(t *testing.T) {
	t.Parallel()

	c := metrics.New()
	c.RecordReload(nil)
	c.RecordReload(errors.New("bad yaml"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.FormReloads))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FormReloadErrors))
	assert.Greater(t, testutil.ToFloat64(c.FormLastReload), 0.0)
}

func TestCollector_Handler(t *testing.T) {
	t.Parallel()

	c := metrics.New()
	c.ObserveRequest(http.MethodPost, "/forms/{form}/submit", http.StatusUnprocessableEntity, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `formguard_http_requests_total{method="POST",route="/forms/{form}/submit",status="422"} 1`)
}

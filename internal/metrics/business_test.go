package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. Uses regex to
// handle extra OTel scope labels injected by the Prometheus exporter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + strings.ReplaceAll(labels, ",", `[^}]*`) + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	return recorder.Body.String()
}

func TestBusinessMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordOperation", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(ctx))
		}()

		bm, err := NewBusinessMetrics(provider.MeterProvider(), "authcore")
		require.NoError(t, err)

		bm.RecordOperation(ctx, "credential", "credential_verify", "success")
		bm.RecordOperation(ctx, "credential", "credential_verify", "success")
		bm.RecordOperation(ctx, "token", "token_consume", "error")

		output := scrape(t, provider)
		assertMetricLine(t, output, "authcore_operations_total",
			`domain="credential",operation="credential_verify",status="success"`, "2")
		assertMetricLine(t, output, "authcore_operations_total",
			`domain="token",operation="token_consume",status="error"`, "1")
	})

	t.Run("Success_RecordDuration", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(ctx))
		}()

		bm, err := NewBusinessMetrics(provider.MeterProvider(), "authcore")
		require.NoError(t, err)

		bm.RecordDuration(ctx, "credential", "credential_verify", 123*time.Millisecond, "success")

		output := scrape(t, provider)
		assertMetricLine(t, output, "authcore_operation_duration_seconds_count",
			`domain="credential",operation="credential_verify",status="success"`, "1")
	})

	t.Run("Success_NoOpDoesNothing", func(t *testing.T) {
		bm := NewNoOpBusinessMetrics()
		bm.RecordOperation(ctx, "credential", "credential_verify", "success")
		bm.RecordDuration(ctx, "credential", "credential_verify", time.Millisecond, "success")
	})
}

package observability

import (
	"context"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestObservability_RecordsToRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	obs, err := New("iaq-workers-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx, span := obs.StartSpan(context.Background(), "evaluate-iaq-risk", attribute.Int64("job.key", 7))
	assert.True(t, span.SpanContext().IsValid())
	obs.RecordJobProcessed(ctx, "evaluate-iaq-risk", "completed")
	obs.RecordJobDuration(ctx, 15*time.Millisecond, "evaluate-iaq-risk", "completed")
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "jobs_processed_total")
	assert.Contains(t, names, "jobs_duration_milliseconds")
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		ctx, span := obs.StartSpan(context.Background(), "noop")
		obs.RecordJobProcessed(ctx, "noop", "completed")
		obs.RecordJobDuration(ctx, time.Second, "noop", "failed")
		span.End()
		assert.NoError(t, obs.Shutdown(ctx))
	})
}

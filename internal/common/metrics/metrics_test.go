package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"iaq-workers/internal/common/errors"
)

func TestRecordJob(t *testing.T) {
	before := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("test-record-job"))
	RecordJob("test-record-job", time.Now(), nil)
	assert.Equal(t, before+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("test-record-job")))

	failed := WorkerJobsFailed.WithLabelValues("test-record-job", "INVALID_INPUT")
	beforeFailed := testutil.ToFloat64(failed)
	RecordJob("test-record-job", time.Now(), errors.NewInvalidInputError("room", "unknown"))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))

	internal := WorkerJobsFailed.WithLabelValues("test-record-job", "INTERNAL_ERROR")
	beforeInternal := testutil.ToFloat64(internal)
	RecordJob("test-record-job", time.Now(), fmt.Errorf("boom"))
	assert.Equal(t, beforeInternal+1, testutil.ToFloat64(internal))
}

func TestRecordAssessment(t *testing.T) {
	counter := AssessmentsTotal.WithLabelValues("test-profile", "High")
	before := testutil.ToFloat64(counter)

	RecordAssessment("test-profile", "High", 11)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestApplicationEvent(t *testing.T) {
	before := testutil.ToFloat64(applicationEvents.WithLabelValues("create"))
	ApplicationEvent("create")
	assert.Equal(t, before+1, testutil.ToFloat64(applicationEvents.WithLabelValues("create")))
}

func TestObserveRequestUnmatched(t *testing.T) {
	ObserveRequest("GET", "", "404", 0.01)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestAuditCleaned(t *testing.T) {
	before := testutil.ToFloat64(auditCleanups)
	AuditCleaned(3)
	assert.Equal(t, before+3, testutil.ToFloat64(auditCleanups))
}

package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHealthTracker_EmptyIsOK(t *testing.T) {
	require.Equal(t, HealthStatusOK, NewHealthTracker().Report().Status)

	var tracker *HealthTracker
	require.Equal(t, HealthStatusOK, tracker.Report().Status)
}

func TestHealthTracker_Lifecycle(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := NewHealthTracker()
	tracker.now = func() time.Time { return now }

	beat := tracker.Register("transport", time.Minute)
	report := tracker.Report()
	require.Equal(t, HealthStatusDegraded, report.Status)
	require.Equal(t, "no heartbeat yet", report.Checks[0].Message)

	beat.Beat()
	require.Equal(t, HealthStatusOK, tracker.Report().Status)

	now = now.Add(2 * time.Minute)
	report = tracker.Report()
	require.Equal(t, HealthStatusDegraded, report.Status)
	require.Equal(t, "heartbeat stale", report.Checks[0].Message)

	beat.Beat()
	beat.Fail(errors.New("listener closed"))
	report = tracker.Report()
	require.Equal(t, HealthStatusDegraded, report.Status)
	require.Equal(t, "listener closed", report.Checks[0].Message)

	beat.Beat()
	beat.Stop()
	require.Equal(t, "stopped", tracker.Report().Checks[0].Message)
}

func TestHealthTracker_ZeroStaleAfterNeverExpires(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := NewHealthTracker()
	tracker.now = func() time.Time { return now }

	tracker.Register("stdio", 0).Beat()
	now = now.Add(24 * time.Hour)

	require.Equal(t, HealthStatusOK, tracker.Report().Status)
}

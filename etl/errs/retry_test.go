package errs

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

func testLogger(t *testing.T) *utils.ETLLogger {
	t.Helper()
	chdir(t, t.TempDir())
	return utils.NewETLLogger(false)
}

// captureSleep replaces the retry sleep with a recorder for the test's
// duration.
func captureSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	original := sleep
	sleep = func(d time.Duration) { waits = append(waits, d) }
	t.Cleanup(func() { sleep = original })
	return &waits
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	waits := captureSleep(t)

	calls := 0
	err := Retry(testLogger(t), nil, Policy{MaxRetries: 3, Delay: time.Second, BackoffFactor: 2}, "op", func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Empty(t, *waits)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	waits := captureSleep(t)

	calls := 0
	err := Retry(testLogger(t), nil, Policy{MaxRetries: 3, Delay: 10 * time.Millisecond, BackoffFactor: 2}, "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *waits)
}

func TestRetryExhaustionRecordsToLedger(t *testing.T) {
	waits := captureSleep(t)
	ledger := NewLedger()

	calls := 0
	cause := Connection(errors.New("refused"), "connect")
	err := Retry(testLogger(t), ledger, Policy{MaxRetries: 2, Delay: 5 * time.Millisecond, BackoffFactor: 2}, "connect_warehouse", func() error {
		calls++
		return cause
	})

	require.Error(t, err)
	require.Equal(t, cause, err, "the final error must propagate unchanged")
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{5 * time.Millisecond, 10 * time.Millisecond}, *waits)

	summary := ledger.Summary()
	require.Equal(t, 1, summary.TotalErrors, "one ledger entry after exhaustion, not one per attempt")
	require.Equal(t, 1, summary.ErrorKinds["connection"])
	require.Equal(t, "connect_warehouse", summary.LatestError.Context["operation"])
	require.Equal(t, 3, summary.LatestError.Context["attempts"])
}

func TestRetryBackoffFloor(t *testing.T) {
	waits := captureSleep(t)

	err := Retry(testLogger(t), nil, Policy{MaxRetries: 2, Delay: 7 * time.Millisecond, BackoffFactor: 0}, "op", func() error {
		return errors.New("always")
	})

	require.Error(t, err)
	require.Equal(t, []time.Duration{7 * time.Millisecond, 7 * time.Millisecond}, *waits,
		"a backoff factor below 1 means a constant delay")
}

func TestRetryZeroRetries(t *testing.T) {
	waits := captureSleep(t)

	calls := 0
	err := Retry(testLogger(t), nil, Policy{}, "op", func() error {
		calls++
		return errors.New("fails")
	})

	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.Empty(t, *waits)
}

// chdir switches the working directory for the test and restores it on
// cleanup; Go 1.24's t.Chdir equivalent for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

package automation_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"tally/internal/automation"
)

func TestResult_ErrorFormats(t *testing.T) {
	result := automation.NewResult("reminder_dispatch")

	result.TenantError("Warung Sederhana", errors.New("query timeout"))
	result.ItemError("booking-1", errors.New("write refused"))

	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []string{
		"Tenant Warung Sederhana: query timeout",
		"Booking booking-1: write refused",
	}, result.Errors)
}

func TestResult_PartialFailureKeepsSuccess(t *testing.T) {
	result := automation.NewResult("no_show_detection")

	result.MarkProcessed()
	result.MarkProcessed()
	result.ItemError("booking-3", errors.New("bad record"))
	result.Finish()

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Message, "processed 2")
	assert.Contains(t, result.Message, "failed 1")
}

func TestResult_AbortMarksFailure(t *testing.T) {
	result := automation.NewResult("auto_confirm")

	result.Abort(errors.New("cannot enumerate tenants"))

	assert.False(t, result.Success)
	assert.Equal(t, "cannot enumerate tenants", result.Message)
	assert.NotZero(t, result.FinishedAt)
}

func TestResult_ConcurrentAppends(t *testing.T) {
	result := automation.NewResult("reminder_dispatch")

	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result.MarkProcessed()
			result.ItemError("booking", errors.New("boom"))
			result.AddChange(automation.FlagSet("booking", "reminder_sent"))
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, result.Processed)
	assert.Equal(t, 50, result.Failed)
	assert.Len(t, result.Errors, 50)
	assert.Len(t, result.Changes, 50)
}

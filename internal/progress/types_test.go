// Package progress_test tests step status strings and step validation.
// Related: internal/progress/types.go
// Tags: progress, types, validation, status
package progress_test

import (
	"testing"

	"github.com/ruleforge/ruleforge/internal/progress"
	"github.com/stretchr/testify/assert"
)

func TestStepStatus_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status progress.StepStatus
		want   string
	}{
		"pending":     {status: progress.StepPending, want: "pending"},
		"in progress": {status: progress.StepInProgress, want: "in_progress"},
		"completed":   {status: progress.StepCompleted, want: "completed"},
		"failed":      {status: progress.StepFailed, want: "failed"},
		"unknown":     {status: progress.StepStatus(42), want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestStepInfo_Validate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		step    progress.StepInfo
		wantErr string
	}{
		"valid":          {step: progress.StepInfo{Name: "load", Number: 1, TotalSteps: 1}},
		"empty name":     {step: progress.StepInfo{Number: 1, TotalSteps: 1}, wantErr: "step name cannot be empty"},
		"zero number":    {step: progress.StepInfo{Name: "x", TotalSteps: 1}, wantErr: "step number must be > 0"},
		"zero total":     {step: progress.StepInfo{Name: "x", Number: 1}, wantErr: "total steps must be > 0"},
		"number > total": {step: progress.StepInfo{Name: "x", Number: 2, TotalSteps: 1}, wantErr: "step number cannot exceed total steps"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := tt.step.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

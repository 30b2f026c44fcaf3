package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatus_IsTerminal(t *testing.T) {
	assert.False(t, RunStatusIdle.IsTerminal())
	assert.False(t, RunStatusRunning.IsTerminal())
	assert.False(t, RunStatusPaused.IsTerminal())
	assert.True(t, RunStatusStopped.IsTerminal())
	assert.True(t, RunStatusCompleted.IsTerminal())
}

func TestRunStatus_IsActive(t *testing.T) {
	assert.False(t, RunStatusIdle.IsActive())
	assert.True(t, RunStatusRunning.IsActive())
	assert.True(t, RunStatusPaused.IsActive())
	assert.False(t, RunStatusStopped.IsActive())
	assert.False(t, RunStatusCompleted.IsActive())
}

func TestProgressSnapshot_SuccessRate(t *testing.T) {
	assert.Equal(t, float64(0), ProgressSnapshot{}.SuccessRate())

	snapshot := ProgressSnapshot{Current: 4, SuccessCount: 3, FailureCount: 1}
	assert.Equal(t, 0.75, snapshot.SuccessRate())
}

func TestAggregateCounts_Merge(t *testing.T) {
	counts := NewAggregateCounts()

	counts.Merge(&AnalysisResult{
		Annotations: []AnnotationSpan{
			{ErrorCode: "SVA", MacroCode: "GRAM"},
			{ErrorCode: "ART", MacroCode: "GRAM"},
		},
	})
	counts.Merge(&AnalysisResult{
		Annotations: []AnnotationSpan{
			{ErrorCode: "SVA", MacroCode: "GRAM"},
		},
	})
	counts.Merge(&AnalysisResult{})

	assert.Equal(t, map[string]int{"SVA": 2, "ART": 1}, counts.ByErrorCode)
	assert.Equal(t, map[string]int{"GRAM": 3}, counts.ByMacroCode)
}

func TestAggregateCounts_Clone(t *testing.T) {
	counts := NewAggregateCounts()
	counts.Merge(&AnalysisResult{
		Annotations: []AnnotationSpan{{ErrorCode: "SVA", MacroCode: "GRAM"}},
	})

	clone := counts.Clone()
	clone.ByErrorCode["SVA"] = 99

	assert.Equal(t, 1, counts.ByErrorCode["SVA"])
	assert.Equal(t, 99, clone.ByErrorCode["SVA"])
}

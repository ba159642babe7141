package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group(size int64, n int) DuplicateGroup {
	files := make([]FileRecord, n)
	for i := range files {
		files[i] = FileRecord{Path: "f", Size: size, ModTime: time.Unix(int64(i), 0)}
	}
	return DuplicateGroup{Files: files}
}

func TestNewRetentionPlanDefaultsToFirstMember(t *testing.T) {
	result := &ScanResult{Groups: []DuplicateGroup{group(100, 3), group(50, 2)}}
	plan := NewRetentionPlan(result)

	require.Len(t, plan.Keep, 2)
	assert.True(t, plan.Keep[0].Contains(1))
	assert.False(t, plan.Keep[0].Contains(2))
	assert.True(t, plan.Keep[1].Contains(1))
}

func TestRetentionPlanCounters(t *testing.T) {
	result := &ScanResult{Groups: []DuplicateGroup{group(100, 3), group(50, 2)}}
	plan := NewRetentionPlan(result)

	assert.Equal(t, 2, plan.KeptCount())
	assert.Equal(t, 3, plan.DeletedCount())
	assert.Equal(t, int64(2*100+1*50), plan.ReclaimedBytes())
}

func TestIndexSetSortedAndString(t *testing.T) {
	s := NewIndexSet(3, 1, 2, 1)
	assert.Equal(t, []int{1, 2, 3}, s.Sorted())
	assert.Equal(t, "[1 2 3]", s.String())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(4))
}

func TestDuplicateGroupSizeOfEmptyGroup(t *testing.T) {
	var g DuplicateGroup
	assert.Equal(t, int64(0), g.Size())
}

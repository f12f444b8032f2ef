package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCPUTime(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		user, system uint
		wantUser     int64
		wantSystem   int64
	}{
		{"no ticks", 0, 0, 0, 0, 0},
		{"user only", 1.5, 150, 0, 1_500_000, 0},
		{"three to one", 2, 150, 50, 1_500_000, 500_000},
		{"rounds to the microsecond", 0.01, 1, 2, 3_333, 6_667},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, system := splitCPUTime(tt.total, tt.user, tt.system)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantSystem, system)
		})
	}
}

func TestProcessSampler_Sample(t *testing.T) {
	st := NewProcessSampler().Sample()
	assert.NotZero(t, st.HeapTotalBytes)
	assert.LessOrEqual(t, st.HeapUsedBytes, st.HeapTotalBytes)
	assert.GreaterOrEqual(t, st.CPUUserMicros, int64(0))
	assert.GreaterOrEqual(t, st.CPUSystemMicros, int64(0))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func window(start, end string) *ShiftWindow {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return &ShiftWindow{StartTime: s, EndTime: e}
}

func TestShiftWindow_Overlaps(t *testing.T) {
	day := window("09:00", "17:00")

	require.True(t, day.Overlaps(window("16:00", "23:00")), "部分重叠")
	require.True(t, day.Overlaps(window("10:00", "12:00")), "完全包含")
	require.True(t, day.Overlaps(window("09:00", "17:00")), "完全相同")

	// 半开区间：一个时段的结束时刻恰好是另一个的开始时刻，不算重叠
	require.False(t, day.Overlaps(window("17:00", "23:00")))
	require.False(t, window("17:00", "23:00").Overlaps(day))
	require.False(t, day.Overlaps(window("07:00", "09:00")))
}

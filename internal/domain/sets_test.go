package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWeekdaySet(t *testing.T) {
	s, err := NewWeekdaySet(1, 3, 5)
	require.NoError(t, err)
	require.True(t, s.Has(1))
	require.False(t, s.Has(2))
	require.True(t, s.Has(3))
	require.True(t, s.Has(5))
	require.Equal(t, []int{1, 3, 5}, s.Values())
}

func TestNewWeekdaySet_RejectsOutOfRange(t *testing.T) {
	_, err := NewWeekdaySet(0)
	require.Error(t, err)

	_, err = NewWeekdaySet(8)
	require.Error(t, err)
}

func TestNewWeekOfMonthSet_RejectsOutOfRange(t *testing.T) {
	_, err := NewWeekOfMonthSet(0)
	require.Error(t, err)

	_, err = NewWeekOfMonthSet(6)
	require.Error(t, err)
}

func TestWeekdaySet_Intersects(t *testing.T) {
	a, err := NewWeekdaySet(1, 2, 3)
	require.NoError(t, err)
	b, err := NewWeekdaySet(3, 4)
	require.NoError(t, err)
	c, err := NewWeekdaySet(5, 6)
	require.NoError(t, err)

	require.True(t, a.Intersects(b))
	require.False(t, a.Intersects(c))
	require.False(t, a.Intersects(WeekdaySet(0)))
}

func TestWeekdaySet_Defaults(t *testing.T) {
	require.Equal(t, []int{1, 2, 3, 4, 5}, DefaultWorkingWeekdays.Values())
	require.Equal(t, []int{1, 2, 3, 4, 5}, AllWeeksOfMonth.Values())
}

func TestWeekdaySet_JSONRoundTrip(t *testing.T) {
	s, err := NewWeekdaySet(2, 4, 7)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `[2,4,7]`, string(data))

	var decoded WeekdaySet
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, s, decoded)
}

func TestWeekdaySet_UnmarshalRejectsInvalid(t *testing.T) {
	var s WeekdaySet
	require.Error(t, json.Unmarshal([]byte(`[0]`), &s))
	require.Error(t, json.Unmarshal([]byte(`[1,8]`), &s))
	require.Error(t, json.Unmarshal([]byte(`"1,2,3"`), &s))
}

func TestWeekOfMonthSet_JSONRoundTrip(t *testing.T) {
	s, err := NewWeekOfMonthSet(1, 5)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `[1,5]`, string(data))

	var decoded WeekOfMonthSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, s, decoded)
}

func TestWeekdaySet_ScanValue(t *testing.T) {
	s, err := NewWeekdaySet(1, 7)
	require.NoError(t, err)

	v, err := s.Value()
	require.NoError(t, err)

	var scanned WeekdaySet
	require.NoError(t, scanned.Scan(v))
	require.Equal(t, s, scanned)

	require.Error(t, scanned.Scan("not-an-int"))
}

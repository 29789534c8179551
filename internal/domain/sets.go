package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// 星期与月内周序均以位掩码存储（第 n 位对应取值 n），
// 避免原先逗号分隔字符串编码带来的解析失败问题。

// WeekdaySet 表示一周内的星期集合，1 = 周一，7 = 周日。
type WeekdaySet uint8

// WeekOfMonthSet 表示月内周序集合，取值 1-5（第 n 周 = ceil(日期/7)）。
type WeekOfMonthSet uint8

const (
	maxWeekday     = 7
	maxWeekOfMonth = 5
)

// DefaultWorkingWeekdays 为周一至周五。
const DefaultWorkingWeekdays WeekdaySet = 0b0011111

// AllWeeksOfMonth 为 1-5 全部周序。
const AllWeeksOfMonth WeekOfMonthSet = 0b11111

func NewWeekdaySet(days ...int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, d := range days {
		if d < 1 || d > maxWeekday {
			return 0, fmt.Errorf("无效的星期 %d", d)
		}
		s |= 1 << (d - 1)
	}
	return s, nil
}

func NewWeekOfMonthSet(weeks ...int) (WeekOfMonthSet, error) {
	var s WeekOfMonthSet
	for _, w := range weeks {
		if w < 1 || w > maxWeekOfMonth {
			return 0, fmt.Errorf("无效的月内周序 %d", w)
		}
		s |= 1 << (w - 1)
	}
	return s, nil
}

func (s WeekdaySet) IsEmpty() bool                      { return s == 0 }
func (s WeekdaySet) Has(day int) bool                   { return day >= 1 && day <= maxWeekday && s&(1<<(day-1)) != 0 }
func (s WeekdaySet) Intersects(other WeekdaySet) bool   { return s&other != 0 }
func (s WeekdaySet) Values() []int                      { return maskValues(uint8(s), maxWeekday) }

func (s WeekOfMonthSet) IsEmpty() bool                       { return s == 0 }
func (s WeekOfMonthSet) Has(week int) bool                   { return week >= 1 && week <= maxWeekOfMonth && s&(1<<(week-1)) != 0 }
func (s WeekOfMonthSet) Intersects(other WeekOfMonthSet) bool { return s&other != 0 }
func (s WeekOfMonthSet) Values() []int                       { return maskValues(uint8(s), maxWeekOfMonth) }

func maskValues(mask uint8, max int) []int {
	values := make([]int, 0, max)
	for v := 1; v <= max; v++ {
		if mask&(1<<(v-1)) != 0 {
			values = append(values, v)
		}
	}
	return values
}

func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}

	parsed, err := NewWeekdaySet(days...)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

func (s WeekOfMonthSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *WeekOfMonthSet) UnmarshalJSON(data []byte) error {
	var weeks []int
	if err := json.Unmarshal(data, &weeks); err != nil {
		return err
	}

	parsed, err := NewWeekOfMonthSet(weeks...)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

func (s WeekdaySet) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *WeekdaySet) Scan(src any) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("无法将 %T 扫描为 WeekdaySet", src)
	}
	*s = WeekdaySet(v)
	return nil
}

func (s WeekOfMonthSet) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *WeekOfMonthSet) Scan(src any) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("无法将 %T 扫描为 WeekOfMonthSet", src)
	}
	*s = WeekOfMonthSet(v)
	return nil
}

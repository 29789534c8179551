package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TimeOfDay 表示一天内的某个时刻，以自零点起的分钟数存储。
// 存储粒度为分钟，不支持跨天（隔夜）时段。
type TimeOfDay int16

const MinutesPerDay = 24 * 60

// ParseTimeOfDay 解析 "HH:MM" 格式的时刻。
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("无效的时刻格式 %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("无效的时刻 %q", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TimeOfDay) Scan(src any) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("无法将 %T 扫描为 TimeOfDay", src)
	}
	*t = TimeOfDay(v)
	return nil
}

package service

import "time"

// Clock 提供当前时间，测试中可替换为固定时钟来模拟跨天、跨周。
type Clock interface {
	Now() time.Time
}

// ClockFunc 允许用普通函数实现 Clock。
type ClockFunc func() time.Time

// Now 返回函数给出的时间。
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock 使用系统时间，Location 为空时使用本地时区。
type SystemClock struct {
	Location *time.Location
}

// Now 返回当前时间。
func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

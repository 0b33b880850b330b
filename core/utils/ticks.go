package utils

import "time"

const (
	// ticksPerSecond is the number of 100ns ticks in one second.
	ticksPerSecond = 10_000_000
	// unixEpochTicks is the tick count at 1970-01-01T00:00:00Z, counted from 0001-01-01.
	unixEpochTicks = 621_355_968_000_000_000
)

// TicksToTime converts a tick count (100ns intervals since 0001-01-01T00:00:00Z) to UTC time.
func TicksToTime(ticks int64) time.Time {
	rel := ticks - unixEpochTicks
	return time.Unix(rel/ticksPerSecond, (rel%ticksPerSecond)*100).UTC()
}

// TimeToTicks converts t to a tick count. Sub-tick precision is truncated.
func TimeToTicks(t time.Time) int64 {
	return t.Unix()*ticksPerSecond + int64(t.Nanosecond()/100) + unixEpochTicks
}

// TicksToTimes converts a slice of tick counts.
func TicksToTimes(ticks []int64) []time.Time {
	out := make([]time.Time, len(ticks))
	for i, t := range ticks {
		out[i] = TicksToTime(t)
	}
	return out
}

package market

import "time"

// Timestamp is a unix-seconds timestamp used by tick data, kept distinct
// from time.Time so ticks can be marshalled and compared compactly.
type Timestamp int64

func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t Timestamp) String() string {
	return t.Time().Format(time.RFC3339)
}

package domain

import (
	"sync/atomic"
	"time"
)

var lastItemID atomic.Int64

// NextItemID returns a unique millisecond-timestamp-shaped item ID. Rapid
// successive calls within the same millisecond bump past the previous value,
// so IDs stay unique within a session.
func NextItemID() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastItemID.Load()
		if now <= last {
			now = last + 1
		}
		if lastItemID.CompareAndSwap(last, now) {
			return now
		}
	}
}

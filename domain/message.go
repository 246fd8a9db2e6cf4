// Package domain contains core concepts of the messenger.
// This file defines Message values and related rules.
// Messages are immutable once constructed.
package domain

import "time"

// Message represents an immutable chat entry.
// Timecode is milliseconds since epoch, assigned once by whichever
// party first constructs the message. It is never regenerated on
// storage or retrieval, so insertion order and timecode order can
// diverge when a client supplies a stale clock.
type Message struct {
	Author   string `json:"author"`
	Content  string `json:"content"`
	Timecode int64  `json:"timecode"`
}

// NowMillis returns the current wall clock in milliseconds since epoch,
// the unit every Timecode carries.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Package api
// Author: momentics@gmail.com
//
// Publish-latest channel between one control writer and one real-time reader.

package api

// Channel is a bounded single-writer/single-reader snapshot channel.
// The reader always sees the most recent publication; intermediate values may
// be skipped.
type Channel[T any] interface {
	// Push publishes a copy of value. Writer side only.
	Push(value T)
	// Pull claims the latest published slot and returns it. The pointer stays
	// valid until the next Pull. Reader side only.
	Pull() *T
	// Fill sets every slot to value. Call before the channel is shared.
	Fill(value T)
	// Slots returns the fixed slot count.
	Slots() int
}

// ChannelStats aggregates channel traffic counters.
type ChannelStats struct {
	Pushes uint64
	Pulls  uint64
}

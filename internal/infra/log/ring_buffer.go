package logs

import (
	"sync"
	"time"
)

// Entry is one formatted log record held for the log viewer.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
}

// Attr is a flattened key/value pair. Group names are folded into Key as "group.key".
type Attr struct {
	Key   string
	Value string
}

// RingBuffer keeps the most recent log entries up to a fixed capacity.
// It is safe for concurrent use.
type RingBuffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewRingBuffer creates a buffer holding at most size entries. Sizes below one are raised to one.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}

	return &RingBuffer{entries: make([]Entry, size)}
}

// Add stores e, evicting the oldest entry once the buffer is full.
func (b *RingBuffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// Entries returns a copy of the buffered entries, newest first.
func (b *RingBuffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.next
	if b.full {
		count = len(b.entries)
	}

	out := make([]Entry, 0, count)
	for i := 1; i <= count; i++ {
		idx := (b.next - i + len(b.entries)) % len(b.entries)
		out = append(out, b.entries[idx])
	}

	return out
}

// Len reports how many entries are currently held.
func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.full {
		return len(b.entries)
	}

	return b.next
}

// Cap reports the buffer capacity.
func (b *RingBuffer) Cap() int {
	return len(b.entries)
}

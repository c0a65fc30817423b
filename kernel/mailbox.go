package kernel

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// MailboxSlots is the capacity of a Mailbox.
const MailboxSlots = 8

// pollInterval bounds how long RecvContext sleeps between empty polls.
const pollInterval = time.Millisecond

// slot.seq is stored relative to the slot index so that a zero Mailbox is
// ready for use: slot i is writable at position i before any traffic.
type slot[T any] struct {
	seq atomic.Uint32
	val T
}

// Mailbox is a fixed-size multi-producer, single-consumer queue.
// It is designed for bare-metal use: producers may run in interrupt context,
// nothing allocates and nothing blocks on the send side.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [MailboxSlots]slot[T]
}

// TrySend attempts to enqueue v, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(v T) bool {
	for {
		head := mb.head.Load()
		i := head % MailboxSlots
		s := &mb.slots[i]
		seq := s.seq.Load() + i
		switch diff := int32(seq - head); {
		case diff == 0:
			// Reserve the slot, then publish it by bumping its sequence.
			if mb.head.CompareAndSwap(head, head+1) {
				s.val = v
				s.seq.Store(head + 1 - i)
				return true
			}
		case diff < 0:
			return false
		}
	}
}

// Send enqueues v, yielding until there is room.
func (mb *Mailbox[T]) Send(v T) {
	for !mb.TrySend(v) {
		runtime.Gosched()
	}
}

// TryRecv attempts to dequeue one value, returning false if none is ready.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	var zero T
	tail := mb.tail.Load()
	i := tail % MailboxSlots
	s := &mb.slots[i]
	if s.seq.Load()+i != tail+1 {
		return zero, false
	}
	v := s.val
	s.val = zero
	mb.tail.Store(tail + 1)
	s.seq.Store(tail + MailboxSlots - i)
	return v, true
}

// Recv blocks until one value is available.
func (mb *Mailbox[T]) Recv() T {
	for {
		v, ok := mb.TryRecv()
		if ok {
			return v
		}
		runtime.Gosched()
	}
}

// RecvContext is Recv with cancellation. Empty polls sleep briefly because
// interrupt producers cannot signal a channel; one ticker serves every poll
// of a call.
func (mb *Mailbox[T]) RecvContext(ctx context.Context) (T, error) {
	if v, ok := mb.TryRecv(); ok {
		return v, nil
	}
	tk := time.NewTicker(pollInterval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-tk.C:
		}
		if v, ok := mb.TryRecv(); ok {
			return v, nil
		}
	}
}

// Len reports the number of queued values. It is approximate while
// producers are active.
func (mb *Mailbox[T]) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}

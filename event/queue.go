package event

import "sync/atomic"

const (
	QueueSize  = 256
	bufferMask = QueueSize - 1
)

// Queue is a lock-free MPSC ring buffer
// Thread-Safety:
//   - Push: lock-free CAS, multiple producers OK (layers, network goroutines)
//   - Consume: single consumer (scene loop)
//   - Published flags prevent reading partial writes
//
// Overflow: oldest events overwritten when full
type Queue struct {
	events    [QueueSize]Event
	published [QueueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push adds an event. Safe for concurrent producers
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & bufferMask
			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			currentHead := q.head.Load()
			if nextTail-currentHead > QueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-QueueSize)
			}
			return
		}
	}
}

// Emit is Push with the fields spelled out
func (q *Queue) Emit(t Type, source string, payload any) {
	q.Push(Event{Type: t, Source: source, Payload: payload})
}

// Consume returns all pending events in FIFO order and advances head
func (q *Queue) Consume() []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()
		if currentTail == currentHead {
			return nil
		}

		available := currentTail - currentHead
		if available > QueueSize {
			available = QueueSize
			currentHead = currentTail - QueueSize
		}

		result := make([]Event, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & bufferMask
			if !q.published[idx].Load() {
				break // writer incomplete
			}
			result = append(result, q.events[idx])
			q.events[idx] = Event{}
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if q.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns the approximate pending count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > QueueSize {
		return QueueSize
	}
	return diff
}

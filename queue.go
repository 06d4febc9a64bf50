package framevk

import "time"

// MaxDrops is the number of file drops kept per poll. Drops beyond it are
// ignored.
const MaxDrops = 4

// EventQueue collects the events of one poll. It implements EventSink.
type EventQueue struct {
	events []Event
	drops  [MaxDrops][]string
	ndrops int
}

// Push appends e.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// PushDrop stores paths in the drop ring and appends a FileDrop event
// referring to it. It reports false when the ring is full.
func (q *EventQueue) PushDrop(paths []string) bool {
	if q.ndrops == MaxDrops {
		return false
	}
	i := q.ndrops
	q.drops[i] = append([]string(nil), paths...)
	q.ndrops++
	q.events = append(q.events, Event{typ: EventFileDrop, u32: uint32(i)})
	return true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int { return len(q.events) }

// take moves the queued events into a Poll and resets the queue.
func (q *EventQueue) take(dt time.Duration) Poll {
	p := Poll{Events: q.events, DT: dt, drops: q.drops}
	q.events = nil
	q.drops = [MaxDrops][]string{}
	q.ndrops = 0
	return p
}

// Poll holds the events observed since the previous poll and the time
// elapsed between both.
type Poll struct {
	Events []Event
	DT     time.Duration

	drops [MaxDrops][]string
}

// Paths returns the paths dropped by e, which must be a FileDrop event of
// this poll.
func (p *Poll) Paths(e Event) []string {
	return p.drops[e.Drop()]
}

// Closed reports whether a Closed event is among the events.
func (p *Poll) Closed() bool {
	for _, e := range p.Events {
		if e.typ == EventClosed {
			return true
		}
	}
	return false
}

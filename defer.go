package framevk

import "github.com/andewx/framevk/driver"

// DeferBuffers is the number of frames a deferred resource outlives the
// frame that pushed it. It exceeds FramesInFlight so that the fence of
// every submission that could reference the resource has been waited on.
const DeferBuffers = 3

// deferQueue delays the destruction of resources still referenced by
// in-flight GPU work.
type deferQueue struct {
	buckets [DeferBuffers][]driver.Destroyer
	cur     int
}

// push defers r to the current bucket.
func (q *deferQueue) push(r driver.Destroyer) {
	q.buckets[q.cur] = append(q.buckets[q.cur], r)
}

// advance rotates to the oldest bucket and destroys its contents, which
// were pushed DeferBuffers advances ago.
func (q *deferQueue) advance() {
	q.cur = (q.cur + 1) % DeferBuffers
	destroyAll(q.buckets[q.cur])
	q.buckets[q.cur] = q.buckets[q.cur][:0]
}

// flush destroys every pending resource, oldest first. The device must be
// idle.
func (q *deferQueue) flush() {
	for i := 1; i <= DeferBuffers; i++ {
		b := (q.cur + i) % DeferBuffers
		destroyAll(q.buckets[b])
		q.buckets[b] = nil
	}
}

func (q *deferQueue) pending() int {
	n := 0
	for _, b := range q.buckets {
		n += len(b)
	}
	return n
}

func destroyAll(rs []driver.Destroyer) {
	for i, r := range rs {
		r.Destroy()
		rs[i] = nil
	}
}

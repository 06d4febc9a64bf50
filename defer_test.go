package framevk

import "testing"

type countDestroyer struct {
	destroyed int
}

func (c *countDestroyer) Destroy() { c.destroyed++ }

func TestDeferQueue_DestroysAfterBuffers(t *testing.T) {
	var q deferQueue
	r := &countDestroyer{}
	q.push(r)
	for i := 1; i < DeferBuffers; i++ {
		q.advance()
		if r.destroyed != 0 {
			t.Fatalf("destroyed after %d advances, want %d", i, DeferBuffers)
		}
	}
	q.advance()
	if r.destroyed != 1 {
		t.Fatalf("destroyed %d times after %d advances, want 1", r.destroyed, DeferBuffers)
	}
	for i := 0; i < 2*DeferBuffers; i++ {
		q.advance()
	}
	if r.destroyed != 1 {
		t.Errorf("destroyed %d times, want 1", r.destroyed)
	}
}

func TestDeferQueue_Buckets(t *testing.T) {
	var q deferQueue
	var rs [DeferBuffers + 1]*countDestroyer
	for i := range rs {
		rs[i] = &countDestroyer{}
		q.push(rs[i])
		q.advance()
		// Only the resource pushed DeferBuffers-1 advances before this
		// one's push is due.
		for j := range rs[:i+1] {
			want := 0
			if i-j >= DeferBuffers-1 {
				want = 1
			}
			if rs[j].destroyed != want {
				t.Errorf("after push %d: resource %d destroyed %d times, want %d", i, j, rs[j].destroyed, want)
			}
		}
	}
	if got, want := q.pending(), DeferBuffers-1; got != want {
		t.Errorf("pending() = %d, want %d", got, want)
	}
}

func TestDeferQueue_Flush(t *testing.T) {
	var q deferQueue
	var rs []*countDestroyer
	for i := 0; i < DeferBuffers; i++ {
		r := &countDestroyer{}
		rs = append(rs, r)
		q.push(r)
		if i < DeferBuffers-1 {
			q.advance()
		}
	}
	q.flush()
	for i, r := range rs {
		if r.destroyed != 1 {
			t.Errorf("resource %d destroyed %d times, want 1", i, r.destroyed)
		}
	}
	if q.pending() != 0 {
		t.Errorf("pending() = %d after flush", q.pending())
	}
	q.advance()
	q.flush()
}

package combat

import "container/heap"

type timer struct {
	at  float64
	seq uint64
	fn  func(now float64)
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x any)   { *q = append(*q, x.(*timer)) }
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	*q = old[:n-1]
	return t
}

// Clock holds one-shot callbacks keyed to simulation time. There is no
// explicit cancel: a callback re-checks whatever it depends on when it fires.
type Clock struct {
	now   float64
	seq   uint64
	queue timerQueue
}

func NewClock(start float64) *Clock { return &Clock{now: start} }

func (c *Clock) Now() float64 { return c.now }

func (c *Clock) Pending() int { return len(c.queue) }

func (c *Clock) After(delay float64, fn func(now float64)) {
	if delay < 0 {
		delay = 0
	}
	c.seq++
	heap.Push(&c.queue, &timer{at: c.now + delay, seq: c.seq, fn: fn})
}

// Advance fires every callback due at or before to, in (time, schedule)
// order. Callbacks scheduled while draining fire in the same call if due.
func (c *Clock) Advance(to float64) {
	for len(c.queue) > 0 && c.queue[0].at <= to {
		t := heap.Pop(&c.queue).(*timer)
		if t.at > c.now {
			c.now = t.at
		}
		t.fn(c.now)
	}
	if to > c.now {
		c.now = to
	}
}

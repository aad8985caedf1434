package touchtime

// Coalescer merges raw pointer positions into samples for sources that
// report one position per event, such as terminal mouse reports. Moves are
// held until Flush, where the newest becomes the sample position and all of
// them, newest included, become its history.
type Coalescer struct {
	pending []Point
	queued  []Sample
}

// Down queues a down sample. Pending moves are flushed first.
func (c *Coalescer) Down(p Point) {
	c.flushMoves()
	c.queued = append(c.queued, Sample{Action: ActionDown, Position: p})
}

// Move records an intermediate position.
func (c *Coalescer) Move(p Point) {
	c.pending = append(c.pending, p)
}

// Up queues an up sample. Pending moves are flushed first.
func (c *Coalescer) Up(p Point) {
	c.flushMoves()
	c.queued = append(c.queued, Sample{Action: ActionUp, Position: p})
}

// Pending reports whether Flush would return anything.
func (c *Coalescer) Pending() bool {
	return len(c.pending) > 0 || len(c.queued) > 0
}

// Flush returns the queued samples in order and empties the coalescer.
func (c *Coalescer) Flush() []Sample {
	c.flushMoves()
	out := c.queued
	c.queued = nil
	return out
}

func (c *Coalescer) flushMoves() {
	n := len(c.pending)
	if n == 0 {
		return
	}
	history := make([]Point, n)
	copy(history, c.pending)
	c.queued = append(c.queued, Sample{
		Action:   ActionMove,
		Position: c.pending[n-1],
		History:  history,
	})
	c.pending = c.pending[:0]
}

package touchtime

import (
	"reflect"
	"testing"
)

func TestCoalescerBatchesMoves(t *testing.T) {
	var c Coalescer
	c.Down(Point{1, 1})
	c.Move(Point{2, 2})
	c.Move(Point{3, 3})
	c.Move(Point{4, 4})

	got := c.Flush()
	want := []Sample{
		{Action: ActionDown, Position: Point{1, 1}},
		{Action: ActionMove, Position: Point{4, 4}, History: []Point{{2, 2}, {3, 3}, {4, 4}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flush() = %+v, want %+v", got, want)
	}
	if c.Pending() {
		t.Error("coalescer should be empty after Flush")
	}
}

func TestCoalescerUpFlushesMoves(t *testing.T) {
	var c Coalescer
	c.Move(Point{5, 5})
	c.Up(Point{6, 6})
	c.Down(Point{7, 7})

	got := c.Flush()
	actions := make([]Action, len(got))
	for i, s := range got {
		actions[i] = s.Action
	}
	want := []Action{ActionMove, ActionUp, ActionDown}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("actions = %v, want %v", actions, want)
	}
}

func TestCoalescerHistoryIsCopied(t *testing.T) {
	var c Coalescer
	c.Move(Point{1, 2})
	first := c.Flush()

	c.Move(Point{9, 9})
	c.Flush()

	if first[0].History[0] != (Point{1, 2}) {
		t.Errorf("history was overwritten: %v", first[0].History)
	}
}

func TestCoalescerEmpty(t *testing.T) {
	var c Coalescer
	if c.Pending() {
		t.Error("new coalescer should have nothing pending")
	}
	if got := c.Flush(); len(got) != 0 {
		t.Errorf("Flush() = %v, want nothing", got)
	}
}

func TestCoalescedDragCrossesHand(t *testing.T) {
	var c Coalescer
	c.Down(Point{90, 50})
	c.Move(Point{95, 50})
	c.Move(Point{120, 50})

	st := NewState()
	g := Geometry{Width: 200, Height: 200}
	var crossed Pattern
	for _, s := range c.Flush() {
		crossed |= Process(st, s, at(3, 0, 0), g).Crossed
	}
	if crossed != PatternMinute {
		t.Errorf("crossed = %v, want minute", crossed)
	}
}

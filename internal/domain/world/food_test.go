package world

import "testing"

func TestFoodSourceConsumeFloorsAtZero(t *testing.T) {
	f := NewFoodSource(Position{X: 1, Y: 1}, 2)
	f.Consume()
	if f.Exhausted() {
		t.Fatalf("exhausted after one of two units")
	}
	f.Consume()
	if !f.Exhausted() || f.Remaining() != 0 {
		t.Fatalf("expected exhausted, remaining=%d", f.Remaining())
	}
	f.Consume()
	if f.Remaining() != 0 {
		t.Fatalf("consume on exhausted source underflowed: %d", f.Remaining())
	}
}

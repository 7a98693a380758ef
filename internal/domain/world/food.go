package world

// FoodSource is a depletable pile of food anchored at one cell.
type FoodSource struct {
	position  Position
	remaining uint
}

func NewFoodSource(pos Position, units uint) *FoodSource {
	return &FoodSource{position: pos, remaining: units}
}

func (f *FoodSource) Position() Position { return f.position }
func (f *FoodSource) Remaining() uint    { return f.remaining }
func (f *FoodSource) Exhausted() bool    { return f.remaining == 0 }

// Consume takes one unit. Consuming an exhausted source does nothing.
func (f *FoodSource) Consume() {
	if f.remaining > 0 {
		f.remaining--
	}
}

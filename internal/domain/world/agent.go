package world

type AgentState string

const (
	StateWandering     AgentState = "wandering"
	StateSeekingFood   AgentState = "seeking_food"
	StateReturningHome AgentState = "returning_home"
)

// Agent is a single forager. The zero value is not useful; agents are
// created by NewWorld.
type Agent struct {
	position  Position
	home      Position
	knownFood Position
	knowsFood bool
	carrying  bool
}

func newAgent(home Position) Agent {
	return Agent{position: home, home: home}
}

func (a Agent) Position() Position { return a.position }
func (a Agent) Home() Position     { return a.home }
func (a Agent) Carrying() bool     { return a.carrying }

// KnownFood reports the remembered food position, if any.
func (a Agent) KnownFood() (Position, bool) {
	return a.knownFood, a.knowsFood
}

func (a Agent) State() AgentState {
	switch {
	case a.carrying:
		return StateReturningHome
	case a.knowsFood:
		return StateSeekingFood
	default:
		return StateWandering
	}
}

// move takes exactly one step according to the current state and reports
// whether the agent delivered food at home on this step.
func (a *Agent) move(rng Rand) (delivered bool) {
	switch a.State() {
	case StateReturningHome:
		a.position = a.position.StepToward(a.home)
		if a.position == a.home {
			a.carrying = false
			return true
		}
	case StateSeekingFood:
		a.position = a.position.StepToward(a.knownFood)
		if a.position == a.knownFood {
			a.forgetFood()
		}
	default:
		a.position = a.position.RandomStep(rng)
	}
	return false
}

func (a *Agent) consume(f *FoodSource) {
	f.Consume()
	a.learnFood(f.Position())
	a.carrying = true
}

func (a *Agent) learnFood(pos Position) {
	a.knownFood = pos
	a.knowsFood = true
}

func (a *Agent) forgetFood() {
	a.knownFood = Position{}
	a.knowsFood = false
}

package combat

// Roster is one team's agents in spawn order. Dead agents stay until the
// coordinator sweeps them, so readers filter on liveness.
type Roster struct {
	Team   Team
	agents []*Agent
}

func NewRoster(team Team) *Roster { return &Roster{Team: team} }

func (r *Roster) Add(a *Agent) {
	for _, x := range r.agents {
		if x == a {
			return
		}
	}
	r.agents = append(r.agents, a)
}

func (r *Roster) Remove(a *Agent) bool {
	for i, x := range r.agents {
		if x == a {
			r.agents = append(r.agents[:i], r.agents[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Roster) Len() int { return len(r.agents) }

// Living returns a fresh slice of the agents still alive.
func (r *Roster) Living() []*Agent {
	out := make([]*Agent, 0, len(r.agents))
	for _, a := range r.agents {
		if !a.dead {
			out = append(out, a)
		}
	}
	return out
}

func (r *Roster) LivingCount() int {
	n := 0
	for _, a := range r.agents {
		if !a.dead {
			n++
		}
	}
	return n
}

// All is a snapshot, safe to iterate while the roster changes.
func (r *Roster) All() []*Agent { return append([]*Agent(nil), r.agents...) }

package engine

import (
	"fmt"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// sessionCtx is the frozen per-session view the optimizers work against:
// roster attributes flattened into index-addressable slices.
type sessionCtx struct {
	session   model.Session
	n         int
	ids       []model.ParticipantID
	positions []model.Position
	labs      [][]string
	min, max  int
	groupNum  int
}

func newSessionCtx(s model.Session) sessionCtx {
	ctx := sessionCtx{
		session:   s,
		n:         len(s.Participants),
		ids:       make([]model.ParticipantID, len(s.Participants)),
		positions: make([]model.Position, len(s.Participants)),
		labs:      make([][]string, len(s.Participants)),
		min:       s.Min,
		max:       s.Max,
		groupNum:  s.GroupNum,
	}
	for i, p := range s.Participants {
		ctx.ids[i] = p.ID
		ctx.positions[i] = p.Position
		ctx.labs[i] = p.Labs
	}
	return ctx
}

func (c *sessionCtx) facultyTotal() int {
	n := 0
	for _, pos := range c.positions {
		if pos == model.Faculty {
			n++
		}
	}
	return n
}

// individual is one candidate solution in index form:
// individual[session][group] lists participant indices into that session's
// roster.
type individual [][][]int

func cloneIndividual(ind individual) individual {
	out := make(individual, len(ind))
	for si, groups := range ind {
		out[si] = make([][]int, len(groups))
		for gi, g := range groups {
			out[si][gi] = append([]int(nil), g...)
		}
	}
	return out
}

// solutionToIndividual converts a domain Solution into index form.
func solutionToIndividual(sol model.Solution, ctxs []sessionCtx) (individual, error) {
	ind := make(individual, len(ctxs))
	for si, ctx := range ctxs {
		indexOf := make(map[model.ParticipantID]int, ctx.n)
		for i, id := range ctx.ids {
			indexOf[id] = i
		}
		groups := sol[si]
		ind[si] = make([][]int, groups.Len())
		for gi, g := range groups.All() {
			idxs := make([]int, 0, len(g.Members))
			for _, p := range g.Members {
				idx, ok := indexOf[p.ID]
				if !ok {
					return nil, fmt.Errorf("participant %s not in session %d roster", p.Name, si+1)
				}
				idxs = append(idxs, idx)
			}
			ind[si][gi] = idxs
		}
	}
	return ind, nil
}

// individualToSolution converts index form back into domain Groups.
func individualToSolution(ind individual, ctxs []sessionCtx) (model.Solution, error) {
	sol := make(model.Solution, len(ind))
	for si, groups := range ind {
		roster := ctxs[si].session.Participants
		gs, err := model.GroupsOf(nil)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			members := make([]model.Participant, 0, len(g))
			for _, idx := range g {
				members = append(members, roster[idx])
			}
			gs, err = gs.Add(model.NewGroup(members))
			if err != nil {
				return nil, err
			}
		}
		sol[si] = gs
	}
	return sol, nil
}

// splitmix64 derives independent, reproducible RNG seeds from a base seed
// and a stream index.
func splitmix64(seed int64, stream int) int64 {
	z := uint64(seed) + uint64(stream)*0x9E3779B97F4A7C15 + 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z)
}

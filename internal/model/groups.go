package model

import (
	"fmt"
	"slices"
)

// Group is one seat assignment inside a session: an identifier plus an
// ordered, duplicate-free member list.
type Group struct {
	ID      GroupID
	Members []Participant
}

// NewGroup builds a group with a generated identifier.
func NewGroup(members []Participant) Group {
	return Group{ID: NewGroupID(), Members: slices.Clone(members)}
}

// Size returns the member count.
func (g Group) Size() int {
	return len(g.Members)
}

// Contains reports membership by participant identifier.
func (g Group) Contains(id ParticipantID) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (g Group) String() string {
	return fmt.Sprintf("Group %s (%d members)", g.ID, len(g.Members))
}

// Groups is an ordered collection of groups with distinct identifiers.
// Insertion order is the observable group order.
type Groups struct {
	groups []Group
}

// GroupsOf wraps the given groups, rejecting duplicate identifiers.
func GroupsOf(groups []Group) (Groups, error) {
	seen := make(map[GroupID]bool, len(groups))
	for _, g := range groups {
		if seen[g.ID] {
			return Groups{}, fmt.Errorf("%w: duplicate group id %s", ErrInvalidInput, g.ID)
		}
		seen[g.ID] = true
	}
	return Groups{groups: slices.Clone(groups)}, nil
}

// Add returns a new collection with g appended.
func (gs Groups) Add(g Group) (Groups, error) {
	for _, existing := range gs.groups {
		if existing.ID == g.ID {
			return Groups{}, fmt.Errorf("%w: duplicate group id %s", ErrInvalidInput, g.ID)
		}
	}
	out := make([]Group, 0, len(gs.groups)+1)
	out = append(out, gs.groups...)
	out = append(out, g)
	return Groups{groups: out}, nil
}

// At returns the group at the given index in insertion order.
func (gs Groups) At(i int) Group {
	return gs.groups[i]
}

// Len returns the number of groups.
func (gs Groups) Len() int {
	return len(gs.groups)
}

// All returns the groups in insertion order. The slice is shared; callers
// must not mutate it.
func (gs Groups) All() []Group {
	return gs.groups
}

// Solution maps session index to the Groups assigned for that session.
type Solution map[int]Groups

// Participants returns every participant appearing in the solution, deduped
// by identifier, in first-seen order across ascending session indices.
func (s Solution) Participants() []Participant {
	var out []Participant
	seen := make(map[ParticipantID]bool)
	for si := 0; si < len(s); si++ {
		for _, g := range s[si].All() {
			for _, p := range g.Members {
				if !seen[p.ID] {
					seen[p.ID] = true
					out = append(out, p)
				}
			}
		}
	}
	return out
}

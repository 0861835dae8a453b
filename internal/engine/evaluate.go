package engine

import (
	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// PairCounts returns, for every unordered pair of participants, the number
// of sessions in which the two shared a group.
func PairCounts(sol model.Solution) map[pairKey]int {
	counts := make(map[pairKey]int)
	for si := 0; si < len(sol); si++ {
		for _, g := range sol[si].All() {
			members := g.Members
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					counts[makePair(members[i].ID, members[j].ID)]++
				}
			}
		}
	}
	return counts
}

// DistinctPartners returns, per participant, the number of distinct other
// participants who shared a group with them in at least one session.
func DistinctPartners(sol model.Solution) map[model.ParticipantID]int {
	partners := make(map[model.ParticipantID]map[model.ParticipantID]bool)
	for si := 0; si < len(sol); si++ {
		for _, g := range sol[si].All() {
			for _, p := range g.Members {
				if partners[p.ID] == nil {
					partners[p.ID] = make(map[model.ParticipantID]bool)
				}
			}
			members := g.Members
			for i := 0; i < len(members); i++ {
				for j := 0; j < len(members); j++ {
					if i != j {
						partners[members[i].ID][members[j].ID] = true
					}
				}
			}
		}
	}
	out := make(map[model.ParticipantID]int, len(partners))
	for id, set := range partners {
		out[id] = len(set)
	}
	return out
}

// PartnerStats summarizes one participant's partner history.
type PartnerStats struct {
	Distinct  int // distinct partners over all sessions
	Total     int // partners counted with repetition
	Duplicate int // distinct partners met more than once
}

// PartnerStatistics computes per-participant partner statistics.
func PartnerStatistics(sol model.Solution) map[model.ParticipantID]PartnerStats {
	stats := make(map[model.ParticipantID]PartnerStats)
	meets := make(map[model.ParticipantID]map[model.ParticipantID]int)
	for si := 0; si < len(sol); si++ {
		for _, g := range sol[si].All() {
			members := g.Members
			for _, p := range members {
				if meets[p.ID] == nil {
					meets[p.ID] = make(map[model.ParticipantID]int)
				}
			}
			for i := 0; i < len(members); i++ {
				for j := 0; j < len(members); j++ {
					if i != j {
						meets[members[i].ID][members[j].ID]++
					}
				}
			}
		}
	}
	for id, byPartner := range meets {
		s := PartnerStats{Distinct: len(byPartner)}
		for _, c := range byPartner {
			s.Total += c
			if c > 1 {
				s.Duplicate++
			}
		}
		stats[id] = s
	}
	return stats
}

// LabOverlaps counts, per participant, how many of their co-assignments
// (with repetition) were with someone sharing a laboratory.
func LabOverlaps(sol model.Solution) map[model.ParticipantID]int {
	overlaps := make(map[model.ParticipantID]int)
	for si := 0; si < len(sol); si++ {
		for _, g := range sol[si].All() {
			members := g.Members
			for _, p := range members {
				if _, ok := overlaps[p.ID]; !ok {
					overlaps[p.ID] = 0
				}
			}
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					if members[i].SharesLab(members[j]) {
						overlaps[members[i].ID]++
						overlaps[members[j].ID]++
					}
				}
			}
		}
	}
	return overlaps
}

// Evaluator scores a complete Solution. Lower is better.
type Evaluator interface {
	Evaluate(sol model.Solution) float64
}

// AverageRepeatEvaluator scores a solution by the mean, over participants,
// of co-assignments with the same partner beyond the first.
type AverageRepeatEvaluator struct{}

// Evaluate implements Evaluator.
func (AverageRepeatEvaluator) Evaluate(sol model.Solution) float64 {
	participants := sol.Participants()
	if len(participants) == 0 {
		return 0
	}
	repeats := make(map[model.ParticipantID]int, len(participants))
	for _, p := range participants {
		repeats[p.ID] = 0
	}
	for pair, c := range PairCounts(sol) {
		if c > 1 {
			repeats[pair.a] += c - 1
			repeats[pair.b] += c - 1
		}
	}
	sum := 0
	for _, v := range repeats {
		sum += v
	}
	return float64(sum) / float64(len(repeats))
}

// TheoreticalMinAvgRepeat computes the information-theoretic lower bound on
// the average repeat per person for the program's session structure:
// max(0, 2*sum_s Q_s/N - (N-1)) where Q_s is the minimum number of pairs a
// session can generate under even group sizes.
func TheoreticalMinAvgRepeat(program model.Program) float64 {
	n := len(program.Participants)
	if n <= 1 {
		return 0
	}
	comb2 := func(k int) int { return k * (k - 1) / 2 }
	qTotal := 0
	for _, s := range program.Sessions {
		g := s.GroupNum
		if g <= 0 {
			continue
		}
		q, r := n/g, n%g
		qTotal += (g-r)*comb2(q) + r*comb2(q+1)
	}
	lb := 2*float64(qTotal)/float64(n) - float64(n-1)
	if lb < 0 {
		return 0
	}
	return lb
}

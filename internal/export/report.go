// Package export renders assignment results: the result JSON document, the
// co-occurrence matrix in CSV/Markdown/XLSX form, a printable PDF report,
// and QR-coded participant badges.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KotaKunori/GroupAssigner/internal/engine"
	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// Report is the serializable result document.
type Report struct {
	Program    [][][]string `json:"program"`
	Evaluation Evaluation   `json:"evaluation"`
}

// Evaluation carries the score block of the result document.
type Evaluation struct {
	AvgRepeatPerPerson        float64               `json:"avg_repeat_per_person"`
	TheoreticalMinAvgRepeat   float64               `json:"theoretical_min_avg_repeat"`
	DistinctPartnersPerPerson map[string]int        `json:"distinct_partners_per_person"`
	PartnerStatistics         map[string]string     `json:"partner_statistics"`
	LabOverlapStatistics      map[string]LabOverlap `json:"lab_overlap_statistics"`
	DistinctPartnersAvg       float64               `json:"distinct_partners_avg"`
	DistinctPartnersVariance  float64               `json:"distinct_partners_variance"`
}

// LabOverlap summarizes one participant's lab collisions.
type LabOverlap struct {
	LabOverlapCount int `json:"lab_overlap_count"`
}

// BuildReport assembles the result document from a scored solution.
// Partner statistics are rendered "distinct/total/duplicate".
func BuildReport(sol model.Solution, program model.Program, score float64) Report {
	nameOf := make(map[model.ParticipantID]string, len(program.Participants))
	for _, p := range program.Participants {
		nameOf[p.ID] = p.Name
	}

	out := make([][][]string, 0, len(sol))
	for si := 0; si < len(sol); si++ {
		session := make([][]string, 0, sol[si].Len())
		for _, g := range sol[si].All() {
			members := make([]string, 0, len(g.Members))
			for _, p := range g.Members {
				members = append(members, fmt.Sprintf("%s(%s)", p.Name, p.Position))
			}
			session = append(session, members)
		}
		out = append(out, session)
	}

	distinct := make(map[string]int)
	for id, c := range engine.DistinctPartners(sol) {
		distinct[nameOf[id]] = c
	}
	stats := make(map[string]string)
	for id, s := range engine.PartnerStatistics(sol) {
		stats[nameOf[id]] = fmt.Sprintf("%d/%d/%d", s.Distinct, s.Total, s.Duplicate)
	}
	overlaps := make(map[string]LabOverlap)
	for id, c := range engine.LabOverlaps(sol) {
		overlaps[nameOf[id]] = LabOverlap{LabOverlapCount: c}
	}

	avg, variance := distinctMoments(distinct)

	return Report{
		Program: out,
		Evaluation: Evaluation{
			AvgRepeatPerPerson:        score,
			TheoreticalMinAvgRepeat:   engine.TheoreticalMinAvgRepeat(program),
			DistinctPartnersPerPerson: distinct,
			PartnerStatistics:         stats,
			LabOverlapStatistics:      overlaps,
			DistinctPartnersAvg:       avg,
			DistinctPartnersVariance:  variance,
		},
	}
}

func distinctMoments(distinct map[string]int) (float64, float64) {
	if len(distinct) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, c := range distinct {
		sum += float64(c)
	}
	mean := sum / float64(len(distinct))
	sq := 0.0
	for _, c := range distinct {
		d := float64(c) - mean
		sq += d * d
	}
	return mean, sq / float64(len(distinct))
}

// SaveReport writes the result document as indented JSON.
func SaveReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReport reads a previously saved result document.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

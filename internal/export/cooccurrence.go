package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// Cooccurrence is the symmetric participant x participant co-assignment
// matrix, keyed by display name.
type Cooccurrence struct {
	Names  []string // sorted
	Counts map[string]map[string]int
}

var memberNamePattern = regexp.MustCompile(`^(.+?)\([^)]+\)$`)

// memberName strips the "(Position)" suffix from a report member string.
func memberName(full string) string {
	if m := memberNamePattern.FindStringSubmatch(full); m != nil {
		return m[1]
	}
	return full
}

// BuildCooccurrence computes the matrix from a result document.
func BuildCooccurrence(report Report) Cooccurrence {
	counts := make(map[string]map[string]int)
	bump := func(a, b string) {
		if counts[a] == nil {
			counts[a] = make(map[string]int)
		}
		counts[a][b]++
	}
	nameSet := make(map[string]bool)
	for _, session := range report.Program {
		for _, group := range session {
			for i := 0; i < len(group); i++ {
				nameSet[memberName(group[i])] = true
				for j := i + 1; j < len(group); j++ {
					a, b := memberName(group[i]), memberName(group[j])
					bump(a, b)
					bump(b, a)
				}
			}
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)
	return Cooccurrence{Names: names, Counts: counts}
}

// WriteCooccurrenceCSV writes the matrix as CSV with "-" on the diagonal.
func WriteCooccurrenceCSV(path string, co Cooccurrence) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"participant"}, co.Names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, name := range co.Names {
		row := make([]string, 0, len(co.Names)+1)
		row = append(row, name)
		for _, other := range co.Names {
			if name == other {
				row = append(row, "-")
			} else {
				row = append(row, fmt.Sprintf("%d", co.Counts[name][other]))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteCooccurrenceMarkdown writes the matrix as a Markdown table.
func WriteCooccurrenceMarkdown(path string, co Cooccurrence) error {
	var b strings.Builder
	b.WriteString("| participant |")
	for _, name := range co.Names {
		fmt.Fprintf(&b, " %s |", name)
	}
	b.WriteString("\n|--------|")
	for range co.Names {
		b.WriteString("--------|")
	}
	b.WriteString("\n")
	for _, name := range co.Names {
		fmt.Fprintf(&b, "| %s |", name)
		for _, other := range co.Names {
			if name == other {
				b.WriteString(" - |")
			} else {
				fmt.Fprintf(&b, " %d |", co.Counts[name][other])
			}
		}
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Summary describes the co-occurrence hot spots for console output.
type Summary struct {
	MaxPair      [2]string
	MaxCount     int
	AvgPerPair   float64
	AvgPerPerson map[string]float64
}

// Summarize extracts the most frequent pair and the per-person averages.
func Summarize(co Cooccurrence) Summary {
	s := Summary{AvgPerPerson: make(map[string]float64, len(co.Names))}
	total, pairs := 0, 0
	for i, name := range co.Names {
		for j := i + 1; j < len(co.Names); j++ {
			other := co.Names[j]
			c := co.Counts[name][other]
			total += c
			pairs++
			if c > s.MaxCount {
				s.MaxCount = c
				s.MaxPair = [2]string{name, other}
			}
		}
	}
	if pairs > 0 {
		s.AvgPerPair = float64(total) / float64(pairs)
	}
	for _, name := range co.Names {
		sum := 0
		for _, other := range co.Names {
			sum += co.Counts[name][other]
		}
		if len(co.Names) > 1 {
			s.AvgPerPerson[name] = float64(sum) / float64(len(co.Names)-1)
		}
	}
	return s
}

// WriteSessionGroupMatrixCSV writes one row per participant with the group
// number they sat in for each session.
func WriteSessionGroupMatrixCSV(path string, sol model.Solution) error {
	groupOf := make(map[string][]string) // name -> group label per session
	var names []string
	seen := make(map[string]bool)
	sessions := len(sol)

	for si := 0; si < sessions; si++ {
		for gi, g := range sol[si].All() {
			for _, p := range g.Members {
				if !seen[p.Name] {
					seen[p.Name] = true
					names = append(names, p.Name)
					groupOf[p.Name] = make([]string, sessions)
				}
				groupOf[p.Name][si] = fmt.Sprintf("%d", gi+1)
			}
		}
	}
	sort.Strings(names)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"participant"}
	for si := 0; si < sessions; si++ {
		header = append(header, fmt.Sprintf("session %d", si+1))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, name := range names {
		if err := w.Write(append([]string{name}, groupOf[name]...)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// groupassigner — multi-session group assignment
//
// Reads a program JSON (participants + sessions), partitions every session
// into groups so participants meet as many distinct partners as possible,
// and writes the result JSON plus co-occurrence reports.
//
// Build:
//   go build -o groupassigner ./cmd/groupassigner

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/KotaKunori/GroupAssigner/internal/engine"
	"github.com/KotaKunori/GroupAssigner/internal/export"
	"github.com/KotaKunori/GroupAssigner/internal/project"
)

func main() {
	var (
		inputPath  = flag.String("input", "input.json", "program JSON file")
		outDir     = flag.String("out", "outputs", "output directory")
		configPath = flag.String("config", project.DefaultConfigPath(), "solver config TOML")
		algorithm  = flag.String("algorithm", "", "assigner: hybrid, heuristic, or ga (overrides config)")
		seed       = flag.Int64("seed", 0, "random seed (overrides config)")
		withPDF    = flag.Bool("pdf", false, "also write a PDF report")
		withBadges = flag.Bool("badges", false, "also write QR badge labels")
		withXLSX   = flag.Bool("xlsx", false, "also write the co-occurrence workbook")
	)
	flag.Parse()

	cfg, err := project.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *algorithm != "" {
		cfg.Algorithm = *algorithm
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	program, err := project.LoadProgram(*inputPath)
	if err != nil {
		log.Fatalf("input: %v", err)
	}

	assigner, err := engine.New(cfg.Settings())
	if err != nil {
		log.Fatalf("settings: %v", err)
	}

	result, err := engine.Execute(assigner, engine.AverageRepeatEvaluator{}, program)
	if err != nil {
		log.Fatalf("assignment: %v", err)
	}

	report := export.BuildReport(result.Groups, program, result.Score)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("output directory: %v", err)
	}
	resultPath := filepath.Join(*outDir, "result.json")
	if err := export.SaveReport(resultPath, report); err != nil {
		log.Fatalf("result: %v", err)
	}

	co := export.BuildCooccurrence(report)
	if err := export.WriteCooccurrenceCSV(filepath.Join(*outDir, "group_balance_table.csv"), co); err != nil {
		log.Fatalf("co-occurrence CSV: %v", err)
	}
	if err := export.WriteCooccurrenceMarkdown(filepath.Join(*outDir, "group_balance_table.md"), co); err != nil {
		log.Fatalf("co-occurrence Markdown: %v", err)
	}
	if err := export.WriteSessionGroupMatrixCSV(filepath.Join(*outDir, "session_group_matrix.csv"), result.Groups); err != nil {
		log.Fatalf("session matrix CSV: %v", err)
	}
	if *withXLSX {
		if err := export.WriteCooccurrenceXLSX(filepath.Join(*outDir, "group_balance_table.xlsx"), report, co); err != nil {
			log.Fatalf("co-occurrence XLSX: %v", err)
		}
	}
	if *withPDF {
		if err := export.ExportPDF(filepath.Join(*outDir, "report.pdf"), report); err != nil {
			log.Fatalf("PDF report: %v", err)
		}
	}
	if *withBadges {
		if err := export.ExportBadges(filepath.Join(*outDir, "badges.pdf"), program, result.Groups); err != nil {
			log.Fatalf("badges: %v", err)
		}
	}

	printSummary(report, co, resultPath)
}

func printSummary(report export.Report, co export.Cooccurrence, resultPath string) {
	fmt.Printf("avg_repeat_per_person: %.4f\n", report.Evaluation.AvgRepeatPerPerson)
	fmt.Printf("theoretical_min_avg_repeat: %.4f\n", report.Evaluation.TheoreticalMinAvgRepeat)
	fmt.Printf("distinct_partners avg/variance: %.2f / %.2f\n",
		report.Evaluation.DistinctPartnersAvg, report.Evaluation.DistinctPartnersVariance)

	summary := export.Summarize(co)
	if summary.MaxCount > 0 {
		fmt.Printf("most frequent pair: %s - %s (%d times)\n",
			summary.MaxPair[0], summary.MaxPair[1], summary.MaxCount)
	}
	fmt.Printf("average co-occurrence per pair: %.2f\n", summary.AvgPerPair)
	fmt.Printf("result written to %s\n", resultPath)
}

// Package project handles the on-disk artifacts surrounding a run: the
// solver tuning config and program file loading.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/KotaKunori/GroupAssigner/internal/engine"
)

// SolverConfig is the persisted tuning surface of the assignment engine.
type SolverConfig struct {
	Algorithm         string  `toml:"algorithm"`
	Seed              int64   `toml:"seed"`
	NumHeuristicSeeds int     `toml:"num_heuristic_seeds"`
	Generations       int     `toml:"generations"`
	PopulationSize    int     `toml:"population_size"`
	MutationRate      float64 `toml:"mutation_rate"`
	TimeBudgetSeconds float64 `toml:"time_budget_seconds"`
	HeuristicIters    int     `toml:"heuristic_iterations"`
}

// DefaultSolverConfig returns the standard tuning values.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Algorithm:         string(engine.AlgorithmHybrid),
		NumHeuristicSeeds: 10,
		Generations:       500,
		PopulationSize:    40,
		MutationRate:      0.08,
		TimeBudgetSeconds: 3.0,
		HeuristicIters:    200,
	}
}

// DefaultConfigPath returns the config location: ./groupassigner.toml when
// present, otherwise ~/.config/groupassigner/config.toml.
func DefaultConfigPath() string {
	if _, err := os.Stat("./groupassigner.toml"); err == nil {
		return "./groupassigner.toml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./groupassigner.toml"
	}
	return filepath.Join(home, ".config", "groupassigner", "config.toml")
}

// LoadConfig reads a TOML config file. A missing file yields the defaults.
func LoadConfig(path string) (SolverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSolverConfig(), nil
		}
		return DefaultSolverConfig(), fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultSolverConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultSolverConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config as TOML, creating parent directories.
func SaveConfig(path string, cfg SolverConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Settings resolves the config into engine settings.
func (c SolverConfig) Settings() engine.Settings {
	s := engine.DefaultSettings()
	s.Algorithm = engine.Algorithm(c.Algorithm)
	s.Heuristic = engine.HeuristicConfig{
		MaxIterations: c.HeuristicIters,
		Seed:          c.Seed,
	}
	s.GA = engine.GAConfig{
		Generations:    c.Generations,
		PopulationSize: c.PopulationSize,
		MutationRate:   c.MutationRate,
		TimeBudget:     time.Duration(c.TimeBudgetSeconds * float64(time.Second)),
		Seed:           c.Seed,
	}
	s.Hybrid = engine.HybridConfig{
		NumHeuristicSeeds:   c.NumHeuristicSeeds,
		Generations:         c.Generations,
		PopulationSize:      c.PopulationSize,
		MutationRate:        c.MutationRate,
		TimeBudget:          time.Duration(c.TimeBudgetSeconds * float64(time.Second)),
		HeuristicIterations: c.HeuristicIters,
		Seed:                c.Seed,
	}
	return s
}

package project

import (
	"os"

	"github.com/KotaKunori/GroupAssigner/internal/importer"
	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// LoadProgram reads and parses a program request from a JSON file.
func LoadProgram(path string) (model.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Program{}, err
	}
	return importer.ParseProgram(data)
}

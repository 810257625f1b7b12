package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BarCut/internal/model"
)

// FormatVersion is written into every project file.
const FormatVersion = "1.0.0"

// FileExtension is the conventional suffix for project files.
const FileExtension = ".barcut"

// File is the on-disk envelope of a project.
type File struct {
	Version string        `json:"version"`
	SavedAt string        `json:"saved_at"`
	Project model.Project `json:"project"`
}

// Save writes the project to path as indented JSON, creating parent
// directories as needed.
func Save(path string, p model.Project) error {
	file := File{
		Version: FormatVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Project: p,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project file written by Save.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if file.Version == "" {
		return model.Project{}, fmt.Errorf("invalid project file: missing version field")
	}

	p := file.Project
	if p.Requirements == nil {
		p.Requirements = []model.Requirement{}
	}
	if p.Settings.StockLength == 0 {
		p.Settings = model.DefaultSettings()
	}
	return p, nil
}

package application

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"
)

// RenderParams describes one README render.
type RenderParams struct {
	RepoPath string
	Input    string
	Output   string
	RepoType string
}

// RenderContext is the data handed to the template.
type RenderContext struct {
	RepoType string
}

// RenderService renders a repository README from a template file checked in
// next to it. The template language is Go's text/template; the engine
// itself is an external collaborator, this service only feeds it.
type RenderService struct {
	log    *slog.Logger
	dryRun bool
}

// NewRenderService creates a RenderService.
func NewRenderService(dryRun bool, log *slog.Logger) *RenderService {
	return &RenderService{log: log, dryRun: dryRun}
}

// Run renders the template and writes the output file. Dry-run still
// renders, so template errors surface either way, but skips the write.
func (s *RenderService) Run(p RenderParams) error {
	inputPath := filepath.Join(p.RepoPath, p.Input)
	tmpl, err := template.ParseFiles(inputPath)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", inputPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, RenderContext{RepoType: p.RepoType}); err != nil {
		return fmt.Errorf("rendering template %s: %w", inputPath, err)
	}

	outputPath := filepath.Join(p.RepoPath, p.Output)
	if s.dryRun {
		s.log.Info("write skipped: dry-run", "output", outputPath, "bytes", buf.Len())
		return nil
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	s.log.Info("rendered", "input", inputPath, "output", outputPath, "type", p.RepoType)
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loykin/procguard/pkg/template"
)

// getTemplatesDirectory returns the templates directory path
func (c *command) getTemplatesDirectory() string {
	return "templates"
}

// TemplateCreate writes a config scaffold for the requested type
func (c *command) TemplateCreate(f TemplateCreateFlags) error {
	// Determine output file path
	outputPath := f.Output
	if outputPath == "" {
		templatesDir := c.getTemplatesDirectory()
		if err := os.MkdirAll(templatesDir, 0o755); err != nil {
			return fmt.Errorf("failed to create templates directory: %w", err)
		}
		outputPath = filepath.Join(templatesDir, f.Type+".toml")
	}

	// Check if file already exists and force flag not set
	if _, err := os.Stat(outputPath); err == nil && !f.Force {
		return fmt.Errorf("template file '%s' already exists (use --force to overwrite)", outputPath)
	}

	// Generate template content based on type
	generator := template.NewGenerator()
	templateContent, err := generator.GenerateTOML(template.TemplateType(f.Type))
	if err != nil {
		return fmt.Errorf("failed to generate template: %w", err)
	}

	// Write template file
	if err := os.WriteFile(outputPath, templateContent, 0o644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	_, _ = fmt.Fprintf(c.out, "Template '%s' created: %s\n", f.Type, outputPath)
	_, _ = fmt.Fprintf(c.out, "Edit the template and start the agent with: procguard serve %s\n", outputPath)
	return nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommand_GetTemplatesDirectory(t *testing.T) {
	cmd := &command{out: os.Stdout}

	expectedDir := "templates"
	actualDir := cmd.getTemplatesDirectory()

	if actualDir != expectedDir {
		t.Errorf("expected templates directory '%s', got '%s'", expectedDir, actualDir)
	}
}

func TestCommand_TemplateCreate(t *testing.T) {
	// Create temporary directory for test
	tempDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}

	tests := []struct {
		name         string
		flags        TemplateCreateFlags
		expectError  bool
		validateFile func(t *testing.T, filePath string)
	}{
		{
			name: "create_minimal_template",
			flags: TemplateCreateFlags{
				Type: "minimal",
			},
			expectError: false,
			validateFile: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Errorf("failed to read file: %v", err)
					return
				}

				contentStr := string(content)
				if !strings.Contains(contentStr, "quarantine_dir") {
					t.Error("template should contain quarantine_dir")
				}
				if strings.Contains(contentStr, "[server]") {
					t.Error("minimal template should not contain server section")
				}
			},
		},
		{
			name: "create_server_template",
			flags: TemplateCreateFlags{
				Type: "server",
			},
			expectError: false,
			validateFile: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Errorf("failed to read file: %v", err)
					return
				}

				contentStr := string(content)
				if !strings.Contains(contentStr, "[server]") {
					t.Error("server template should contain server section")
				}
				if !strings.Contains(contentStr, "listen") {
					t.Error("server template should contain listen address")
				}
			},
		},
		{
			name: "create_audited_template",
			flags: TemplateCreateFlags{
				Type: "audited",
			},
			expectError: false,
			validateFile: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Errorf("failed to read file: %v", err)
					return
				}

				contentStr := string(content)
				if !strings.Contains(contentStr, "[audit]") {
					t.Error("audited template should contain audit section")
				}
				if !strings.Contains(contentStr, "sqlite://") {
					t.Error("audited template should contain a sink DSN")
				}
			},
		},
		{
			name: "create_template_with_custom_output",
			flags: TemplateCreateFlags{
				Type:   "full",
				Output: filepath.Join(tempDir, "custom-agent.toml"),
			},
			expectError: false,
			validateFile: func(t *testing.T, filePath string) {
				if _, err := os.Stat(filePath); os.IsNotExist(err) {
					t.Errorf("expected file %s to exist", filePath)
				}
			},
		},
		{
			name: "create_invalid_template_type",
			flags: TemplateCreateFlags{
				Type: "invalid",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := &command{out: &buf}

			err := cmd.TemplateCreate(tt.flags)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			// Determine where the template landed
			filePath := tt.flags.Output
			if filePath == "" {
				filePath = filepath.Join("templates", tt.flags.Type+".toml")
			}

			if tt.validateFile != nil {
				tt.validateFile(t, filePath)
			}

			if !strings.Contains(buf.String(), "created") {
				t.Errorf("expected creation message, got: %s", buf.String())
			}
		})
	}
}

func TestCommand_TemplateCreateForce(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "agent.toml")

	var buf bytes.Buffer
	cmd := &command{out: &buf}

	// First creation succeeds
	if err := cmd.TemplateCreate(TemplateCreateFlags{Type: "minimal", Output: outputPath}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Second creation without --force fails
	err := cmd.TemplateCreate(TemplateCreateFlags{Type: "minimal", Output: outputPath})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already-exists error, got: %v", err)
	}

	// With --force it overwrites
	if err := cmd.TemplateCreate(TemplateCreateFlags{Type: "server", Output: outputPath, Force: true}); err != nil {
		t.Fatalf("force create failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "[server]") {
		t.Error("force overwrite should have replaced the template")
	}
}

package template

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// TemplateType represents the kind of config file to generate
type TemplateType string

const (
	TypeMinimal   TemplateType = "minimal"
	TypeBasic     TemplateType = "basic"
	TypeServer    TemplateType = "server"
	TypeAPI       TemplateType = "api"
	TypeAudited   TemplateType = "audited"
	TypeForensics TemplateType = "forensics"
	TypeFull      TemplateType = "full"
	TypeComplete  TemplateType = "complete"
)

// ConfigTemplate is a config file scaffold. Sections are pointers so
// each template emits only the tables it sets.
type ConfigTemplate struct {
	QuarantineDir string         `toml:"quarantine_dir"`
	Log           *LogSection    `toml:"log,omitempty"`
	Audit         *AuditSection  `toml:"audit,omitempty"`
	Server        *ServerSection `toml:"server,omitempty"`
}

// LogSection mirrors the [log] table of the config file
type LogSection struct {
	Slog *SlogSection    `toml:"slog,omitempty"`
	File *FileLogSection `toml:"file,omitempty"`
}

// SlogSection mirrors [log.slog]
type SlogSection struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Color  bool   `toml:"color,omitempty"`
}

// FileLogSection mirrors [log.file]
type FileLogSection struct {
	Path       string `toml:"path"`
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"`
	MaxBackups int    `toml:"max_backups,omitempty"`
	MaxAgeDays int    `toml:"max_age_days,omitempty"`
	Compress   bool   `toml:"compress,omitempty"`
}

// AuditSection mirrors [audit]
type AuditSection struct {
	DSN string `toml:"dsn"`
}

// ServerSection mirrors [server]
type ServerSection struct {
	Listen    string `toml:"listen"`
	BasePath  string `toml:"base_path"`
	AuthToken string `toml:"auth_token,omitempty"`
}

// Generator provides config scaffold generation
type Generator struct{}

// NewGenerator creates a new template generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate creates a config scaffold for the specified type
func (g *Generator) Generate(templateType TemplateType) (*ConfigTemplate, error) {
	switch templateType {
	case TypeMinimal, TypeBasic:
		return g.generateMinimalTemplate(), nil
	case TypeServer, TypeAPI:
		return g.generateServerTemplate(), nil
	case TypeAudited, TypeForensics:
		return g.generateAuditedTemplate(), nil
	case TypeFull, TypeComplete:
		return g.generateFullTemplate(), nil
	default:
		return nil, fmt.Errorf("unknown template type: %s (supported: minimal, server, audited, full)", templateType)
	}
}

// GenerateTOML creates a TOML rendition of the scaffold, ready to write
// to a config file
func (g *Generator) GenerateTOML(templateType TemplateType) ([]byte, error) {
	template, err := g.Generate(templateType)
	if err != nil {
		return nil, err
	}

	data, err := toml.Marshal(template)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	return data, nil
}

// GetSupportedTypes returns a list of all supported template types
func (g *Generator) GetSupportedTypes() []string {
	return []string{
		string(TypeMinimal),
		string(TypeServer),
		string(TypeAudited),
		string(TypeFull),
	}
}

// Helper functions to create specific templates

func (g *Generator) generateMinimalTemplate() *ConfigTemplate {
	return &ConfigTemplate{
		QuarantineDir: "/var/lib/procguard/quarantine",
		Log: &LogSection{
			Slog: &SlogSection{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

func (g *Generator) generateServerTemplate() *ConfigTemplate {
	t := g.generateMinimalTemplate()
	t.Server = &ServerSection{
		Listen:    ":8080",
		BasePath:  "/api",
		AuthToken: "change-me",
	}
	return t
}

func (g *Generator) generateAuditedTemplate() *ConfigTemplate {
	t := g.generateMinimalTemplate()
	t.Audit = &AuditSection{
		DSN: "sqlite:///var/lib/procguard/audit.db",
	}
	t.Log.File = &FileLogSection{
		Path: "/var/log/procguard/procguard.log",
	}
	return t
}

func (g *Generator) generateFullTemplate() *ConfigTemplate {
	return &ConfigTemplate{
		QuarantineDir: "/var/lib/procguard/quarantine",
		Log: &LogSection{
			Slog: &SlogSection{
				Level:  "info",
				Format: "json",
			},
			File: &FileLogSection{
				Path:       "/var/log/procguard/procguard.log",
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 7,
				Compress:   true,
			},
		},
		Audit: &AuditSection{
			DSN: "sqlite:///var/lib/procguard/audit.db",
		},
		Server: &ServerSection{
			Listen:    ":8080",
			BasePath:  "/api",
			AuthToken: "change-me",
		},
	}
}

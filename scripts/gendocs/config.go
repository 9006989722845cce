package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdocs/internal/cli/config"
)

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// EnvVar returns the environment variable that sets the field.
func (f ConfigField) EnvVar() string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Key, ".", "_"))
}

// getConfigSchema returns the configuration schema with the current defaults.
func getConfigSchema() []ConfigField {
	def := config.Default()
	return []ConfigField{
		{Key: "target_path", Type: "string", Default: def.TargetPath, Description: "Directory or http(s) URL holding the artifacts"},
		{Key: "output", Type: "string", Default: def.OutputFormat, Description: "Output format: text or json"},
		{Key: "log_level", Type: "string", Default: def.LogLevel, Description: "Log level: debug, info, warn or error"},
		{Key: "verbose", Type: "bool", Default: strconv.FormatBool(def.Verbose), Description: "Log at debug level"},
		{Key: "server.port", Type: "int", Default: strconv.Itoa(def.Server.Port), Description: "Port the docs server listens on"},
		{Key: "server.watch", Type: "bool", Default: strconv.FormatBool(def.Server.Watch), Description: "Recompile when local artifacts change"},
		{Key: "http.retry_max", Type: "int", Default: strconv.Itoa(def.HTTP.RetryMax), Description: "Retries for remote artifact fetches"},
		{Key: "http.timeout", Type: "duration", Default: def.HTTP.Timeout.String(), Description: "Timeout for each remote artifact fetch"},
	}
}

func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "leapdocs configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("leapdocs reads %s from the project root, searching parent directories when it is not found.",
		InlineCode(config.ConfigFileNames[0])))

	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal := f.Default
		if defVal == "" {
			defVal = "-"
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, InlineCode(defVal), InlineCode(f.EnvVar()), f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `# leapdocs.yaml
target_path: target
output: text
log_level: info

server:
  port: 8765
  watch: true

http:
  retry_max: 3
  timeout: 30s`)

	w.Paragraph("Precedence, highest first: flags, environment variables, config file, defaults.")

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

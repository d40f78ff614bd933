package config

import (
	"os"
	"strings"
)

const (
	defaultLabelFont = "Source Han Sans CN"
	defaultOutput    = "badges.svg"
)

// RenderConfig controls how badges are drawn and where the page is written.
type RenderConfig struct {
	// LabelFont is the font family of the text under each code.
	LabelFont string `env:"RENDER_LABEL_FONT" envDefault:"Source Han Sans CN"`
	// TempDir stages code graphics before import. Empty means the OS temp dir.
	TempDir string `env:"RENDER_TEMP_DIR"`
	// Output is the SVG file the CLI writes after a run.
	Output string `env:"RENDER_OUTPUT" envDefault:"badges.svg"`
	// PayloadQuery is a JMESPath expression applied to JSON payload files.
	PayloadQuery string `env:"RENDER_PAYLOAD_QUERY"`
}

// Sanitize normalises render settings.
func (c *RenderConfig) Sanitize() {
	if c.LabelFont = strings.TrimSpace(c.LabelFont); c.LabelFont == "" {
		c.LabelFont = defaultLabelFont
	}
	if c.TempDir = strings.TrimSpace(c.TempDir); c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Output = strings.TrimSpace(c.Output); c.Output == "" {
		c.Output = defaultOutput
	}
	c.PayloadQuery = strings.TrimSpace(c.PayloadQuery)
}

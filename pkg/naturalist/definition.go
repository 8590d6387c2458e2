package naturalist

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed agent.yaml
var defaultDefinition []byte

// Definition describes the agent and the query it answers.
type Definition struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Instructions  string `yaml:"instructions"`
	Prompt        string `yaml:"prompt"`
	ToolRetries   int    `yaml:"tool_retries"`
	MaxIterations int    `yaml:"max_iterations"`
	Timeout       string `yaml:"timeout"` // Duration string, empty for none.
}

// DefaultDefinition returns the built-in naturalist definition.
func DefaultDefinition() Definition {
	def, err := parseDefinition(Definition{}, defaultDefinition)
	if err != nil {
		panic(fmt.Sprintf("naturalist: embedded definition: %v", err))
	}
	return def
}

// LoadDefinition reads a YAML file over the built-in definition, so the file
// only needs the keys it changes. An empty path returns the defaults.
func LoadDefinition(path string) (Definition, error) {
	def := DefaultDefinition()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Definition{}, fmt.Errorf("naturalist: load definition: %w", err)
	}

	return parseDefinition(def, data)
}

func parseDefinition(base Definition, data []byte) (Definition, error) {
	if err := yaml.Unmarshal(data, &base); err != nil {
		return Definition{}, fmt.Errorf("naturalist: parse definition: %w", err)
	}

	if err := base.Validate(); err != nil {
		return Definition{}, err
	}

	return base, nil
}

// Validate checks the definition is usable.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("naturalist: definition: name is required")
	}
	if d.Prompt == "" {
		return fmt.Errorf("naturalist: definition: prompt is required")
	}
	if d.ToolRetries < 0 {
		return fmt.Errorf("naturalist: definition: tool_retries must not be negative")
	}
	if d.MaxIterations < 0 {
		return fmt.Errorf("naturalist: definition: max_iterations must not be negative")
	}
	if _, err := d.timeout(); err != nil {
		return err
	}
	return nil
}

func (d Definition) timeout() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}

	t, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, fmt.Errorf("naturalist: definition: timeout: %w", err)
	}

	return t, nil
}

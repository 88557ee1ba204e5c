package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into the binary at
// compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider is what oracle implementations and tests depend on.
type PromptProvider interface {
	BuildPrompt(task string, data map[string]string) (string, error)
}

type PromptManager struct {
	prompts map[string]string // task -> template body
}

// loaded prompt template
type PromptTemplate struct {
	Prompt string `yaml:"prompt"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildPrompt fills the template for the given oracle task. Placeholders
// use the {{.Name}} form; missing keys are left in place so a bad call
// is visible in the rendered prompt.
func (pm *PromptManager) BuildPrompt(task string, data map[string]string) (string, error) {
	tmpl, exists := pm.prompts[task]
	if !exists {
		return "", fmt.Errorf("template not found for task: %s", task)
	}

	// Simple string replacement instead of template execution
	result := tmpl
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}

	return result, nil
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
		}

		var tmpl PromptTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", entry.Name(), err)
		}

		task := strings.TrimSuffix(entry.Name(), ".yaml")
		if strings.TrimSpace(tmpl.Prompt) == "" {
			return fmt.Errorf("template %s has an empty prompt", entry.Name())
		}

		pm.prompts[task] = tmpl.Prompt
	}

	if len(pm.prompts) == 0 {
		return fmt.Errorf("no prompt templates found")
	}

	return nil
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"krowbot/models"
)

var (
	commandNamePattern = regexp.MustCompile(`^[-_a-z0-9]{1,32}$`)

	definitionExtensions = []string{".yaml", ".yml", ".json"}
)

const maxDescriptionLength = 100

// LoadDefinitions reads one command definition per file from dir, in file name order.
// JSON files are parsed by the YAML decoder since JSON is a subset of YAML.
func LoadDefinitions(dir string) ([]models.CommandDefinition, error) {
	log.Info().Str("dir", dir).Msg("📋 Starting to load command definitions")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read commands directory %s: %w", dir, err)
	}

	var definitions []models.CommandDefinition
	seen := make(map[string]string)

	// ReadDir returns entries sorted by file name
	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(definitionExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		definition, err := loadDefinitionFile(path)
		if err != nil {
			return nil, err
		}

		if previous, exists := seen[definition.Name]; exists {
			return nil, fmt.Errorf("duplicate command %q defined in %s and %s", definition.Name, previous, path)
		}
		seen[definition.Name] = path
		definitions = append(definitions, definition)

		log.Debug().Str("command", definition.Name).Str("file", path).Msg("📄 Loaded command definition")
	}

	log.Info().Int("count", len(definitions)).Msg("📋 Completed successfully - loaded command definitions")
	return definitions, nil
}

func loadDefinitionFile(path string) (models.CommandDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.CommandDefinition{}, fmt.Errorf("failed to read command definition %s: %w", path, err)
	}

	var definition models.CommandDefinition
	if err := yaml.Unmarshal(raw, &definition); err != nil {
		return models.CommandDefinition{}, fmt.Errorf("failed to parse command definition %s: %w", path, err)
	}

	if err := validateDefinition(definition); err != nil {
		return models.CommandDefinition{}, fmt.Errorf("invalid command definition %s: %w", path, err)
	}
	return definition, nil
}

func validateDefinition(definition models.CommandDefinition) error {
	if definition.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !commandNamePattern.MatchString(definition.Name) {
		return fmt.Errorf("name %q must be 1-32 lowercase letters, digits, dashes or underscores", definition.Name)
	}
	if definition.Description == "" || len(definition.Description) > maxDescriptionLength {
		return fmt.Errorf("description of %q must be 1-%d characters", definition.Name, maxDescriptionLength)
	}

	for _, option := range definition.Options {
		if !commandNamePattern.MatchString(option.Name) {
			return fmt.Errorf("option name %q of %q is invalid", option.Name, definition.Name)
		}
		if option.Description == "" {
			return fmt.Errorf("option %q of %q needs a description", option.Name, definition.Name)
		}
	}
	return nil
}

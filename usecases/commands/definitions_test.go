package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krowbot/models"
)

func writeDefinition(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDefinitions(t *testing.T) {
	t.Run("LoadsYAMLAndJSONInFileOrder", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "b_ping.yml", "name: ping\ndescription: Replies with Pong!\n")
		writeDefinition(t, dir, "a_kofi.json", `{"name": "kofi", "description": "Ko-fi page link"}`)
		writeDefinition(t, dir, "c_donations.yaml", `
name: donations
description: Shows the latest public donations
options:
  - name: count
    description: How many donations to show
    type: integer
    min_value: 1
    max_value: 10
`)
		writeDefinition(t, dir, "README.md", "not a command")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

		definitions, err := LoadDefinitions(dir)
		require.NoError(t, err)
		require.Len(t, definitions, 3)

		assert.Equal(t, "kofi", definitions[0].Name)
		assert.Equal(t, "ping", definitions[1].Name)
		assert.Equal(t, "donations", definitions[2].Name)

		require.Len(t, definitions[2].Options, 1)
		option := definitions[2].Options[0]
		assert.Equal(t, models.CommandOptionInteger, option.Type)
		require.NotNil(t, option.MinValue)
		require.NotNil(t, option.MaxValue)
		assert.Equal(t, 1.0, *option.MinValue)
		assert.Equal(t, 10.0, *option.MaxValue)
	})

	t.Run("DuplicateNames", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "one.yaml", "name: ping\ndescription: first\n")
		writeDefinition(t, dir, "two.yaml", "name: ping\ndescription: second\n")

		_, err := LoadDefinitions(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate command "ping"`)
	})

	t.Run("MissingName", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "anon.yaml", "description: no name here\n")

		_, err := LoadDefinitions(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("InvalidName", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "bad.yaml", "name: Ping Me\ndescription: spaces and capitals\n")

		_, err := LoadDefinitions(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Ping Me")
	})

	t.Run("MissingDescription", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "ping.yaml", "name: ping\n")

		_, err := LoadDefinitions(dir)
		require.Error(t, err)
	})

	t.Run("OptionWithoutDescription", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "donations.yaml", "name: donations\ndescription: list\noptions:\n  - name: count\n    type: integer\n")

		_, err := LoadDefinitions(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count")
	})

	t.Run("MalformedFile", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinition(t, dir, "broken.json", `{"name": "ping",`)

		_, err := LoadDefinitions(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		_, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})

	t.Run("ShippedDefinitions", func(t *testing.T) {
		definitions, err := LoadDefinitions(filepath.Join("..", "..", "commands"))
		require.NoError(t, err)

		names := make([]string, 0, len(definitions))
		for _, definition := range definitions {
			names = append(names, definition.Name)
		}
		assert.ElementsMatch(t, []string{"donations", "kofi", "ping"}, names)
	})
}

// Package schemas embeds the JSON Schema documents shipped with the CLI.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names.
const (
	FixtureInput = "fixture_input.schema.json"
	Config       = "config.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the raw bytes of an embedded schema.
func Load(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %s: %w", name, err)
	}
	return data, nil
}

// Names lists the embedded schemas.
func Names() []string {
	return []string{FixtureInput, Config}
}

package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/openformat/internal/schemas"
	"github.com/jonathan/openformat/internal/types"
	schemafiles "github.com/jonathan/openformat/schemas"
)

// LoadInput reads a fixture JSON file, checks it against the fixture schema
// and decodes it.
func LoadInput(path string) (types.FixtureInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.FixtureInput{}, fmt.Errorf("input file not found: %w", err)
		}
		return types.FixtureInput{}, fmt.Errorf("failed to read input file: %w", err)
	}
	return ParseInput(data)
}

// ParseInput validates and decodes fixture JSON. Numbers are kept as
// json.Number and converted to decimal strings.
func ParseInput(data []byte) (types.FixtureInput, error) {
	if err := schemas.ValidateBytes(schemafiles.FixtureInput, data); err != nil {
		return types.FixtureInput{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var in types.FixtureInput
	if err := dec.Decode(&in); err != nil {
		return types.FixtureInput{}, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	for i := range in.Records {
		for k, v := range in.Records[i].Values {
			in.Records[i].Values[k] = normalizeValue(v)
		}
	}
	if err := in.Validate(); err != nil {
		return types.FixtureInput{}, fmt.Errorf("invalid fixture input: %w", err)
	}
	return in, nil
}

func normalizeValue(v any) any {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return v
}

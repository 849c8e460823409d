package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFixture returns the raw bytes of a testdata file.
func LoadFixture(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: fixture %s: %w", path, err)
	}
	return data, nil
}

// LoadGolden decodes the JSON golden file at path into v.
func LoadGolden(path string, v any) error {
	data, err := LoadFixture(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("testsupport: golden %s: %w", path, err)
	}
	return nil
}

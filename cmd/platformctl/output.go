package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vin-jex/design-platform-client/internal/jobs"
)

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func printStatus(status jobs.Status) error {
	if jsonOutput {
		return printJSON(status)
	}

	line := fmt.Sprintf("%s  %-9s", status.Handle, status.State)
	switch status.State {
	case jobs.StateCompleted:
		if len(status.Result) > 0 {
			line += "  result=" + string(status.Result)
		}
	case jobs.StateFailed:
		line += fmt.Sprintf("  error=%q", status.ErrorMessage())
	}
	fmt.Println(line)

	return nil
}

// readBody loads a request body from a JSON or YAML file; "-" reads JSON
// from stdin. JSON is forwarded byte for byte.
func readBody(path string) (any, error) {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var value any
		if err := yaml.Unmarshal(content, &value); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return value, nil
	default:
		if !json.Valid(content) {
			return nil, errors.New("body is not valid JSON")
		}
		return json.RawMessage(content), nil
	}
}

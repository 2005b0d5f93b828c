//go:build validate_reports
// +build validate_reports

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fleetwatch/fleetwatch/internal/report"
)

// main validates archived report files against the embedded report schema.
// Arguments may be report files or directories of reports.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run -tags=validate_reports ./tools/validate/reports.go <report.json|dir>...\n")
		os.Exit(1)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(report.Schema()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error compiling report schema: %v\n", err)
		os.Exit(1)
	}

	paths, err := reportFiles(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing reports: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			os.Exit(1)
		}

		result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
		if err != nil {
			fmt.Printf("❌ %s: %v\n", path, err)
			failed++
			continue
		}

		if !result.Valid() {
			fmt.Printf("❌ %s:\n", path)
			for _, e := range result.Errors() {
				fmt.Printf("  - %s: %s\n", e.Field(), e.Description())
			}
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("%d of %d reports failed validation\n", failed, len(paths))
		os.Exit(1)
	}

	fmt.Printf("✅ %d reports validated\n", len(paths))
}

// reportFiles expands directories into the .json files they contain, sorted.
func reportFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			paths = append(paths, filepath.Join(arg, e.Name()))
		}
	}
	slices.Sort(paths)

	return paths, nil
}

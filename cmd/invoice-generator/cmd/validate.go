package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	money "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/processor"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice files",
	Long: `Validate one or more invoice JSON files without rendering them.

Checks performed:
  - Required fields present (number, date, client, line items)
  - Invoice number in DDDD/YY form
  - Tax ID: 8-digit business code or 10-digit individual tax ID
  - IBAN checksum
  - Line item quantities and prices
  - Submitted total against the sum of line items (warning only)

Examples:
  invoice-generator validate invoice.json
  invoice-generator validate invoices/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pipeline, err := newPipeline(log)
	if err != nil {
		return err
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		printVerbose("Validating: %s\n", file)

		result := validateFile(pipeline, file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	// Output results
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	case "table":
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID (total %s)\n", r.File, r.Total)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}

	return nil
}

func validateFile(pipeline *processor.Pipeline, filePath string) *ValidationResult {
	result := &ValidationResult{
		File:     filePath,
		Errors:   []string{},
		Warnings: []string{},
	}

	f, err := os.Open(filePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}
	defer f.Close()

	pipelineResult := pipeline.ValidateFrom(f)
	if pipelineResult.Error != nil {
		result.Errors = append(result.Errors, pipelineResult.Error.Error())
		return result
	}

	for _, field := range pipelineResult.Errors.Fields() {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", field, pipelineResult.Errors[field]))
	}
	result.Warnings = append(result.Warnings, pipelineResult.Warnings...)

	if rec := pipelineResult.Record; rec != nil {
		result.Valid = true
		result.Total = money.Format(rec.Total)
		result.TaxIDKind = string(rec.Header.TaxIDKind)
	}

	return result
}

// collectFiles expands globs and directories into the files with one of exts
func collectFiles(args []string, exts ...string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}

			if !info.IsDir() {
				files = append(files, match)
				continue
			}

			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && hasExt(path, exts) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File      string   `json:"file"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Total     string   `json:"total,omitempty"`
	TaxIDKind string   `json:"tax_id_kind,omitempty"`
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-generator/internal/pdfinfo"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Check rendered invoice documents",
	Long: `Validate PDF documents with pdfcpu and report their page count.

Examples:
  invoice-generator inspect invoice.pdf
  invoice-generator inspect out/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// InspectResult holds the result of inspecting a single document
type InspectResult struct {
	File string `json:"file"`
	*pdfinfo.Info
	Error string `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".pdf")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	results := make([]*InspectResult, 0, len(files))
	failed := 0
	for _, file := range files {
		r := inspectFile(file)
		if r.Error != "" || !r.Valid {
			failed++
		}
		results = append(results, r)
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	case "table":
		for _, r := range results {
			printInspectResult(r)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed inspection", failed, len(results))
	}
	return nil
}

func inspectFile(filePath string) *InspectResult {
	result := &InspectResult{File: filePath, Info: &pdfinfo.Info{}}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	info, err := pdfinfo.Inspect(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Info = info
	return result
}

func printInspectResult(r *InspectResult) {
	fmt.Printf("File: %s\n", r.File)
	if r.Error != "" {
		fmt.Printf("  Error: %s\n\n", r.Error)
		return
	}
	fmt.Printf("  Size: %d bytes\n", r.Size)
	if r.Valid {
		fmt.Printf("  Valid: yes\n")
		fmt.Printf("  Pages: %d\n", r.Pages)
	} else {
		fmt.Printf("  Valid: no (%s)\n", r.Problem)
	}
	fmt.Println()
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-generator/internal/datauri"
	money "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/pdfinfo"
	"github.com/rezonia/invoice-generator/internal/processor"
)

var (
	outputFile    string
	timeout       time.Duration
	signaturePath string
	stampPath     string
	signerName    string
	transliterate bool
	verifyOutput  bool
	uncompressed  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <invoice.json>",
	Short: "Render an invoice to PDF",
	Long: `Validate an invoice described in JSON and render it as a PDF document.

Use - to read the invoice from stdin. Rendering is deterministic: the same
input always produces the same bytes.

Examples:
  invoice-generator generate invoice.json
  invoice-generator generate invoice.json -o out/12-24.pdf --verify
  invoice-generator generate invoice.json --signature sign.png --stamp stamp.png \
      --signer "Тарас Шевченко" --transliterate
  cat invoice.json | invoice-generator generate - -o invoice.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: input name with .pdf, or invoice.pdf)")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Rendering timeout")
	generateCmd.Flags().StringVar(&signaturePath, "signature", "", "Signature image file, overrides signatureImage")
	generateCmd.Flags().StringVar(&stampPath, "stamp", "", "Stamp image file, overrides stampImage")
	generateCmd.Flags().StringVar(&signerName, "signer", "", "Signer name printed under the images, overrides signerName")
	generateCmd.Flags().BoolVar(&transliterate, "transliterate", false, "Print the signer name in Latin letters")
	generateCmd.Flags().BoolVar(&verifyOutput, "verify", false, "Check the rendered document with pdfcpu")
	generateCmd.Flags().BoolVar(&uncompressed, "uncompressed", false, "Write plain content streams, useful when inspecting the PDF")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := readRequest(args[0])
	if err != nil {
		return err
	}
	if err := applyOverrides(req); err != nil {
		return err
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

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result := pipeline.Generate(ctx, req.Raw())
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
	}
	if len(result.Errors) > 0 {
		for _, field := range result.Errors.Fields() {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", field, result.Errors[field])
		}
		return fmt.Errorf("invoice is invalid (%d errors)", len(result.Errors))
	}
	if result.Error != nil {
		return result.Error
	}

	data := result.Output.Data
	if verifyOutput {
		if err := pdfinfo.Verify(data); err != nil {
			return fmt.Errorf("rendered document failed verification: %w", err)
		}
		printVerbose("Document verified\n")
	}

	path := outputPath(args[0])
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	printVerbose("Rendered %s in %s\n", path, result.Duration)
	fmt.Printf("%s (%d bytes, total %s)\n", path, len(data), money.Format(result.Record.Total))
	return nil
}

func readRequest(input string) (*processor.Request, error) {
	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	req, err := processor.DecodeRequest(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return req, nil
}

func applyOverrides(req *processor.Request) error {
	if signaturePath != "" {
		data, err := os.ReadFile(signaturePath)
		if err != nil {
			return fmt.Errorf("failed to read signature: %w", err)
		}
		req.SignatureImage = datauri.Encode(data)
	}
	if stampPath != "" {
		data, err := os.ReadFile(stampPath)
		if err != nil {
			return fmt.Errorf("failed to read stamp: %w", err)
		}
		req.StampImage = datauri.Encode(data)
	}
	if signerName != "" {
		req.SignerName = signerName
	}
	if transliterate {
		req.Transliterate = true
	}
	return nil
}

func outputPath(input string) string {
	if outputFile != "" {
		return outputFile
	}
	if input == "-" {
		return "invoice.pdf"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

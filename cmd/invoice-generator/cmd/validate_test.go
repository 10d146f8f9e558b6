package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validInvoiceJSON = `{
	"invoiceNumber": "12/24",
	"date": "2024-03-05",
	"clientName": "Acme",
	"items": [{"description": "Consulting", "quantity": 2, "unit": "hrs", "price": "500"}],
	"total": 999
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	pipeline, err := newPipeline(zap.NewNop())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		result := validateFile(pipeline, writeFile(t, dir, "ok.json", validInvoiceJSON))
		assert.True(t, result.Valid)
		assert.Equal(t, "1000", result.Total)
		assert.Empty(t, result.Errors)
		assert.Len(t, result.Warnings, 1)
	})

	t.Run("invalid", func(t *testing.T) {
		body := `{"invoiceNumber": "nope", "date": "2024-03-05", "clientName": "Acme",
			"items": [{"description": "x", "quantity": 1, "price": 1}]}`
		result := validateFile(pipeline, writeFile(t, dir, "bad.json", body))
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "invoiceNumber:")
	})

	t.Run("missing file", func(t *testing.T) {
		result := validateFile(pipeline, filepath.Join(dir, "absent.json"))
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "failed to read file")
	})
}

func TestRunValidate_ReadsFont(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.json", validInvoiceJSON)

	fontPath = filepath.Join(dir, "missing.ttf")
	t.Cleanup(func() { fontPath = "" })

	err := runValidate(validateCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read font")
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", "{}")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	b := writeFile(t, dir, filepath.Join("nested", "b.JSON"), "{}")
	writeFile(t, dir, "notes.txt", "")

	files, err := collectFiles([]string{dir}, ".json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "absent")}, ".json")
	assert.Error(t, err)
}

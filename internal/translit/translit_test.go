package translit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/invoice-generator/internal/translit"
)

func TestLatin(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Шевченко Тарас", "Shevchenko Taras"},
		{"Київ", "Kyiv"},
		{"Щербина", "Shcherbyna"},
		{"Юрій", "Yurii"},
		{"Яна", "Yana"},
		{"Ґалаґан", "Galagan"},
		{"Олександр Хоменко", "Oleksandr Khomenko"},
		{"Ольга", "Olha"},
		{"Мар'яна", "Mariana"},
		{"Мар’яна", "Mariana"},
		{"Євген", "Yevhen"},
		{"Цюрупа", "Tsiurupa"},
		{"Жанна", "Zhanna"},
		{"Чорновол", "Chornovol"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, translit.Latin(tt.input))
		})
	}
}

func TestLatin_ContextFreeSimplification(t *testing.T) {
	// lower-case я always maps to "ia", even at the start of a word
	assert.Equal(t, "iablunka", translit.Latin("яблунка"))
	// "зг" is not rewritten to "zgh"
	assert.Equal(t, "Zhurskyi", translit.Latin("Згурський"))
}

func TestLatin_PassThrough(t *testing.T) {
	assert.Equal(t, "John Smith, 2024!", translit.Latin("John Smith, 2024!"))
	assert.Equal(t, "", translit.Latin(""))
	// Russian-only letters are not in the table
	assert.Equal(t, "ыэъё", translit.Latin("ыэъё"))
}

func TestLatin_DecomposedInput(t *testing.T) {
	// и + combining breve, і + combining diaeresis
	decomposed := "Андрі\u0438\u0306 \u0406\u0308"
	assert.Equal(t, "Andrii Yi", translit.Latin(decomposed))
}

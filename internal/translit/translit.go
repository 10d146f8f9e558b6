// Package translit maps Ukrainian Cyrillic text to a Latin approximation.
//
// The table follows the 2010 national romanization but is context free:
// upper-case Є, Ї, Й, Ю, Я always take the word-initial form (Ye, Yi, Y, Yu, Ya)
// and lower-case letters always take the other form (ie, i, i, iu, ia).
// "Зг" is not special-cased. This is a known simplification.
package translit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var table = map[rune]string{
	'А': "A", 'а': "a",
	'Б': "B", 'б': "b",
	'В': "V", 'в': "v",
	'Г': "H", 'г': "h",
	'Ґ': "G", 'ґ': "g",
	'Д': "D", 'д': "d",
	'Е': "E", 'е': "e",
	'Є': "Ye", 'є': "ie",
	'Ж': "Zh", 'ж': "zh",
	'З': "Z", 'з': "z",
	'И': "Y", 'и': "y",
	'І': "I", 'і': "i",
	'Ї': "Yi", 'ї': "i",
	'Й': "Y", 'й': "i",
	'К': "K", 'к': "k",
	'Л': "L", 'л': "l",
	'М': "M", 'м': "m",
	'Н': "N", 'н': "n",
	'О': "O", 'о': "o",
	'П': "P", 'п': "p",
	'Р': "R", 'р': "r",
	'С': "S", 'с': "s",
	'Т': "T", 'т': "t",
	'У': "U", 'у': "u",
	'Ф': "F", 'ф': "f",
	'Х': "Kh", 'х': "kh",
	'Ц': "Ts", 'ц': "ts",
	'Ч': "Ch", 'ч': "ch",
	'Ш': "Sh", 'ш': "sh",
	'Щ': "Shch", 'щ': "shch",
	'Ь': "", 'ь': "",
	'Ю': "Yu", 'ю': "iu",
	'Я': "Ya", 'я': "ia",
	'\'': "", 'ʼ': "", '’': "",
}

// Latin transliterates s. Runes outside the table pass through unchanged.
func Latin(s string) string {
	// NFC so that и+U+0306 and і+U+0308 hit the й/ї entries
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := table[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

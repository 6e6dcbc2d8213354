// Package braille converts recognized text into six-dot Braille cells for
// Latin and Devanagari script.
package braille

import "unicode/utf8"

// Blank stands in for any character without a Braille mapping.
const Blank = " "

var symbols = map[string]string{
	// Latin letters. Uppercase input is folded before lookup.
	"a": "⠁", "b": "⠃", "c": "⠉", "d": "⠙", "e": "⠑",
	"f": "⠋", "g": "⠛", "h": "⠓", "i": "⠊", "j": "⠚",
	"k": "⠅", "l": "⠇", "m": "⠍", "n": "⠝", "o": "⠕",
	"p": "⠏", "q": "⠟", "r": "⠗", "s": "⠎", "t": "⠞",
	"u": "⠥", "v": "⠧", "w": "⠺", "x": "⠭", "y": "⠽",
	"z": "⠵",

	" ": " ", "\n": "\n",

	// Devanagari vowels and consonants
	"अ": "⠁", "आ": "⠡", "इ": "⠊", "ई": "⠒", "उ": "⠥",
	"ऊ": "⠳", "ए": "⠑", "ऐ": "⠣", "ओ": "⠕", "औ": "⠷",
	"ऋ": "⠗", "क": "⠅", "ख": "⠩", "ग": "⠛", "घ": "⠣",
	"ङ": "⠻", "च": "⠉", "छ": "⠡", "ज": "⠚", "झ": "⠒",
	"ञ": "⠱", "ट": "⠞", "ठ": "⠾", "ड": "⠙", "ढ": "⠹",
	"ण": "⠻", "त": "⠞", "थ": "⠮", "द": "⠙", "ध": "⠹",
	"न": "⠝", "प": "⠏", "फ": "⠟", "ब": "⠃", "भ": "⠫",
	"म": "⠍", "य": "⠽", "र": "⠗", "ल": "⠇", "व": "⠧",
	"श": "⠱", "ष": "⠳", "स": "⠎", "ह": "⠓",

	// grouped units: conjuncts and nukta forms
	"क्ष": "⠟", "ज्ञ": "⠻",
	"ड़": "⠚", "ढ़": "⠚", "फ़": "⠋", "ज़": "⠵",
	"ग्य": "⠛⠽", "त्र": "⠞⠗", "श्र": "⠱⠗",

	// vowel signs
	"ा": "⠡", "ि": "⠊", "ी": "⠒", "ु": "⠥", "ू": "⠳",
	"े": "⠑", "ै": "⠣", "ो": "⠕", "ौ": "⠷", "ृ": "⠗",

	// virama, anusvara, visarga, chandrabindu
	"्": "⠄", "ं": "⠈", "ः": "⠘", "ँ": "⠨",

	// Devanagari digits
	"०": "⠚", "१": "⠁", "२": "⠃", "३": "⠉", "४": "⠙",
	"५": "⠑", "६": "⠋", "७": "⠛", "८": "⠓", "९": "⠊",

	// punctuation
	"।": "⠲", ",": "⠂", "?": "⠦", "!": "⠖", "\"": "⠶",
	"'": "⠄", ";": "⠆", ":": "⠒", ".": "⠲", "-": "⠤",
	"(": "⠶", ")": "⠶", "/": "⠌",
}

// MaxUnitLen is the length in runes of the longest key in the symbol map.
var MaxUnitLen = maxKeyRunes()

func maxKeyRunes() int {
	n := 1
	for k := range symbols {
		if l := utf8.RuneCountInString(k); l > n {
			n = l
		}
	}
	return n
}

// Lookup returns the Braille cells for a single character or grouped unit.
// The unit must already be case-folded.
func Lookup(unit string) (string, bool) {
	s, ok := symbols[unit]
	return s, ok
}

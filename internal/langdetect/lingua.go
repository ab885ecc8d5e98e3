// Package langdetect guesses the source language of a text locally when a
// translation provider does not report one.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/quill/internal/language"
)

// minLetters is the shortest sample lingua is asked about; shorter texts
// produce unreliable guesses.
const minLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Detect returns the catalog code ("EN", "DE", ...) of text, or "" when the
// sample is too short or lingua is not confident.
func Detect(text string) string {
	if !hasEnoughLetters(text) {
		return ""
	}

	detected, exists := getDetector().DetectLanguageOf(strings.TrimSpace(text))
	if !exists {
		return ""
	}

	code := detected.IsoCode639_1().String()
	if len(code) != 2 {
		return ""
	}
	return language.CatalogCode(code)
}

func hasEnoughLetters(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if letters >= minLetters {
				return true
			}
		}
	}
	return false
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})
	return detector
}

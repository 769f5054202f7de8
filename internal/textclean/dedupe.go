// Package textclean holds the pure text routines the summarization pipeline
// runs on model output and raw object bodies.
package textclean

import (
	"regexp"
	"strings"
	"unicode"
)

// Mode is the deduplication strategy picked once per call.
type Mode int

const (
	// ModeProse treats the input as punctuation-delimited sentences.
	ModeProse Mode = iota
	// ModeBullet treats the input as a list of marker-prefixed items.
	ModeBullet
)

func (m Mode) String() string {
	if m == ModeBullet {
		return "bullet"
	}
	return "prose"
}

const bulletMarkers = "-*•"

// nonAlphanumericRegex matches every run that cannot be part of a key token.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// dottedCapitalI lowercases to "i" plus a combining dot above, as full Unicode
// case mapping requires; strings.ToLower drops the dot.
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// NormalizeKey lowercases s and collapses everything outside [a-z0-9] into
// single spaces. Non-ASCII letters count as separators.
func NormalizeKey(s string) string {
	cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(dottedCapitalI.Replace(s)), " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// DetectMode reports ModeBullet when any line starts with a bullet marker
// after leading whitespace is removed.
func DetectMode(lines []string) Mode {
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" && strings.ContainsRune(bulletMarkers, []rune(trimmed)[0]) {
			return ModeBullet
		}
	}
	return ModeProse
}

// Dedupe removes lines or sentences whose normalized key was already seen,
// keeping the first occurrence of each. It never fails; blank input yields "".
func Dedupe(text string) string {
	lines := splitLines(text)
	if DetectMode(lines) == ModeBullet {
		return dedupeBullets(lines)
	}
	return dedupeProse(text)
}

func dedupeBullets(lines []string) string {
	seen := make(map[string]struct{})
	var bullets []string
	for _, raw := range lines {
		stripped := strings.TrimSpace(raw)
		if stripped == "" {
			continue
		}
		content := strings.TrimSpace(strings.TrimLeftFunc(stripped, isMarkerOrSpace))
		if content == "" {
			continue
		}
		key := NormalizeKey(content)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		bullets = append(bullets, "- "+content)
	}
	return strings.Join(bullets, "\n")
}

func isMarkerOrSpace(r rune) bool {
	return strings.ContainsRune(bulletMarkers, r) || unicode.IsSpace(r)
}

func dedupeProse(text string) string {
	seen := make(map[string]struct{})
	var sentences []string
	for _, segment := range splitSentences(strings.TrimSpace(text)) {
		sentence := strings.TrimSpace(segment)
		if sentence == "" {
			continue
		}
		key := NormalizeKey(sentence)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sentences = append(sentences, sentence)
	}
	return strings.Join(sentences, " ")
}

// splitLines breaks text on the usual line boundaries. Empty lines are
// dropped since neither mode keeps them.
func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			return true
		}
		return false
	})
}

// splitSentences cuts text at every whitespace run that directly follows
// '.', '!' or '?'. Abbreviations and decimals are not special-cased.
func splitSentences(text string) []string {
	var segments []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) || i == 0 || !isTerminal(runes[i-1]) {
			continue
		}
		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		segments = append(segments, string(runes[start:i]))
		start = j
		i = j - 1
	}
	return append(segments, string(runes[start:]))
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

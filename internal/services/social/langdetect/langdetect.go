// Package langdetect guesses the language of short posts.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Unknown is the explicit "could not tell" result of a Detector.
const Unknown = "UNKNOWN"

// MaxTagLength is the longest language tag stored with a post.
const MaxTagLength = 5

// Detector guesses a language tag for text.
type Detector interface {
	Detect(text string) (string, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(text string) (string, error)

// Detect calls f.
func (f DetectorFunc) Detect(text string) (string, error) {
	return f(text)
}

// Whatlang detects languages with trigram statistics.
type Whatlang struct {
	// MinConfidence discards guesses below this score (0..1).
	MinConfidence float64
}

// Detect returns the ISO 639-1 code of the detected language, or Unknown.
func (w Whatlang) Detect(text string) (string, error) {
	info := whatlanggo.Detect(text)
	if info.Script == nil || info.Lang < 0 || info.Confidence < w.MinConfidence {
		return Unknown, nil
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return Unknown, nil
	}
	return code, nil
}

// Normalize maps a detector result to the stored tag: "" for Unknown,
// malformed tags, and tags longer than MaxTagLength.
func Normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, Unknown) || len(tag) > MaxTagLength {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil || parsed == language.Und {
		return ""
	}
	canonical := parsed.String()
	if len(canonical) > MaxTagLength {
		return ""
	}
	return canonical
}

// Tag runs d on text and normalizes the result. Detector failures and a nil
// detector yield "".
func Tag(d Detector, text string) string {
	if d == nil {
		return ""
	}
	raw, err := d.Detect(text)
	if err != nil {
		return ""
	}
	return Normalize(raw)
}

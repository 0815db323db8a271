package extractor

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

const (
	// languageSampleChars caps how much text the stop-word scoring sees.
	languageSampleChars = 1000

	// languageMatchThreshold is the minimum stop-word hit count before a
	// language wins over "Unknown".
	languageMatchThreshold = 3
)

// languageProfile scores one language by whole-word stop-word matches.
// Profiles are evaluated in slice order; ties keep the earlier language.
type languageProfile struct {
	name    string
	pattern *regexp.Regexp
}

var languageProfiles = []languageProfile{
	{"English", regexp.MustCompile(`(?i)\b(?:the|and|of|to|in|is|that|it|for|was)\b`)},
	{"Spanish", regexp.MustCompile(`(?i)\b(?:el|la|de|que|y|en|un|una|los|las)\b`)},
	{"French", regexp.MustCompile(`(?i)\b(?:le|la|les|de|et|un|une|que|dans|pour)\b`)},
	{"German", regexp.MustCompile(`(?i)\b(?:der|die|und|das|den|von|zu|mit|ist|nicht)\b`)},
	{"Italian", regexp.MustCompile(`(?i)\b(?:il|di|che|la|e|un|per|una|con|non)\b`)},
}

// TextExtractor derives word/character/line counts, a text-encoding
// heuristic, and a stop-word language guess.
type TextExtractor struct{}

func (e *TextExtractor) Name() string { return "text" }

func (e *TextExtractor) CanHandle(name, mimeType string) bool {
	if strings.HasPrefix(strings.ToLower(mimeType), "text/") {
		return true
	}
	switch lowerExt(name) {
	case ".txt", ".md":
		return true
	}
	return false
}

func (e *TextExtractor) Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error {
	text := decodeText(handle.Data)

	words, chars, lines := countText(text)
	record.Content.WordCount = &words
	record.Content.CharCount = &chars
	record.Content.LineCount = &lines

	encoding := detectEncoding(handle.Data, text)
	record.Technical.Encoding = &encoding

	lang := detectLanguage(text)
	record.Content.Language = &lang

	logger.Debugf("text extraction for %s: %d words, %d lines, encoding=%s, language=%s",
		handle.Name, words, lines, encoding, lang)
	return nil
}

// decodeText interprets the buffer as UTF-8, substituting the replacement
// character for invalid sequences the way a lossy text decoder would.
func decodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}

// countText returns whitespace-delimited word count (empty tokens
// excluded), character count, and newline-delimited segment count.
func countText(text string) (words, chars, lines int) {
	words = len(strings.Fields(text))
	chars = utf8.RuneCountInString(text)
	lines = strings.Count(text, "\n") + 1
	return words, chars, lines
}

// detectEncoding is intentionally coarse: replacement characters mean the
// buffer was not really text, a high bit anywhere means UTF-8, otherwise
// plain ASCII.
func detectEncoding(data []byte, text string) string {
	if strings.ContainsRune(text, utf8.RuneError) {
		return "binary/unknown"
	}
	for _, b := range data {
		if b > 0x7F {
			return "UTF-8"
		}
	}
	return "ASCII"
}

// detectLanguage scores each profile against the first 1000 characters and
// keeps the highest count above the threshold, first profile winning ties.
func detectLanguage(text string) string {
	sample := text
	if utf8.RuneCountInString(sample) > languageSampleChars {
		runes := []rune(sample)
		sample = string(runes[:languageSampleChars])
	}

	best := "Unknown"
	bestCount := 0
	for _, profile := range languageProfiles {
		count := len(profile.pattern.FindAllStringIndex(sample, -1))
		if count > languageMatchThreshold && count > bestCount {
			best = profile.name
			bestCount = count
		}
	}
	return best
}

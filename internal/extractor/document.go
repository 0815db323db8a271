package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// DocumentExtractor performs a heuristic structural scan of PDF bytes. It
// treats the buffer as single-byte-per-character text and pattern-matches
// the /Info dictionary, page markers, and printable content. It is not a
// PDF object-model parser: object streams are never decompressed, and
// malformed or compressed documents simply yield fewer fields.
type DocumentExtractor struct{}

// infoWindowBytes bounds how far past the /Info marker the dictionary
// scan looks.
const infoWindowBytes = 4096

var (
	pdfInfoMarker   = []byte("/Info")
	pdfTitleRe      = regexp.MustCompile(`/Title\s*\(([^)]*)\)`)
	pdfAuthorRe     = regexp.MustCompile(`/Author\s*\(([^)]*)\)`)
	pdfKeywordsRe   = regexp.MustCompile(`/Keywords\s*\(([^)]*)\)`)
	pdfPageRe       = regexp.MustCompile(`/Type\s*/Page(?:[^s]|$)`)
	pdfProducerRe   = regexp.MustCompile(`/Producer\s*\(([^)]*)\)`)
	pdfCreatorAppRe = regexp.MustCompile(`/Creator\s*\(([^)]*)\)`)
)

func (e *DocumentExtractor) Name() string { return "document" }

func (e *DocumentExtractor) CanHandle(name, mimeType string) bool {
	if strings.Contains(strings.ToLower(mimeType), "pdf") {
		return true
	}
	return lowerExt(name) == ".pdf"
}

func (e *DocumentExtractor) Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error {
	text := latin1String(handle.Data)

	e.extractInfoDictionary(text, record)

	if pages := len(pdfPageRe.FindAllStringIndex(text, -1)); pages > 0 {
		record.Content.PageCount = &pages
	}

	// Word/char counts reuse the text extractor's counting over a copy
	// with non-printable bytes collapsed to whitespace.
	printable := stripNonPrintable(text)
	words, chars, lines := countText(printable)
	record.Content.WordCount = &words
	record.Content.CharCount = &chars
	record.Content.LineCount = &lines

	logger.Debugf("pdf scan for %s: pages=%v, words=%d", handle.Name, record.Content.PageCount, words)
	return nil
}

// extractInfoDictionary locates the /Info marker and matches the
// parenthesis-delimited literal strings that follow it.
func (e *DocumentExtractor) extractInfoDictionary(text string, record *types.MetadataRecord) {
	idx := strings.Index(text, string(pdfInfoMarker))
	if idx < 0 {
		return
	}

	end := idx + infoWindowBytes
	if end > len(text) {
		end = len(text)
	}
	window := text[idx:end]

	if m := pdfTitleRe.FindStringSubmatch(window); m != nil && m[1] != "" {
		title := m[1]
		record.Authorship.Subject = &title
	}
	if m := pdfAuthorRe.FindStringSubmatch(window); m != nil && m[1] != "" {
		author := m[1]
		record.Authorship.Creator = &author
	}
	if m := pdfKeywordsRe.FindStringSubmatch(window); m != nil && m[1] != "" {
		for _, kw := range strings.Split(m[1], ",") {
			kw = strings.TrimSpace(kw)
			if kw != "" {
				record.Authorship.Keywords = append(record.Authorship.Keywords, kw)
			}
		}
	}
	if m := pdfProducerRe.FindStringSubmatch(window); m != nil && m[1] != "" {
		record.Tag("pdf_producer", m[1])
	}
	if m := pdfCreatorAppRe.FindStringSubmatch(window); m != nil && m[1] != "" {
		record.Tag("pdf_creator", m[1])
	}
}

// latin1String maps every byte to the code point of the same value, which
// keeps byte offsets and regex semantics stable regardless of what the raw
// bytes contain.
func latin1String(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// stripNonPrintable replaces every character outside printable ASCII with a
// space, keeping newlines so line counting still works.
func stripNonPrintable(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r > 0x7E {
			return ' '
		}
		return r
	}, text)
}

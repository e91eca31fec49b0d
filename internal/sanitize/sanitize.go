// Package sanitize redacts forbidden words from free-text memos before they
// leave the process.
package sanitize

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EmptyPlaceholder replaces an empty memo.
const EmptyPlaceholder = "No memo"

// Sanitizer holds a compiled forbidden-word pattern. It is immutable after
// construction and safe for concurrent use.
type Sanitizer struct {
	words   []string
	pattern *regexp.Regexp
}

// New builds a Sanitizer for words. Matching is case-insensitive and limited
// to whole words.
func New(words []string) *Sanitizer {
	seen := make(map[string]struct{}, len(words))
	var cleaned []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		cleaned = append(cleaned, w)
	}

	s := &Sanitizer{words: cleaned}
	if len(cleaned) == 0 {
		return s
	}

	// Longest first so a word never loses to one of its own prefixes.
	alternatives := make([]string, len(cleaned))
	copy(alternatives, cleaned)
	sort.SliceStable(alternatives, func(i, j int) bool {
		return len(alternatives[i]) > len(alternatives[j])
	})
	for i, w := range alternatives {
		alternatives[i] = regexp.QuoteMeta(w)
	}
	// Boundaries are checked in Sanitize: regexp \b only knows ASCII letters.
	s.pattern = regexp.MustCompile(`(?i)(?:` + strings.Join(alternatives, "|") + `)`)
	return s
}

// LoadWords reads one forbidden word per line from path. Blank lines and lines
// starting with '#' are skipped. A missing file yields an empty Sanitizer.
func LoadWords(path string) (*Sanitizer, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("forbidden words file not found, memos will not be redacted", "path", path)
			return New(nil), nil
		}
		return nil, fmt.Errorf("failed to open forbidden words file: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read forbidden words file: %w", err)
	}

	s := New(words)
	slog.Info("loaded forbidden words", "path", path, "count", s.Len())
	return s, nil
}

// Len returns the number of distinct forbidden words.
func (s *Sanitizer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Sanitize replaces every forbidden word in text with asterisks, one per
// character, so the output keeps the input's length.
func (s *Sanitizer) Sanitize(text string) string {
	if text == "" {
		return EmptyPlaceholder
	}
	if s == nil || s.pattern == nil {
		return text
	}

	var b strings.Builder
	pos := 0
	for search := 0; search < len(text); {
		loc := s.pattern.FindStringIndex(text[search:])
		if loc == nil {
			break
		}
		start, end := search+loc[0], search+loc[1]
		if start == end || !atBoundary(text, start) || !atBoundary(text, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			search = start + size
			continue
		}
		b.WriteString(text[pos:start])
		b.WriteString(strings.Repeat("*", utf8.RuneCountInString(text[start:end])))
		pos, search = end, end
	}
	if pos == 0 {
		return text
	}
	b.WriteString(text[pos:])
	return b.String()
}

// atBoundary reports whether a word starts or ends at byte offset i.
func atBoundary(text string, i int) bool {
	before, _ := utf8.DecodeLastRuneInString(text[:i])
	after, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(before) != isWordRune(after)
}

func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

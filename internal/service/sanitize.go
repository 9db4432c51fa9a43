package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/folio/backend/internal/model"
)

// jsSpace is the character class of ECMAScript whitespace and line
// terminators, which is wider than RE2's ASCII-only \s.
const jsSpace = `\p{Zs}\t\n\v\f\r\x{2028}\x{2029}\x{FEFF}`

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	unsafeChars    = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "", "&", "")
)

// Sanitize removes tag-shaped substrings and the characters < > ' " &,
// then trims surrounding whitespace.
func Sanitize(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = unsafeChars.Replace(s)
	return strings.TrimFunc(s, isJSSpace)
}

// isJSSpace reports whether r is trimmed by ECMAScript's String.prototype.trim.
func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// SanitizeInput sanitizes every field of in. Presence flags are kept.
func SanitizeInput(in model.SubmissionInput) model.SubmissionInput {
	clean := func(f model.FormField) model.FormField {
		f.Value = Sanitize(f.Value)
		return f
	}
	return model.SubmissionInput{
		Name:    clean(in.Name),
		Email:   clean(in.Email),
		Subject: clean(in.Subject),
		Message: clean(in.Message),
	}
}

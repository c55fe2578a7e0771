// Package resume scores resumes against a job description by keyword overlap.
package resume

import (
	_ "embed"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultJobDescription is scored against when no job description is uploaded
const DefaultJobDescription = "python machine learning big data cloud"

//go:embed stopwords.txt
var stopwordList string

// stopwords is the NLTK English stop word list
var stopwords = func() map[string]struct{} {
	words := strings.Fields(stopwordList)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// Tokenize splits text into words the way the Penn Treebank tokenizer does,
// keeps only lower-cased words made entirely of letters and removes English
// stop words. Hyphenated and slashed words stay whole, so "machine-learning"
// and "CI/CD" are dropped rather than counted as two skills.
func Tokenize(text string) []string {
	lower := cases.Lower(language.English)

	words := treebankWords(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if !isAlpha(w) {
			continue
		}
		w = lower.String(w)
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// separators always end a word; the characters themselves never form
// alphabetic tokens, so they are dropped instead of emitted.
const separators = ";@#$%&?!()[]{}<>\"\u201c\u201d"

const quotes = "'`\u2018"

// clitics are split off the preceding word ("don't" -> "do", "n't")
var clitics = []string{"n't", "'s", "'m", "'d", "'ll", "'re", "'ve"}

func treebankWords(text string) []string {
	runes := []rune(strings.ReplaceAll(text, "--", " "))

	var b strings.Builder
	for i, r := range runes {
		switch {
		case strings.ContainsRune(separators, r):
			b.WriteByte(' ')
		case (r == ',' || r == ':') && !(i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			// 1,000 and 10:30 stay together
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		// sentence-final periods and surrounding quotes are separate tokens
		f = strings.ReplaceAll(f, "\u2019", "'")
		f = strings.Trim(strings.TrimRight(strings.Trim(f, quotes), "."), quotes)
		f = stripClitic(f)
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func stripClitic(word string) string {
	for _, c := range clitics {
		if len(word) > len(c) && strings.EqualFold(word[len(word)-len(c):], c) {
			return word[:len(word)-len(c)]
		}
	}
	return word
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

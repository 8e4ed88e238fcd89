package wikiwisch

import (
	"regexp"
	"strings"
)

type CleanFunc func(string) string

var whitespaceRegexp = regexp.MustCompile(`\s+`)

func Clean(str string, cleanFuncs ...CleanFunc) string {
	cleaned := str
	for _, clean := range cleanFuncs {
		cleaned = clean(cleaned)
	}

	return cleaned
}

func CleaningPipe(cleanFuncs ...CleanFunc) CleanFunc {
	return func(str string) string {
		return Clean(str, cleanFuncs...)
	}
}

func OneLine(str string) string {
	return strings.Replace(str, "\n", " ", -1)
}

// CollapseWhitespace folds any run of whitespace into a single space.
func CollapseWhitespace(str string) string {
	return whitespaceRegexp.ReplaceAllString(str, " ")
}

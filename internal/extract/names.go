package extract

import (
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// checkName returns name if it is a plain identifier and "" otherwise.
func checkName(name string) string {
	if identPattern.MatchString(name) {
		return name
	}
	return ""
}

// makeName turns a spelling such as an operator or mangled name into
// something usable as an identifier by downstream generators.
func makeName(name string) string {
	name = strings.ReplaceAll(name, "$", "DOLLAR")
	name = strings.ReplaceAll(name, ".", "DOT")
	switch {
	case name == "":
		return name
	case strings.HasPrefix(name, "__"):
		return "_X" + name
	case name[0] >= '0' && name[0] <= '9':
		return "_" + name
	}
	return name
}

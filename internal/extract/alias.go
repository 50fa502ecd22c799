package extract

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/cwrap/cwrap/internal/ast"
)

// Defines is the macro table parsed from a defines blob, in first
// definition order.
type Defines struct {
	Macros  []*ast.Macro
	Aliases []*ast.Alias
}

type define struct {
	macro *ast.Macro
	alias *ast.Alias
}

// ParseDefines reads one definition per line: "NAME(args) body" for
// function-like macros and "NAME value" for object-like ones. A later
// definition of a name replaces the earlier one in place. Lines that do not
// start with an identifier are skipped.
func ParseDefines(blob string, log *slog.Logger) Defines {
	if log == nil {
		log = slog.Default()
	}
	var (
		order []string
		byName = make(map[string]define)
	)
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d, name, ok := parseDefine(line)
		if !ok {
			log.Debug("skipping malformed define", "line", line)
			continue
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = d
	}

	var out Defines
	for _, name := range order {
		d := byName[name]
		if d.macro != nil {
			out.Macros = append(out.Macros, d.macro)
		} else {
			out.Aliases = append(out.Aliases, d.alias)
		}
	}
	return out
}

func parseDefine(line string) (define, string, bool) {
	end := strings.IndexFunc(line, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if end < 0 {
		end = len(line)
	}
	name := line[:end]
	if checkName(name) == "" {
		return define{}, "", false
	}
	rest := line[end:]

	if strings.HasPrefix(rest, "(") {
		closing := strings.IndexByte(rest, ')')
		if closing < 0 {
			return define{}, "", false
		}
		m := &ast.Macro{
			Common: ast.Common{Name: name},
			Args:   rest[:closing+1],
			Body:   strings.TrimSpace(rest[closing+1:]),
		}
		return define{macro: m}, name, true
	}
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return define{}, "", false
	}
	a := &ast.Alias{Common: ast.Common{Name: name}, Value: strings.TrimSpace(rest)}
	return define{alias: a}, name, true
}

// ResolveAliases points each alias at the declaration its value names, or
// failing that at the alias its value names. Resolution is a single lookup
// per alias: an alias of an alias is not followed further. Values that name
// nothing stay unresolved.
func ResolveAliases(aliases []*ast.Alias, namespace map[string]ast.NodeID) {
	byName := make(map[string]*ast.Alias, len(aliases))
	for _, a := range aliases {
		byName[a.Name] = a
	}
	for _, a := range aliases {
		if id, ok := namespace[a.Value]; ok {
			a.Target = id
			continue
		}
		if other, ok := byName[a.Value]; ok && other != a {
			a.Of = other
		}
	}
}

package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// evalConst evaluates an integer constant expression: literals, enum
// constants already seen, and the arithmetic, bitwise, logical and
// comparison operators. Anything else fails.
func (u *unit) evalConst(n *sitter.Node) (int64, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Type() {
	case "number_literal":
		return parseInteger(u.text(n))

	case "char_literal":
		return parseChar(u.text(n))

	case "true":
		return 1, true
	case "false":
		return 0, true

	case "identifier":
		v, ok := u.enumVals[u.text(n)]
		return v, ok

	case "parenthesized_expression":
		if n.NamedChildCount() != 1 {
			return 0, false
		}
		return u.evalConst(n.NamedChild(0))

	case "cast_expression":
		return u.evalConst(n.ChildByFieldName("value"))

	case "unary_expression":
		v, ok := u.evalConst(n.ChildByFieldName("argument"))
		if !ok {
			return 0, false
		}
		switch u.text(n.ChildByFieldName("operator")) {
		case "-":
			return -v, true
		case "+":
			return v, true
		case "~":
			return ^v, true
		case "!":
			return boolInt(v == 0), true
		}
		return 0, false

	case "binary_expression":
		l, ok := u.evalConst(n.ChildByFieldName("left"))
		if !ok {
			return 0, false
		}
		r, ok := u.evalConst(n.ChildByFieldName("right"))
		if !ok {
			return 0, false
		}
		return binary(u.text(n.ChildByFieldName("operator")), l, r)

	case "conditional_expression":
		c, ok := u.evalConst(n.ChildByFieldName("condition"))
		if !ok {
			return 0, false
		}
		if c != 0 {
			return u.evalConst(n.ChildByFieldName("consequence"))
		}
		return u.evalConst(n.ChildByFieldName("alternative"))
	}
	return 0, false
}

func binary(op string, l, r int64) (int64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case "%":
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case "<<":
		if r < 0 || r > 63 {
			return 0, false
		}
		return l << uint(r), true
	case ">>":
		if r < 0 || r > 63 {
			return 0, false
		}
		return l >> uint(r), true
	case "&":
		return l & r, true
	case "|":
		return l | r, true
	case "^":
		return l ^ r, true
	case "&&":
		return boolInt(l != 0 && r != 0), true
	case "||":
		return boolInt(l != 0 || r != 0), true
	case "==":
		return boolInt(l == r), true
	case "!=":
		return boolInt(l != r), true
	case "<":
		return boolInt(l < r), true
	case "<=":
		return boolInt(l <= r), true
	case ">":
		return boolInt(l > r), true
	case ">=":
		return boolInt(l >= r), true
	}
	return 0, false
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// parseInteger parses a C integer literal, ignoring its suffix.
func parseInteger(lit string) (int64, bool) {
	lit = strings.ReplaceAll(lit, "'", "")
	lit = strings.TrimRight(lit, "uUlLzZ")
	if lit == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return v, true
	}
	v, err := strconv.ParseUint(lit, 0, 64)
	if err != nil {
		return 0, false
	}
	return int64(v), true
}

// parseChar evaluates a character literal such as 'a' or '\n'.
func parseChar(lit string) (int64, bool) {
	i := strings.IndexByte(lit, '\'')
	if i < 0 || !strings.HasSuffix(lit, "'") || len(lit) < i+3 {
		return 0, false
	}
	body := lit[i+1 : len(lit)-1]
	if len(body) > 1 && len(body) <= 4 && body[0] == '\\' {
		if v, err := strconv.ParseInt(body[1:], 8, 64); err == nil {
			return v, true
		}
	}
	v, _, tail, err := strconv.UnquoteChar(body, '\'')
	if err != nil || tail != "" {
		return 0, false
	}
	return int64(v), true
}

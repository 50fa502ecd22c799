package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cwrap/cwrap/internal/cursor"
)

// scope is the semantic parent of the declarations being materialized.
type scope struct {
	// id is the identity of the enclosing entity.
	id cursor.ID
	// prefix starts the identities of named members: "c:" at file level
	// and the enclosing identity for C++ namespaces and classes.
	prefix string
	// record is set inside a struct, union or class body.
	record *node
}

func (u *unit) translationUnit(root *sitter.Node) *node {
	tu := &node{
		id:      cursor.ID("c:" + u.path),
		kind:    cursor.KindTranslationUnit,
		display: u.path,
		bits:    -1,
	}
	s := scope{id: tu.id, prefix: "c:"}
	tu.children = u.members(root, s)
	return tu
}

// members materializes every named child of a declaration list.
func (u *unit) members(list *sitter.Node, s scope) []cursor.Cursor {
	if list == nil {
		return nil
	}
	var out []cursor.Cursor
	for i := 0; i < int(list.NamedChildCount()); i++ {
		out = append(out, u.declaration(list.NamedChild(i), s)...)
	}
	return out
}

// declaration materializes one top-level or member item. Declarations with
// several declarators yield several cursors, preceded by any tag they
// define.
func (u *unit) declaration(n *sitter.Node, s scope) []cursor.Cursor {
	switch n.Type() {
	case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
		return u.conditional(n, s)
	}
	kind, ok := u.nodeKind(n.Type())
	if !ok {
		return nil
	}
	switch kind {
	case cursor.KindVarDecl, cursor.KindFieldDecl:
		return u.simpleDeclaration(n, s)
	case cursor.KindFunctionDecl:
		return u.functionDefinition(n, s)
	case cursor.KindTypedefDecl:
		if n.Type() == "alias_declaration" {
			return u.aliasDeclaration(n, s)
		}
		return u.typeDefinition(n, s)
	case cursor.KindStructDecl, cursor.KindUnionDecl, cursor.KindClassDecl, cursor.KindEnumDecl:
		t, pre := u.specifierType(n, s)
		if len(pre) == 0 {
			if fwd := u.forwardDeclaration(n, t, s); fwd != nil {
				pre = append(pre, fwd)
			}
		}
		return pre
	case cursor.KindNamespace:
		return []cursor.Cursor{u.namespace(n, s)}
	case cursor.KindLinkageSpec:
		return []cursor.Cursor{u.linkage(n, s)}
	case cursor.KindInclusionDirective:
		return []cursor.Cursor{u.simple(n, kind, u.text(n.ChildByFieldName("path")), s, "inc")}
	case cursor.KindMacroDefinition:
		return []cursor.Cursor{u.macro(n, s)}
	case cursor.KindEnumConstantDecl, cursor.KindParmDecl:
		// materialized by their enum or function
		return nil
	}
	return []cursor.Cursor{u.simple(n, kind, u.text(n.ChildByFieldName("name")), s, n.Type())}
}

// nodeKind returns the cursor kind a tree-sitter node type declares in the
// unit's language.
func (u *unit) nodeKind(nodeType string) (cursor.Kind, bool) {
	if u.lang == Cpp {
		if kind, ok := CppNodeKinds[nodeType]; ok {
			return kind, true
		}
	}
	kind, ok := CNodeKinds[nodeType]
	return kind, ok
}

// conditional descends into every branch of a preprocessor conditional;
// nothing is evaluated.
func (u *unit) conditional(n *sitter.Node, s scope) []cursor.Cursor {
	var out []cursor.Cursor
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "field_declaration_list" {
			out = append(out, u.members(child, s)...)
			continue
		}
		out = append(out, u.declaration(child, s)...)
	}
	return out
}

// simple builds a cursor carrying only a kind, a name and a location.
func (u *unit) simple(n *sitter.Node, kind cursor.Kind, name string, s scope, suffix string) *node {
	return &node{
		id:     u.anonID(n, suffix),
		kind:   kind,
		name:   name,
		loc:    u.location(n),
		parent: s.id,
		bits:   -1,
	}
}

func (u *unit) macro(n *sitter.Node, s scope) *node {
	name := u.text(n.ChildByFieldName("name"))
	c := u.simple(n, cursor.KindMacroDefinition, name, s, "macro@"+name)
	if u.opts.DetailedPreprocessing {
		value := collapse(u.text(n.ChildByFieldName("value")))
		line := name
		if params := n.ChildByFieldName("parameters"); params != nil {
			line += collapse(u.text(params))
		}
		if value != "" {
			line += " " + value
		}
		u.defines = append(u.defines, line)
	}
	return c
}

// collapse joins continuation lines and folds whitespace.
func collapse(s string) string {
	s = strings.ReplaceAll(s, "\\\r\n", " ")
	s = strings.ReplaceAll(s, "\\\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

func (u *unit) namespace(n *sitter.Node, s scope) *node {
	name := u.text(n.ChildByFieldName("name"))
	id := cursor.ID(s.prefix + "@N@" + name)
	if name == "" {
		id = u.anonID(n, "N")
	}
	ns := &node{
		id:         id,
		kind:       cursor.KindNamespace,
		name:       name,
		loc:        u.location(n),
		parent:     s.id,
		bits:       -1,
		definition: true,
	}
	ns.children = u.members(n.ChildByFieldName("body"), scope{id: id, prefix: string(id)})
	return ns
}

// linkage builds an extern "C" block. Its members keep the enclosing
// scope as their semantic parent.
func (u *unit) linkage(n *sitter.Node, s scope) *node {
	ls := u.simple(n, cursor.KindLinkageSpec, "", s, "LS")
	body := n.ChildByFieldName("body")
	if body == nil {
		return ls
	}
	if body.Type() == "declaration_list" {
		ls.children = u.members(body, s)
	} else {
		ls.children = u.declaration(body, s)
	}
	return ls
}

// tagID returns the identity of a struct, union, class or enum.
func (u *unit) tagID(n *sitter.Node, letter, name string, s scope) cursor.ID {
	if name == "" {
		return u.anonID(n, letter)
	}
	if u.lang == Cpp {
		return cursor.ID(s.prefix + "@" + letter + "@" + name)
	}
	return cursor.ID("c:@" + letter + "@" + name)
}

func tagLetter(kind cursor.Kind) string {
	switch kind {
	case cursor.KindUnionDecl:
		return "U"
	case cursor.KindEnumDecl:
		return "E"
	default:
		return "S"
	}
}

// tagDefinition materializes a struct, union, class or enum specifier that
// has a body.
func (u *unit) tagDefinition(n *sitter.Node, kind cursor.Kind, s scope) *node {
	name := u.text(n.ChildByFieldName("name"))
	letter := tagLetter(kind)
	c := &node{
		id:         u.tagID(n, letter, name, s),
		kind:       kind,
		name:       name,
		loc:        u.location(n),
		parent:     s.id,
		bits:       -1,
		definition: true,
	}
	c.typ = u.tagType(kind, name, c)
	u.declare(letter, name, c)

	body := n.ChildByFieldName("body")
	if kind == cursor.KindEnumDecl {
		c.children = u.enumerators(body, c)
		return c
	}

	inner := scope{id: c.id, prefix: "c:", record: c}
	if u.lang == Cpp {
		inner.prefix = string(c.id)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "base_class_clause" {
			c.children = append(c.children, u.bases(child, c)...)
		}
	}
	c.children = append(c.children, u.members(body, inner)...)
	return c
}

// forwardDeclaration materializes `struct Foo;` and similar.
func (u *unit) forwardDeclaration(n *sitter.Node, t cursor.Type, s scope) *node {
	if n == nil {
		return nil
	}
	kind, ok := tagKind(n.Type())
	if !ok {
		return nil
	}
	name := u.text(n.ChildByFieldName("name"))
	if name == "" {
		return nil
	}
	letter := tagLetter(kind)
	c := &node{
		id:     u.tagID(n, letter, name, s),
		kind:   kind,
		name:   name,
		loc:    u.location(n),
		parent: s.id,
		bits:   -1,
		typ:    t,
	}
	u.declare(letter, name, c)
	return c
}

// implicitTag declares a tag first named by an elaborated specifier such
// as `struct handle *h`. It returns nil when the tag is anonymous or
// already declared. In C the tag belongs to the file even when named
// inside a record.
func (u *unit) implicitTag(n *sitter.Node, t *ctype, s scope) *node {
	if t.name == "" || u.lookup(t.tag, t.name) != nil {
		return nil
	}
	c := u.forwardDeclaration(n, t, s)
	if c != nil && u.lang == C && s.record != nil {
		c.parent = cursor.ID("c:" + u.path)
	}
	return c
}

func (u *unit) bases(clause *sitter.Node, record *node) []cursor.Cursor {
	var out []cursor.Cursor
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		b := clause.NamedChild(i)
		switch b.Type() {
		case "type_identifier", "qualified_identifier", "template_type":
		default:
			continue
		}
		name := u.text(b)
		out = append(out, &node{
			id:     cursor.ID(string(record.id) + "@B@" + name),
			kind:   cursor.KindBaseSpecifier,
			name:   name,
			loc:    u.location(b),
			parent: record.id,
			bits:   -1,
			typ:    u.namedType(b),
		})
	}
	return out
}

func (u *unit) enumerators(body *sitter.Node, enum *node) []cursor.Cursor {
	if body == nil {
		return nil
	}
	var (
		out  []cursor.Cursor
		next int64
	)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		e := body.NamedChild(i)
		if e.Type() != "enumerator" {
			continue
		}
		name := u.text(e.ChildByFieldName("name"))
		value := next
		if expr := e.ChildByFieldName("value"); expr != nil {
			if v, ok := u.evalConst(expr); ok {
				value = v
			} else {
				u.diags = append(u.diags, cursor.Diagnostic{
					Severity: cursor.SeverityWarning,
					Location: u.location(expr),
					Category: "Semantic Issue",
					Message:  "cannot evaluate value of enumerator '" + name + "'; assuming " + itoa(value),
				})
			}
		}
		next = value + 1
		u.enumVals[name] = value
		out = append(out, &node{
			id:     cursor.ID(string(enum.id) + "@" + name),
			kind:   cursor.KindEnumConstantDecl,
			name:   name,
			loc:    u.location(e),
			parent: enum.id,
			bits:   -1,
			value:  value,
			typ:    enum.typ,
		})
	}
	return out
}

// simpleDeclaration handles declarations and field declarations: any tag
// defined in the specifier comes first, then one cursor per declarator.
func (u *unit) simpleDeclaration(n *sitter.Node, s scope) []cursor.Cursor {
	base, pre := u.declType(n, s)
	declarators := u.declarators(n)

	if len(declarators) == 0 {
		if n.Type() == "field_declaration" && len(pre) > 0 && pre[len(pre)-1].Spelling() == "" {
			return append(pre, u.field(n, declared{typ: base}, s))
		}
		if len(pre) == 0 {
			if fwd := u.forwardDeclaration(n.ChildByFieldName("type"), base, s); fwd != nil {
				pre = append(pre, fwd)
			}
		}
		return pre
	}

	storage, inline := u.storage(n)
	out := pre
	for _, d := range declarators {
		dd := u.declarator(base, d, s)
		switch {
		case dd.fn != nil && s.record != nil && u.lang == Cpp:
			out = append(out, u.method(n, dd, s))
		case dd.fn != nil:
			out = append(out, u.function(n, dd, storage, inline, false, s))
		case n.Type() == "field_declaration":
			out = append(out, u.field(n, dd, s))
		default:
			out = append(out, u.variable(n, dd, storage, s))
		}
	}
	return out
}

func (u *unit) functionDefinition(n *sitter.Node, s scope) []cursor.Cursor {
	base, pre := u.declType(n, s)
	d := n.ChildByFieldName("declarator")
	if d == nil {
		return pre
	}
	dd := u.declarator(base, d, s)
	if dd.fn == nil {
		return pre
	}
	if s.record != nil && u.lang == Cpp {
		return append(pre, u.method(n, dd, s))
	}
	storage, inline := u.storage(n)
	return append(pre, u.function(n, dd, storage, inline, true, s))
}

func (u *unit) typeDefinition(n *sitter.Node, s scope) []cursor.Cursor {
	base, pre := u.declType(n, s)
	out := pre
	for _, d := range u.declarators(n) {
		dd := u.declarator(base, d, s)
		if dd.name == "" {
			continue
		}
		out = append(out, u.typedef(d, dd.name, dd.typ, s))
	}
	return out
}

// aliasDeclaration handles `using Name = type;`.
func (u *unit) aliasDeclaration(n *sitter.Node, s scope) []cursor.Cursor {
	name := u.text(n.ChildByFieldName("name"))
	td := n.ChildByFieldName("type")
	if name == "" || td == nil {
		return nil
	}
	base, pre := u.declType(td, s)
	dd := u.declarator(base, td.ChildByFieldName("declarator"), s)
	return append(pre, u.typedef(n, name, dd.typ, s))
}

func (u *unit) typedef(n *sitter.Node, name string, underlying cursor.Type, s scope) *node {
	c := &node{
		id:         cursor.ID(s.prefix + "@T@" + name),
		kind:       cursor.KindTypedefDecl,
		name:       name,
		loc:        u.location(n),
		parent:     s.id,
		bits:       -1,
		underlying: underlying,
		definition: true,
	}
	c.typ = &ctype{u: u, kind: cursor.TypeTypedef, spelling: name, name: name, tag: "T", decl: c, count: -1}
	u.declare("T", name, c)
	return c
}

func (u *unit) field(n *sitter.Node, dd declared, s scope) *node {
	c := &node{
		id:     cursor.ID(string(s.id) + "@FI@" + dd.name),
		kind:   cursor.KindFieldDecl,
		name:   dd.name,
		loc:    u.location(n),
		parent: s.id,
		bits:   -1,
		typ:    dd.typ,
	}
	if dd.name == "" {
		c.id = u.anonID(n, "FI")
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if clause := n.NamedChild(i); clause.Type() == "bitfield_clause" && clause.NamedChildCount() > 0 {
			if v, ok := u.evalConst(clause.NamedChild(0)); ok {
				c.bits = int(v)
			}
		}
	}
	return c
}

func (u *unit) variable(n *sitter.Node, dd declared, storage string, s scope) *node {
	c := &node{
		id:      cursor.ID(s.prefix + "@V@" + dd.name),
		kind:    cursor.KindVarDecl,
		name:    dd.name,
		loc:     u.location(n),
		parent:  s.id,
		bits:    -1,
		typ:     dd.typ,
		storage: storage,
	}
	if dd.init != nil {
		c.init = collapse(u.text(dd.init))
	}
	return c
}

func (u *unit) function(n *sitter.Node, dd declared, storage string, inline, definition bool, s scope) *node {
	c := &node{
		id:         u.functionID(dd, s),
		kind:       cursor.KindFunctionDecl,
		name:       dd.name,
		loc:        u.location(n),
		parent:     s.id,
		bits:       -1,
		typ:        dd.typ,
		storage:    storage,
		inline:     inline,
		definition: definition,
	}
	u.signature(c, dd)
	return c
}

// method materializes a member function of a C++ class, classified by its
// declarator name.
func (u *unit) method(n *sitter.Node, dd declared, s scope) *node {
	kind := cursor.KindMethod
	switch {
	case dd.nameNode != nil && dd.nameNode.Type() == "destructor_name":
		kind = cursor.KindDestructor
	case dd.nameNode != nil && dd.nameNode.Type() == "operator_cast":
		kind = cursor.KindConversionFunction
	case s.record != nil && dd.name == s.record.name:
		kind = cursor.KindConstructor
	}
	c := &node{
		id:     u.functionID(dd, s),
		kind:   kind,
		name:   dd.name,
		loc:    u.location(n),
		parent: s.id,
		bits:   -1,
		typ:    dd.typ,
	}
	u.signature(c, dd)
	return c
}

// functionID follows the C convention of one identity per name; C++
// overloads are told apart by their parameter text.
func (u *unit) functionID(dd declared, s scope) cursor.ID {
	id := s.prefix + "@F@" + dd.name
	if u.lang == Cpp && dd.fn != nil {
		id += "#" + collapse(u.text(dd.fn.ChildByFieldName("parameters")))
	}
	return cursor.ID(id)
}

// signature fills in the result type and parameters of a function cursor.
func (u *unit) signature(c *node, dd declared) {
	ft, _ := dd.typ.(*ctype)
	if ft == nil {
		return
	}
	c.result = ft.result
	c.variadic = ft.variadic
	for i, p := range dd.params {
		id := cursor.ID(string(c.id) + "@" + p.name)
		if p.name == "" {
			id = cursor.ID(string(c.id) + "@" + itoa(int64(i)))
		}
		c.args = append(c.args, &node{
			id:     id,
			kind:   cursor.KindParmDecl,
			name:   p.name,
			loc:    p.loc,
			parent: c.id,
			bits:   -1,
			typ:    p.typ,
		})
	}
	c.children = c.args
}

// storage returns the storage class and whether the declaration is inline.
func (u *unit) storage(n *sitter.Node) (string, bool) {
	var (
		storage string
		inline  bool
	)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "storage_class_specifier" {
			continue
		}
		switch word := strings.TrimSpace(u.text(child)); word {
		case "inline", "__inline", "__inline__":
			inline = true
		case "extern", "static":
			storage = word
		}
	}
	return storage, inline
}

// declarators returns the declarator children of a declaration, skipping
// its specifiers and body.
func (u *unit) declarators(n *sitter.Node) []*sitter.Node {
	typeNode := n.ChildByFieldName("type")
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if typeNode != nil && child.StartByte() == typeNode.StartByte() && child.EndByte() == typeNode.EndByte() {
			continue
		}
		switch child.Type() {
		case "type_qualifier", "storage_class_specifier", "attribute_specifier", "attribute_declaration",
			"ms_declspec_modifier", "comment", "bitfield_clause", "compound_statement",
			"virtual", "virtual_specifier", "virtual_function_specifier", "explicit_function_specifier", "field_initializer_list",
			"default_method_clause", "delete_method_clause", "pure_virtual_clause", "try_statement":
			continue
		}
		out = append(out, child)
	}
	return out
}

// Package output renders an extraction result as a YAML or JSON document.
//
// # Document
//
// A Document lists the declarations of one header in source order. Every
// declaration carries the node id it has in the AST, so references between
// declarations are plain ids:
//
//	declarations:
//	  - id: 4
//	    kind: Typedef
//	    name: point_t
//	    location: point.h:7
//	    type: {kind: struct, ref: 3}
//
// Types are written inline as small trees. A tree stops at the first named
// declaration (struct, union, enum, typedef) and refers to it by id, so the
// output never recurses through a self-referential record.
//
// # Density
//
// Three density levels control how much is written:
//
//   - Sparse: id, kind, name and location of each declaration
//   - Medium (default): adds types, members, arguments, aliases, macros and
//     diagnostics
//   - Dense: adds sizes, offsets, contexts, elided records and unresolved
//     references
//
// # Formats
//
// YAML is the default. JSON carries the same structure.
package output

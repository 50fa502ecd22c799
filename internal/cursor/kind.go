package cursor

// Kind identifies the declaration kind of a cursor.
type Kind int

const (
	KindInvalid Kind = iota
	KindTranslationUnit
	KindNamespace
	KindLinkageSpec
	KindStructDecl
	KindUnionDecl
	KindClassDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindFieldDecl
	KindFunctionDecl
	KindParmDecl
	KindVarDecl
	KindTypedefDecl
	KindMethod
	KindConstructor
	KindDestructor
	KindConversionFunction
	KindBaseSpecifier
	KindMacroDefinition
	KindMacroExpansion
	KindInclusionDirective
	KindTemplate
	KindStaticAssert
	KindUnexposedDecl
)

var kindNames = map[Kind]string{
	KindInvalid:            "Invalid",
	KindTranslationUnit:    "TranslationUnit",
	KindNamespace:          "Namespace",
	KindLinkageSpec:        "LinkageSpec",
	KindStructDecl:         "StructDecl",
	KindUnionDecl:          "UnionDecl",
	KindClassDecl:          "ClassDecl",
	KindEnumDecl:           "EnumDecl",
	KindEnumConstantDecl:   "EnumConstantDecl",
	KindFieldDecl:          "FieldDecl",
	KindFunctionDecl:       "FunctionDecl",
	KindParmDecl:           "ParmDecl",
	KindVarDecl:            "VarDecl",
	KindTypedefDecl:        "TypedefDecl",
	KindMethod:             "Method",
	KindConstructor:        "Constructor",
	KindDestructor:         "Destructor",
	KindConversionFunction: "ConversionFunction",
	KindBaseSpecifier:      "BaseSpecifier",
	KindMacroDefinition:    "MacroDefinition",
	KindMacroExpansion:     "MacroExpansion",
	KindInclusionDirective: "InclusionDirective",
	KindTemplate:           "Template",
	KindStaticAssert:       "StaticAssert",
	KindUnexposedDecl:      "UnexposedDecl",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsRecord reports whether k declares a struct, union or class.
func (k Kind) IsRecord() bool {
	return k == KindStructDecl || k == KindUnionDecl || k == KindClassDecl
}

// TypeKind identifies the category of a Type.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeUnexposed
	TypeVoid
	TypeBool
	TypeCharU
	TypeUChar
	TypeChar16
	TypeChar32
	TypeUShort
	TypeUInt
	TypeULong
	TypeULongLong
	TypeUInt128
	TypeCharS
	TypeSChar
	TypeWChar
	TypeShort
	TypeInt
	TypeLong
	TypeLongLong
	TypeInt128
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypePointer
	TypeLValueReference
	TypeRValueReference
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeElaborated
	TypeFunctionNoProto
	TypeFunctionProto
	TypeConstantArray
	TypeIncompleteArray
)

var typeKindNames = map[TypeKind]string{
	TypeInvalid:         "Invalid",
	TypeUnexposed:       "Unexposed",
	TypeVoid:            "Void",
	TypeBool:            "Bool",
	TypeCharU:           "Char_U",
	TypeUChar:           "UChar",
	TypeChar16:          "Char16",
	TypeChar32:          "Char32",
	TypeUShort:          "UShort",
	TypeUInt:            "UInt",
	TypeULong:           "ULong",
	TypeULongLong:       "ULongLong",
	TypeUInt128:         "UInt128",
	TypeCharS:           "Char_S",
	TypeSChar:           "SChar",
	TypeWChar:           "WChar",
	TypeShort:           "Short",
	TypeInt:             "Int",
	TypeLong:            "Long",
	TypeLongLong:        "LongLong",
	TypeInt128:          "Int128",
	TypeFloat:           "Float",
	TypeDouble:          "Double",
	TypeLongDouble:      "LongDouble",
	TypePointer:         "Pointer",
	TypeLValueReference: "LValueReference",
	TypeRValueReference: "RValueReference",
	TypeRecord:          "Record",
	TypeEnum:            "Enum",
	TypeTypedef:         "Typedef",
	TypeElaborated:      "Elaborated",
	TypeFunctionNoProto: "FunctionNoProto",
	TypeFunctionProto:   "FunctionProto",
	TypeConstantArray:   "ConstantArray",
	TypeIncompleteArray: "IncompleteArray",
}

// String returns the type kind name.
func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

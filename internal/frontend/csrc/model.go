// Package csrc is the host-language front end: it parses C interop sources
// with tree-sitter and exposes them as a flat, C-shaped declaration set.
// The representation is deliberately separate from the primary decl model;
// a dedicated builder walks it into the shared documentation tree.
package csrc

// File holds the declarations extracted from one C source or header.
type File struct {
	Path      string
	Functions []*Function
	Structs   []*Struct
	Typedefs  []*Typedef
	Enums     []*Enum
}

// Function is a C function definition or prototype.
type Function struct {
	Name       string
	Signature  string
	ReturnType string
	Params     []Param
	Doc        string
	StartLine  int
	EndLine    int
}

// Param is one function parameter.
type Param struct {
	Name string
	Type string
}

// Struct is a named struct or union definition.
type Struct struct {
	Name      string
	Union     bool
	Fields    []Field
	Doc       string
	StartLine int
	EndLine   int
}

// Field is one struct member.
type Field struct {
	Name string
	Type string
	Line int
}

// Typedef aliases a name to an underlying type.
type Typedef struct {
	Name       string
	Underlying string
	Line       int
}

// Enum is a named enumeration with its constants in declaration order.
type Enum struct {
	Name      string
	Constants []string
	StartLine int
	EndLine   int
}

// Package decl defines the resolved declaration tree handed to the
// documentation builder by the primary semantic front end. It is a closed,
// kind-discriminated model: one Decl struct whose meaning is selected by
// Kind, so the builder can switch exhaustively instead of relying on
// dynamic dispatch.
package decl

// Kind discriminates the declaration variants.
type Kind string

const (
	KindModule         Kind = "module"
	KindPackage        Kind = "package"
	KindClass          Kind = "class"
	KindFunction       Kind = "function"
	KindProperty       Kind = "property"
	KindVariable       Kind = "variable"
	KindConstructor    Kind = "constructor"
	KindTypeParameter  Kind = "type-parameter"
	KindValueParameter Kind = "value-parameter"
	KindReceiver       Kind = "receiver"
	KindGetter         Kind = "getter"
	KindSetter         Kind = "setter"
	KindScript         Kind = "script"
)

// ClassKind refines KindClass declarations.
type ClassKind string

const (
	ClassKindClass     ClassKind = "class"
	ClassKindInterface ClassKind = "interface"
	ClassKindObject    ClassKind = "object" // singleton; members may be compiler-synthesized
)

// Decl is one resolved declaration. Fields beyond the common ones are
// populated per kind; the builder treats absent optional fields as "not
// declared" and absent mandatory fields as fatal input errors.
type Decl struct {
	Kind          Kind
	Name          string
	QualifiedName string

	File      string
	StartLine int
	EndLine   int

	Doc        string // raw documentation comment, may be empty
	Signature  string // display signature for callables
	Deprecated bool
	Synthetic  bool // produced by the compiler, not user code

	// Class declarations.
	ClassKind  ClassKind
	Companion  *Decl    // synthetic companion object, if present
	Supertypes []string // qualified identities of supertypes

	// Callable declarations (function, constructor, accessor, property,
	// variable). Constructors and accessors are specializations of the
	// same shape, not separate traversal logic.
	TypeParams []*Decl // KindTypeParameter
	Receiver   *Decl   // KindReceiver, optional
	Params     []*Decl // KindValueParameter
	ReturnType string  // qualified identity, "" when none
	Type       string  // declared type identity for properties/variables/parameters

	// Property declarations.
	Getter *Decl // KindGetter, optional
	Setter *Decl // KindSetter, optional

	// Overrides names the qualified identity of the overridden member.
	Overrides string

	// Members holds nested declarations in source order: packages under a
	// module, members under a package or class.
	Members []*Decl
}

// IsCallable reports whether the declaration walks like a callable: its
// children are type parameters, an optional receiver, and value parameters.
func (d *Decl) IsCallable() bool {
	switch d.Kind {
	case KindFunction, KindConstructor, KindProperty, KindVariable, KindGetter, KindSetter:
		return true
	default:
		return false
	}
}

// Fragment is one compilation unit's package-scoped declaration set, the
// unit of work handed to the builder by a front end.
type Fragment struct {
	PackageName string // qualified package name, "" for scripts
	File        string
	Root        *Decl // KindPackage or KindScript
}

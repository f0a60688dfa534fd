package golang

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"

	"github.com/mvp-joe/docsmith/internal/decl"
)

// converter maps one loaded package's AST onto the decl model. Types are
// collected first so methods declared in other files find their receiver
// class; members are then appended in per-file declaration order.
type converter struct {
	pkg  *packages.Package
	fset *token.FileSet

	classes map[string]*decl.Decl            // type name -> class decl
	fields  map[string]map[string]*decl.Decl // type name -> field name -> property decl
}

func (c *converter) qualified(name string) string {
	return c.pkg.PkgPath + "." + name
}

// collectTypes creates a class decl for every exported named type.
func (c *converter) collectTypes(file *ast.File) {
	if c.fields == nil {
		c.fields = make(map[string]map[string]*decl.Decl)
	}
	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || !ts.Name.IsExported() {
				continue
			}
			c.classes[ts.Name.Name] = c.convertType(gd, ts)
		}
	}
}

func (c *converter) convertType(gd *ast.GenDecl, ts *ast.TypeSpec) *decl.Decl {
	doc := docText(ts.Doc, gd.Doc)
	class := &decl.Decl{
		Kind:          decl.KindClass,
		ClassKind:     decl.ClassKindClass,
		Name:          ts.Name.Name,
		QualifiedName: c.qualified(ts.Name.Name),
		File:          c.fset.Position(ts.Pos()).Filename,
		StartLine:     c.fset.Position(ts.Pos()).Line,
		EndLine:       c.fset.Position(ts.End()).Line,
		Doc:           doc,
		Deprecated:    isDeprecated(doc),
	}

	class.TypeParams = c.convertTypeParams(ts.TypeParams, class.QualifiedName)

	switch t := ts.Type.(type) {
	case *ast.InterfaceType:
		class.ClassKind = decl.ClassKindInterface
		c.convertInterfaceBody(class, t)
	case *ast.StructType:
		c.convertStructBody(class, t)
	}
	return class
}

func (c *converter) convertInterfaceBody(class *decl.Decl, t *ast.InterfaceType) {
	for _, m := range t.Methods.List {
		if ft, ok := m.Type.(*ast.FuncType); ok {
			for _, name := range m.Names {
				if !name.IsExported() {
					continue
				}
				fn := c.convertFuncType(ft, name.Name, class.QualifiedName+"."+name.Name)
				fn.Doc = docText(m.Doc, nil)
				fn.Deprecated = isDeprecated(fn.Doc)
				fn.File = class.File
				fn.StartLine = c.fset.Position(m.Pos()).Line
				fn.EndLine = c.fset.Position(m.End()).Line
				class.Members = append(class.Members, fn)
			}
			continue
		}
		// Embedded interface: a supertype, not a member.
		if id := c.typeIdentity(m.Type); id != "" {
			class.Supertypes = append(class.Supertypes, id)
		}
	}
}

func (c *converter) convertStructBody(class *decl.Decl, t *ast.StructType) {
	fields := make(map[string]*decl.Decl)
	c.fields[class.Name] = fields

	for _, f := range t.Fields.List {
		if len(f.Names) == 0 {
			// Embedded field: record the supertype relationship.
			if id := c.typeIdentity(f.Type); id != "" {
				class.Supertypes = append(class.Supertypes, id)
			}
			continue
		}
		for _, name := range f.Names {
			prop := &decl.Decl{
				Kind:          decl.KindProperty,
				Name:          name.Name,
				QualifiedName: class.QualifiedName + "." + name.Name,
				File:          class.File,
				StartLine:     c.fset.Position(name.Pos()).Line,
				EndLine:       c.fset.Position(name.Pos()).Line,
				Doc:           docText(f.Doc, nil),
				Type:          c.typeIdentity(f.Type),
				Signature:     types.ExprString(f.Type),
			}
			prop.Deprecated = isDeprecated(prop.Doc)
			fields[name.Name] = prop
			if name.IsExported() {
				class.Members = append(class.Members, prop)
			}
		}
	}
}

// collectMembers appends package-level members to root in declaration
// order and attaches methods to their receiver classes.
func (c *converter) collectMembers(file *ast.File, root *decl.Decl) {
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok {
						if class, ok := c.classes[ts.Name.Name]; ok {
							root.Members = append(root.Members, class)
						}
					}
				}
			case token.CONST:
				c.convertValues(d, decl.KindProperty, root)
			case token.VAR:
				c.convertValues(d, decl.KindVariable, root)
			}
		case *ast.FuncDecl:
			c.convertFunc(d, root)
		}
	}
}

func (c *converter) convertValues(gd *ast.GenDecl, kind decl.Kind, root *decl.Decl) {
	for _, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, name := range vs.Names {
			if !name.IsExported() {
				continue
			}
			doc := docText(vs.Doc, gd.Doc)
			v := &decl.Decl{
				Kind:          kind,
				Name:          name.Name,
				QualifiedName: c.qualified(name.Name),
				File:          c.fset.Position(name.Pos()).Filename,
				StartLine:     c.fset.Position(name.Pos()).Line,
				EndLine:       c.fset.Position(name.Pos()).Line,
				Doc:           doc,
				Deprecated:    isDeprecated(doc),
			}
			if vs.Type != nil {
				v.Type = c.typeIdentity(vs.Type)
				v.Signature = types.ExprString(vs.Type)
			}
			root.Members = append(root.Members, v)
		}
	}
}

func (c *converter) convertFunc(fd *ast.FuncDecl, root *decl.Decl) {
	if !fd.Name.IsExported() {
		return
	}

	if fd.Recv == nil {
		fn := c.convertFuncType(fd.Type, fd.Name.Name, c.qualified(fd.Name.Name))
		c.fillFuncDecl(fn, fd)
		root.Members = append(root.Members, fn)
		return
	}

	base := receiverBaseName(fd.Recv.List[0].Type)
	class, ok := c.classes[base]
	if !ok {
		// Method on an unexported or foreign type; nothing to attach to.
		return
	}

	qid := class.QualifiedName + "." + fd.Name.Name
	fn := c.convertFuncType(fd.Type, fd.Name.Name, qid)
	c.fillFuncDecl(fn, fd)

	recvName := "receiver"
	if len(fd.Recv.List[0].Names) > 0 && fd.Recv.List[0].Names[0].Name != "" {
		recvName = fd.Recv.List[0].Names[0].Name
	}
	fn.Receiver = &decl.Decl{
		Kind:          decl.KindReceiver,
		Name:          recvName,
		QualifiedName: qid + "/receiver",
		Type:          class.QualifiedName,
		Signature:     types.ExprString(fd.Recv.List[0].Type),
	}

	class.Members = append(class.Members, fn)
}

func (c *converter) fillFuncDecl(fn *decl.Decl, fd *ast.FuncDecl) {
	doc := docText(fd.Doc, nil)
	fn.Doc = doc
	fn.Deprecated = isDeprecated(doc)
	fn.File = c.fset.Position(fd.Pos()).Filename
	fn.StartLine = c.fset.Position(fd.Pos()).Line
	fn.EndLine = c.fset.Position(fd.End()).Line
}

// convertFuncType builds a function decl from a signature: type parameters,
// value parameters, and the return type identity when there is a single
// linkable result.
func (c *converter) convertFuncType(ft *ast.FuncType, name, qid string) *decl.Decl {
	fn := &decl.Decl{
		Kind:          decl.KindFunction,
		Name:          name,
		QualifiedName: qid,
		Signature:     funcSignature(name, ft),
	}
	fn.TypeParams = c.convertTypeParams(ft.TypeParams, qid)

	index := 0
	if ft.Params != nil {
		for _, f := range ft.Params.List {
			names := f.Names
			if len(names) == 0 {
				names = []*ast.Ident{{Name: fmt.Sprintf("arg%d", index)}}
			}
			for _, n := range names {
				fn.Params = append(fn.Params, &decl.Decl{
					Kind:          decl.KindValueParameter,
					Name:          n.Name,
					QualifiedName: fmt.Sprintf("%s/%s", qid, n.Name),
					Type:          c.typeIdentity(f.Type),
					Signature:     types.ExprString(f.Type),
				})
				index++
			}
		}
	}

	if ft.Results != nil && len(ft.Results.List) > 0 {
		fn.ReturnType = c.typeIdentity(ft.Results.List[0].Type)
	}
	return fn
}

func (c *converter) convertTypeParams(fl *ast.FieldList, ownerQID string) []*decl.Decl {
	if fl == nil {
		return nil
	}
	var out []*decl.Decl
	for _, f := range fl.List {
		for _, n := range f.Names {
			out = append(out, &decl.Decl{
				Kind:          decl.KindTypeParameter,
				Name:          n.Name,
				QualifiedName: fmt.Sprintf("%s[%s]", ownerQID, n.Name),
				Type:          c.typeIdentity(f.Type),
				Signature:     types.ExprString(f.Type),
			})
		}
	}
	return out
}

// attachAccessors pairs X()/SetX() methods with a struct field x, turning
// them into getter/setter children of the field's property. Fields that are
// unexported but carry accessors surface as properties through them.
func (c *converter) attachAccessors() {
	for name, class := range c.classes {
		fields := c.fields[name]
		if len(fields) == 0 {
			continue
		}

		var kept []*decl.Decl
		for _, m := range class.Members {
			if m.Kind != decl.KindFunction {
				kept = append(kept, m)
				continue
			}
			if prop, accessor := c.matchAccessor(class, fields, m); prop != nil {
				if !memberOf(kept, prop) {
					kept = append(kept, prop)
				}
				if accessor.Kind == decl.KindGetter {
					prop.Getter = accessor
				} else {
					prop.Setter = accessor
				}
				continue
			}
			kept = append(kept, m)
		}
		class.Members = kept
	}
}

// matchAccessor decides whether fn is a getter (X, no params, one result)
// or setter (SetX, one param, no result) for a known field.
func (c *converter) matchAccessor(class *decl.Decl, fields map[string]*decl.Decl, fn *decl.Decl) (prop, accessor *decl.Decl) {
	if strings.HasPrefix(fn.Name, "Set") && len(fn.Name) > 3 {
		field := lowerFirst(fn.Name[3:])
		if p, ok := fields[field]; ok && len(fn.Params) == 1 && fn.ReturnType == "" {
			setter := cloneAsAccessor(fn, decl.KindSetter, p.QualifiedName+".set")
			return p, setter
		}
	}
	field := lowerFirst(fn.Name)
	if p, ok := fields[field]; ok && len(fn.Params) == 0 {
		getter := cloneAsAccessor(fn, decl.KindGetter, p.QualifiedName+".get")
		return p, getter
	}
	return nil, nil
}

func cloneAsAccessor(fn *decl.Decl, kind decl.Kind, qid string) *decl.Decl {
	accessor := *fn
	accessor.Kind = kind
	accessor.QualifiedName = qid
	accessor.Receiver = nil
	return &accessor
}

func memberOf(members []*decl.Decl, m *decl.Decl) bool {
	for _, existing := range members {
		if existing == m {
			return true
		}
	}
	return false
}

// typeIdentity resolves an expression to the qualified identity of the
// named type it mentions, or "" when the type is not linkable (builtins,
// composites of builtins). Selector types resolve through type information;
// cgo references keep the "C." prefix so they link to interop symbols.
func (c *converter) typeIdentity(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		if c.pkg.Types != nil && c.pkg.Types.Scope().Lookup(t.Name) != nil {
			return c.qualified(t.Name)
		}
		return ""
	case *ast.StarExpr:
		return c.typeIdentity(t.X)
	case *ast.ArrayType:
		return c.typeIdentity(t.Elt)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if x.Name == "C" {
				return "C." + t.Sel.Name
			}
			if c.pkg.TypesInfo != nil {
				if obj := c.pkg.TypesInfo.Uses[t.Sel]; obj != nil && obj.Pkg() != nil {
					return obj.Pkg().Path() + "." + t.Sel.Name
				}
			}
		}
		return ""
	case *ast.IndexExpr:
		return c.typeIdentity(t.X)
	default:
		return ""
	}
}

// funcSignature renders a compact display signature.
func funcSignature(name string, ft *ast.FuncType) string {
	var sb strings.Builder
	sb.WriteString("func ")
	sb.WriteString(name)
	sb.WriteString("(")
	if ft.Params != nil {
		for i, f := range ft.Params.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			var names []string
			for _, n := range f.Names {
				names = append(names, n.Name)
			}
			if len(names) > 0 {
				sb.WriteString(strings.Join(names, ", "))
				sb.WriteString(" ")
			}
			sb.WriteString(types.ExprString(f.Type))
		}
	}
	sb.WriteString(")")
	if ft.Results != nil && len(ft.Results.List) > 0 {
		var results []string
		for _, f := range ft.Results.List {
			results = append(results, types.ExprString(f.Type))
		}
		if len(results) == 1 && len(ft.Results.List[0].Names) == 0 {
			sb.WriteString(" " + results[0])
		} else {
			sb.WriteString(" (" + strings.Join(results, ", ") + ")")
		}
	}
	return sb.String()
}

func receiverBaseName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverBaseName(t.X)
	case *ast.IndexExpr:
		return receiverBaseName(t.X)
	case *ast.IndexListExpr:
		return receiverBaseName(t.X)
	default:
		return ""
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func docText(specific, general *ast.CommentGroup) string {
	if specific != nil {
		return strings.TrimSpace(specific.Text())
	}
	if general != nil {
		return strings.TrimSpace(general.Text())
	}
	return ""
}

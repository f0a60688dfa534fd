package csrc

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// Parser parses C sources and headers with tree-sitter.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a C parser.
func NewParser() *Parser {
	return &Parser{language: sitter.NewLanguage(c.Language())}
}

// ParseFile parses one C file into the host-language declaration set.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*File, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read C source: %w", err)
	}
	return p.Parse(ctx, filePath, source)
}

// Parse parses C source text. Only file-scope declarations are extracted;
// locals never document.
func (p *Parser) Parse(ctx context.Context, filePath string, source []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse C file: %s", filePath)
	}
	defer tree.Close()

	f := &File{Path: filePath}
	root := tree.RootNode()

	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(uint(i))
		switch node.Kind() {
		case "function_definition":
			if fn := p.extractFunction(node, source); fn != nil {
				f.Functions = append(f.Functions, fn)
			}
		case "declaration":
			// A file-scope declaration with a function declarator is a
			// prototype; anything else is a variable and is skipped.
			if fn := p.extractFunction(node, source); fn != nil {
				f.Functions = append(f.Functions, fn)
			}
		case "struct_specifier", "union_specifier":
			if st := p.extractStruct(node, source); st != nil {
				f.Structs = append(f.Structs, st)
			}
		case "type_definition":
			p.extractTypedef(node, source, f)
		case "enum_specifier":
			if en := p.extractEnum(node, source); en != nil {
				f.Enums = append(f.Enums, en)
			}
		}
	}

	return f, nil
}

func (p *Parser) extractFunction(node *sitter.Node, source []byte) *Function {
	declarator := functionDeclarator(node.ChildByFieldName("declarator"))
	if declarator == nil {
		return nil
	}
	nameNode := declarator.ChildByFieldName("declarator")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return nil
	}

	fn := &Function{
		Name:      nodeText(nameNode, source),
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		Doc:       precedingComment(node, source),
	}

	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		fn.ReturnType = nodeText(typeNode, source)
	}

	if params := declarator.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			pd := params.Child(uint(i))
			if pd.Kind() != "parameter_declaration" {
				continue
			}
			param := Param{}
			if t := pd.ChildByFieldName("type"); t != nil {
				param.Type = nodeText(t, source)
			}
			if d := pd.ChildByFieldName("declarator"); d != nil {
				param.Name = identifierOf(d, source)
			}
			if param.Type == "void" && param.Name == "" {
				continue
			}
			fn.Params = append(fn.Params, param)
		}
	}

	fn.Signature = signatureOf(fn)
	return fn
}

func (p *Parser) extractStruct(node *sitter.Node, source []byte) *Struct {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return nil
	}

	st := &Struct{
		Name:      nodeText(nameNode, source),
		Union:     node.Kind() == "union_specifier",
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		Doc:       precedingComment(node, source),
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		fd := body.Child(uint(i))
		if fd.Kind() != "field_declaration" {
			continue
		}
		field := Field{Line: int(fd.StartPosition().Row) + 1}
		if t := fd.ChildByFieldName("type"); t != nil {
			field.Type = nodeText(t, source)
		}
		if d := fd.ChildByFieldName("declarator"); d != nil {
			field.Name = identifierOf(d, source)
		}
		if field.Name != "" {
			st.Fields = append(st.Fields, field)
		}
	}

	return st
}

func (p *Parser) extractTypedef(node *sitter.Node, source []byte, f *File) {
	declarator := node.ChildByFieldName("declarator")
	typeNode := node.ChildByFieldName("type")
	if declarator == nil || typeNode == nil {
		return
	}

	// A typedef over an inline struct/enum body documents the body under
	// the typedef name.
	switch typeNode.Kind() {
	case "struct_specifier", "union_specifier":
		if body := typeNode.ChildByFieldName("body"); body != nil {
			st := p.extractStructBody(typeNode, source, identifierOf(declarator, source), node)
			if st != nil {
				f.Structs = append(f.Structs, st)
				return
			}
		}
	case "enum_specifier":
		if body := typeNode.ChildByFieldName("body"); body != nil {
			if en := p.extractEnumBody(typeNode, source, identifierOf(declarator, source), node); en != nil {
				f.Enums = append(f.Enums, en)
				return
			}
		}
	}

	f.Typedefs = append(f.Typedefs, &Typedef{
		Name:       identifierOf(declarator, source),
		Underlying: strings.TrimSpace(nodeText(typeNode, source)),
		Line:       int(node.StartPosition().Row) + 1,
	})
}

func (p *Parser) extractStructBody(node *sitter.Node, source []byte, name string, span *sitter.Node) *Struct {
	if name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	st := &Struct{
		Name:      name,
		Union:     node.Kind() == "union_specifier",
		StartLine: int(span.StartPosition().Row) + 1,
		EndLine:   int(span.EndPosition().Row) + 1,
		Doc:       precedingComment(span, source),
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		fd := body.Child(uint(i))
		if fd.Kind() != "field_declaration" {
			continue
		}
		field := Field{Line: int(fd.StartPosition().Row) + 1}
		if t := fd.ChildByFieldName("type"); t != nil {
			field.Type = nodeText(t, source)
		}
		if d := fd.ChildByFieldName("declarator"); d != nil {
			field.Name = identifierOf(d, source)
		}
		if field.Name != "" {
			st.Fields = append(st.Fields, field)
		}
	}
	return st
}

func (p *Parser) extractEnum(node *sitter.Node, source []byte) *Enum {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return p.extractEnumBody(node, source, nodeText(nameNode, source), node)
}

func (p *Parser) extractEnumBody(node *sitter.Node, source []byte, name string, span *sitter.Node) *Enum {
	if name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	en := &Enum{
		Name:      name,
		StartLine: int(span.StartPosition().Row) + 1,
		EndLine:   int(span.EndPosition().Row) + 1,
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		e := body.Child(uint(i))
		if e.Kind() != "enumerator" {
			continue
		}
		if n := e.ChildByFieldName("name"); n != nil {
			en.Constants = append(en.Constants, nodeText(n, source))
		}
	}
	return en
}

// functionDeclarator unwraps pointer declarators down to the function
// declarator, or returns nil when the declaration is not a function.
func functionDeclarator(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			return node
		case "pointer_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return nil
		}
	}
	return nil
}

// identifierOf digs through declarators to the underlying identifier text.
func identifierOf(node *sitter.Node, source []byte) string {
	for node != nil {
		switch node.Kind() {
		case "identifier", "field_identifier", "type_identifier":
			return nodeText(node, source)
		case "pointer_declarator", "array_declarator", "function_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

// precedingComment collects the comment block immediately above a
// declaration, stripped of comment syntax.
func precedingComment(node *sitter.Node, source []byte) string {
	var lines []string
	prev := node.PrevSibling()
	for prev != nil && prev.Kind() == "comment" {
		text := nodeText(prev, source)
		lines = append([]string{stripComment(text)}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func stripComment(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/*") {
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		var out []string
		for _, line := range strings.Split(text, "\n") {
			out = append(out, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*")))
		}
		return strings.TrimSpace(strings.Join(out, "\n"))
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//")))
	}
	return strings.Join(out, "\n")
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func signatureOf(fn *Function) string {
	var params []string
	for _, p := range fn.Params {
		if p.Name != "" {
			params = append(params, fmt.Sprintf("%s %s", p.Type, p.Name))
		} else {
			params = append(params, p.Type)
		}
	}
	ret := fn.ReturnType
	if ret == "" {
		ret = "void"
	}
	return fmt.Sprintf("%s %s(%s)", ret, fn.Name, strings.Join(params, ", "))
}

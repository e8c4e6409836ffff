package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// JSTSExtractor extracts symbols from the JavaScript/TypeScript family.
// One implementation covers the four surface syntaxes (.js, .jsx, .ts, .tsx);
// each instance is bound to the tree-sitter grammar that parses its dialect,
// and all four normalize to the same three record kinds.
type JSTSExtractor struct {
	dialect string
	lang    *sitter.Language
}

func NewJavaScriptExtractor() *JSTSExtractor {
	return &JSTSExtractor{dialect: "javascript", lang: javascript.GetLanguage()}
}

func NewTypeScriptExtractor() *JSTSExtractor {
	return &JSTSExtractor{dialect: "typescript", lang: typescript.GetLanguage()}
}

func NewTSXExtractor() *JSTSExtractor {
	return &JSTSExtractor{dialect: "tsx", lang: tsx.GetLanguage()}
}

func (e *JSTSExtractor) Language() string { return e.dialect }

func (e *JSTSExtractor) Extract(path string, content []byte) ([]Record, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	records := []Record{}
	e.walk(root, content, path, &records)

	if root.HasError() && len(records) == 0 && len(content) > 0 {
		return nil, fmt.Errorf("parse %s: %d syntax errors, no symbols recovered", path, countErrorNodes(root))
	}
	return records, nil
}

func (e *JSTSExtractor) walk(node *sitter.Node, content []byte, path string, out *[]Record) {
	switch node.Type() {
	case "import_statement":
		// Record the source path as written, quotes stripped: './utils', 'react'.
		if src := node.ChildByFieldName("source"); src != nil {
			name := strings.Trim(src.Content(content), "\"'`")
			*out = append(*out, e.record(KindImport, name, node, path))
		}
	case "class_declaration", "abstract_class_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, e.record(KindClass, name.Content(content), node, path))
		}
	case "function_declaration", "generator_function_declaration", "function_signature", "method_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, e.record(KindFunction, name.Content(content), node, path))
		}
	case "variable_declarator":
		// const Button = () => ... and const f = function() {...} count as
		// functions; this is how React components are commonly declared.
		name := node.ChildByFieldName("name")
		value := node.ChildByFieldName("value")
		if name != nil && value != nil && isFunctionValue(value.Type()) {
			*out = append(*out, e.record(KindFunction, name.Content(content), node, path))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), content, path, out)
	}
}

// isFunctionValue reports whether a variable initializer is a function form.
// Both "function" and "function_expression" appear depending on grammar version.
func isFunctionValue(nodeType string) bool {
	switch nodeType {
	case "arrow_function", "function", "function_expression":
		return true
	}
	return false
}

func (e *JSTSExtractor) record(kind Kind, name string, node *sitter.Node, path string) Record {
	return Record{
		FilePath: path,
		Kind:     kind,
		Name:     name,
		Line:     int(node.StartPoint().Row) + 1,
		Language: e.dialect,
	}
}

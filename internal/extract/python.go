package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractor extracts imports, classes, and functions from Python source
// by walking the full tree-sitter syntax tree. Imports inside conditionals or
// function bodies are still counted and attributed to the enclosing file.
type PythonExtractor struct{}

func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{}
}

func (e *PythonExtractor) Language() string { return "python" }

func (e *PythonExtractor) Extract(path string, content []byte) ([]Record, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

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

func (e *PythonExtractor) walk(node *sitter.Node, content []byte, path string, out *[]Record) {
	switch node.Type() {
	case "import_statement":
		// `import a.b, c as d` yields one record per imported module.
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				*out = append(*out, e.record(KindImport, child.Content(content), node, path))
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					*out = append(*out, e.record(KindImport, name.Content(content), node, path))
				}
			}
		}
	case "import_from_statement":
		// The module name is recorded as written, including any leading dots
		// of a relative import (".utils", "..models").
		if mod := node.ChildByFieldName("module_name"); mod != nil {
			*out = append(*out, e.record(KindImport, mod.Content(content), node, path))
		}
	case "class_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, e.record(KindClass, name.Content(content), node, path))
		}
	case "function_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, e.record(KindFunction, name.Content(content), node, path))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), content, path, out)
	}
}

func (e *PythonExtractor) record(kind Kind, name string, node *sitter.Node, path string) Record {
	return Record{
		FilePath: path,
		Kind:     kind,
		Name:     name,
		Line:     int(node.StartPoint().Row) + 1,
		Language: e.Language(),
	}
}

// countErrorNodes counts ERROR nodes in a parse tree.
func countErrorNodes(node *sitter.Node) int {
	count := 0
	if node.Type() == "ERROR" {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countErrorNodes(node.Child(i))
	}
	return count
}

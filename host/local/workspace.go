package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/logging"
)

// Language is the grammar a unit is parsed with.
type Language string

// Languages known to the workspace.
const (
	LangC   Language = "c"
	LangCXX Language = "c++"
)

var cxxExtensions = map[string]bool{
	".cpp": true, ".cc": true, ".cxx": true, ".c++": true,
	".hpp": true, ".hh": true, ".hxx": true,
}

// Unit is one translation unit or header held by the workspace.
type Unit struct {
	File      host.File
	Source    []byte
	Language  Language
	Functions []string
	// Calls lists the names of called functions in source order.
	Calls     []string
	HasErrors bool
}

// IsHeader reports whether the unit is a header.
func (u *Unit) IsHeader() bool {
	ext := strings.ToLower(filepath.Ext(u.File.Name))
	return ext == ".h" || ext == ".hpp" || ext == ".hh" || ext == ".hxx"
}

// Workspace is an AST workspace backed by tree-sitter. Rebuild parses every
// unit and records its top-level functions.
type Workspace struct {
	ctx    context.Context
	units  []*Unit
	stack  [][]*Unit
	strict bool
	logger *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithStrictParsing makes Rebuild fail when a unit has syntax errors.
func WithStrictParsing() WorkspaceOption {
	return func(w *Workspace) { w.strict = true }
}

// WithWorkspaceLogger sets the logger used for parse diagnostics.
func WithWorkspaceLogger(logger *slog.Logger) WorkspaceOption {
	return func(w *Workspace) { w.logger = logger }
}

// NewWorkspace creates an empty workspace. ctx bounds every parse.
func NewWorkspace(ctx context.Context, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		ctx:    ctx,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// PushAST saves the current units.
func (w *Workspace) PushAST() error {
	w.stack = append(w.stack, append([]*Unit(nil), w.units...))
	return nil
}

// PopAST restores the units saved by the matching PushAST.
func (w *Workspace) PopAST() error {
	if len(w.stack) == 0 {
		return host.ErrEmptyStack
	}
	w.units = w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return nil
}

// Depth returns the number of saved states.
func (w *Workspace) Depth() int { return len(w.stack) }

// RemoveChildren drops every unit.
func (w *Workspace) RemoveChildren() error {
	w.units = nil
	return nil
}

// AddFile reads f into a new unit. The unit is parsed by the next Rebuild.
func (w *Workspace) AddFile(f host.File) error {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", f.Name)
	}

	lang := LangC
	if cxxExtensions[strings.ToLower(filepath.Ext(f.Name))] {
		lang = LangCXX
	}

	w.units = append(w.units, &Unit{File: f, Source: src, Language: lang})
	return nil
}

// Rebuild parses every unit. Plain .h headers are parsed as C++ when the
// workspace holds any C++ unit.
func (w *Workspace) Rebuild() error {
	cxx := false
	for _, u := range w.units {
		if u.Language == LangCXX {
			cxx = true
			break
		}
	}

	var broken []string
	for _, u := range w.units {
		if cxx && u.IsHeader() {
			u.Language = LangCXX
		}

		if err := w.parse(u); err != nil {
			return err
		}

		if u.HasErrors {
			broken = append(broken, u.File.Name)
		}
	}

	if len(broken) > 0 {
		if w.strict {
			return errors.Errorf("syntax errors in %s", strings.Join(broken, ", "))
		}
		w.logger.Warn("units parsed with errors", "files", broken)
	}

	return nil
}

func (w *Workspace) parse(u *Unit) error {
	parser := sitter.NewParser()
	defer parser.Close()

	if u.Language == LangCXX {
		parser.SetLanguage(cpp.GetLanguage())
	} else {
		parser.SetLanguage(c.GetLanguage())
	}

	tree, err := parser.ParseCtx(w.ctx, nil, u.Source)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", u.File.Name)
	}
	defer tree.Close()

	root := tree.RootNode()
	u.HasErrors = root.HasError()
	u.Functions = topLevelFunctions(root, u.Source)
	u.Calls = calledFunctions(root, u.Source)

	return nil
}

// topLevelFunctions returns the names of function definitions directly
// under root or inside namespaces and extern "C" blocks.
func topLevelFunctions(root *sitter.Node, src []byte) []string {
	var names []string

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "function_definition":
				if name := declaratorName(child, src); name != "" {
					names = append(names, name)
				}
			case "namespace_definition", "linkage_specification", "declaration_list":
				visit(child)
			}
		}
	}
	visit(root)

	return names
}

// declaratorName follows the declarator chain of a definition down to its
// identifier.
func declaratorName(n *sitter.Node, src []byte) string {
	for depth := 0; n != nil && depth < 16; depth++ {
		switch n.Type() {
		case "identifier", "field_identifier", "qualified_identifier",
			"destructor_name", "operator_name":
			return n.Content(src)
		}
		n = n.ChildByFieldName("declarator")
	}
	return ""
}

// calledFunctions returns the callee names of every call_expression under
// root whose function is a plain or qualified identifier.
func calledFunctions(root *sitter.Node, src []byte) []string {
	var names []string

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "call_expression" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				switch fn.Type() {
				case "identifier", "qualified_identifier":
					names = append(names, fn.Content(src))
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)

	return names
}

// Units returns the current units.
func (w *Workspace) Units() []*Unit {
	return append([]*Unit(nil), w.units...)
}

// Functions returns every function found by the last Rebuild.
func (w *Workspace) Functions() []string {
	var out []string
	for _, u := range w.units {
		out = append(out, u.Functions...)
	}
	return out
}

// Calls returns every call found by the last Rebuild.
func (w *Workspace) Calls() []string {
	var out []string
	for _, u := range w.units {
		out = append(out, u.Calls...)
	}
	return out
}

// Language returns LangCXX if any unit is C++.
func (w *Workspace) Language() Language {
	for _, u := range w.units {
		if u.Language == LangCXX {
			return LangCXX
		}
	}
	return LangC
}

func (w *Workspace) String() string {
	return fmt.Sprintf("Workspace{units: %d, depth: %d}", len(w.units), len(w.stack))
}

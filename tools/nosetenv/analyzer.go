// Package nosetenv defines an analyzer that keeps tests from mutating the
// process environment.
package nosetenv

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `nosetenv reports os.Setenv and t.Setenv calls in test files

Configuration in tests is built with config.LoadFromMap and passed to
constructors. Setting environment variables changes global state and races
with parallel tests.`

// Analyzer is the nosetenv analysis pass.
var Analyzer = &analysis.Analyzer{
	Name:     "nosetenv",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if !strings.HasSuffix(pass.Fset.Position(call.Pos()).Filename, "_test.go") {
			return
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Setenv" {
			return
		}

		switch {
		case isPackage(pass, sel.X, "os"):
			pass.Reportf(call.Pos(), "os.Setenv in test: build the config with config.LoadFromMap instead")
		case isTestingValue(pass, sel.X):
			pass.Reportf(call.Pos(), "t.Setenv in test: build the config with config.LoadFromMap instead")
		}
	})

	return nil, nil
}

func isPackage(pass *analysis.Pass, expr ast.Expr, path string) bool {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	return ok && pkgName.Imported().Path() == path
}

// isTestingValue reports whether expr is a *testing.T, *testing.B, *testing.F or testing.TB.
func isTestingValue(pass *analysis.Pass, expr ast.Expr) bool {
	t := pass.TypesInfo.TypeOf(expr)
	if t == nil {
		return false
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != "testing" {
		return false
	}
	switch obj.Name() {
	case "T", "B", "F", "TB":
		return true
	}
	return false
}

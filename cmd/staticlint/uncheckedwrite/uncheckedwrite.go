// Package uncheckedwrite defines an analyzer that reports calls to
// http.ResponseWriter.Write whose results are dropped on the floor.
package uncheckedwrite

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports `w.Write(...)` used as a statement when w is an http.ResponseWriter.
// Assigning the results, even to blanks, silences it.
var Analyzer = &analysis.Analyzer{
	Name: "uncheckedwrite",
	Doc:  "reports http.ResponseWriter.Write calls whose error is ignored",
	Run:  run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			stmt, ok := n.(*ast.ExprStmt)
			if !ok {
				return true
			}

			call, ok := stmt.X.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "Write" {
				return true
			}

			if isResponseWriter(pass.TypesInfo.TypeOf(sel.X)) {
				pass.Reportf(call.Pos(), "error returned by http.ResponseWriter.Write is not checked")
			}

			return true
		})
	}
	return nil, nil
}

func isResponseWriter(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()

	return obj.Pkg() != nil && obj.Pkg().Path() == "net/http" && obj.Name() == "ResponseWriter"
}

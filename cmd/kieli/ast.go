package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/cst"
	"github.com/kieli-lang/kieli/internal/source"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Parse and desugar a kieli source file and print its abstract syntax tree",
	Long:  "Run the lexer, parser and desugarer over a single file and dump the resulting AST arena, without resolving or type-checking it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		db := source.NewDatabase()
		id := db.OpenDocument(path, string(text))
		doc := db.Document(id)

		tree := cst.ParseProgram(doc)
		arena, program := ast.DesugarProgram(tree)

		dumper := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}
		for _, defId := range program.Defs {
			dumper.Fdump(os.Stdout, arena.Def(defId))
		}

		for _, d := range doc.Diagnostics {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}
		return nil
	},
}

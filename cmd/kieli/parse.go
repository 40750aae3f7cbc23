package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kieli-lang/kieli/internal/cst"
	"github.com/kieli-lang/kieli/internal/source"
)

var parseJSON bool

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Output the CST as JSON instead of an indented tree")
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a kieli source file and print its concrete syntax tree",
	Long:  "Lex and parse a single file, printing the lossless CST without resolving or type-checking it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		src := string(text)

		db := source.NewDatabase()
		id := db.OpenDocument(path, src)
		doc := db.Document(id)

		tree := cst.ParseProgram(doc)

		if parseJSON {
			if err := encodeCSTNode(os.Stdout, tree, tree.Root, src); err != nil {
				return err
			}
		} else {
			printCSTNode(os.Stdout, tree, tree.Root, 0, src)
		}

		for _, d := range doc.Diagnostics {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}
		return nil
	},
}

// nodeText prefers a node's own Text field (used by path segments and
// literals) and falls back to its defining token's lexeme.
func nodeText(n cst.Node, src string) string {
	if n.Text != "" {
		return n.Text
	}
	return n.Token.Text(src)
}

// printCSTNode walks a CST depth-first, rendering one line per node: its
// kind, its text when it has any, and its line:column range.
func printCSTNode(w *os.File, tree *cst.Tree, id cst.NodeId, depth int, src string) {
	n := tree.Get(id)
	indent := strings.Repeat("  ", depth)

	label := n.Kind.String()
	if text := nodeText(n, src); text != "" {
		label += fmt.Sprintf(" %q", text)
	}
	fmt.Fprintf(w, "%s%s [%d:%d-%d:%d]\n", indent, label,
		n.Range.Start.Line, n.Range.Start.Column, n.Range.Stop.Line, n.Range.Stop.Column)

	for _, child := range n.Children {
		printCSTNode(w, tree, child, depth+1, src)
	}
}

type cstJSONNode struct {
	Kind     string           `json:"kind"`
	Text     string           `json:"text,omitempty"`
	Start    source.Position  `json:"start"`
	Stop     source.Position  `json:"stop"`
	Children []cstJSONNode    `json:"children,omitempty"`
}

func toCSTJSONNode(tree *cst.Tree, id cst.NodeId, src string) cstJSONNode {
	n := tree.Get(id)
	out := cstJSONNode{
		Kind:  n.Kind.String(),
		Text:  nodeText(n, src),
		Start: n.Range.Start,
		Stop:  n.Range.Stop,
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, toCSTJSONNode(tree, child, src))
	}
	return out
}

func encodeCSTNode(w *os.File, tree *cst.Tree, id cst.NodeId, src string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toCSTJSONNode(tree, id, src))
}

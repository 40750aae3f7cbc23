// Command kieli is the compiler front-end's CLI driver: lexing, parsing,
// desugaring, resolving and type-checking kieli source files and reporting
// diagnostics, grounded on the teacher's cmd/conduit driver (same
// cobra.Command root, subcommand-per-file shape), re-pointed from
// conduit's build/run/migrate domain onto this module's front-end-only
// scope (check, parse, ast, fmt, serve, cache, init, version; there is no
// codegen or runtime to build/run).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kieli",
		Short: "kieli language front-end: lexer, parser, resolver, type checker",
		Long: `kieli is a statically-typed, generics-bearing language front-end.
This CLI lexes, parses, resolves and type-checks kieli source files and
reports diagnostics; it does not generate or run code.

Use "kieli init" to scaffold a project, "kieli check" to type-check it,
"kieli parse"/"kieli ast" to inspect the CST/AST for a single file,
"kieli fmt" to reformat source, "kieli serve" to run the language server,
and "kieli cache" to inspect the compilation cache.`,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

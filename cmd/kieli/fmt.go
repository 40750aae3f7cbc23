package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kieli-lang/kieli/internal/format"
)

var (
	fmtWrite bool
	fmtCheck bool
	fmtDiff  bool
)

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the formatted output back to each file instead of printing it")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit non-zero if any file is not already formatted, without writing")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Print a diff of the changes each file would receive")
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format kieli source files",
	Long:  "Reformat one or more kieli source files according to the project's format config",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := format.LoadConfig("kieli.yml")
		if err != nil {
			return fmt.Errorf("loading format config: %w", err)
		}

		unformatted := false
		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			formatted, changed, err := format.FormatFile(config, string(text))
			if err != nil {
				return fmt.Errorf("formatting %s: %w", path, err)
			}
			if !changed {
				continue
			}
			unformatted = true

			switch {
			case fmtWrite:
				if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Println(path)
			case fmtDiff:
				fmt.Println(format.Diff(string(text), formatted).UnifiedDiff(path))
			case fmtCheck:
				color.New(color.FgYellow).Printf("%s would be reformatted\n", path)
			default:
				fmt.Print(formatted)
			}
		}

		if fmtCheck && unformatted {
			return fmt.Errorf("one or more files are not formatted")
		}
		return nil
	},
}

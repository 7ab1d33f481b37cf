package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lulu-lang/lulu/compiler"
)

// ansiGreen/ansiRed/ansiReset color pass/fail output, gated on
// terminal detection rather than always emitted.
const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

var testCmd = &cobra.Command{
	Use:   "test [flags] source_file...",
	Short: "Compile each source file with test! selection and report PASS or FAIL per file.",
	Long: `test compiles each given source file under the "test" environment tag
(set_env) and, when --name is given, restricts test! selection to that
entry (set_current_test). luluc only compiles; running the resulting
host-language text is the host runtime's job.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		if len(args) == 0 {
			fmt.Println("luluc test: no source files given")
			os.Exit(2)
		}

		colorize := term.IsTerminal(int(os.Stdout.Fd()))

		name := GetString(cmd, "name")

		c := compiler.New()
		c.SetEnv("test")
		if name != "" {
			c.SetCurrentTest(&name)
		}

		failures := 0

		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("luluc test: %v\n", err)
				os.Exit(1)
			}

			if _, err := c.Compile(string(text), path, nil); err != nil {
				failures++
				printResult(colorize, false, path, err.Error())

				continue
			}

			printResult(colorize, true, path, "")
		}

		if failures > 0 {
			os.Exit(1)
		}
	},
}

func printResult(colorize bool, ok bool, path, detail string) {
	label := "PASS"
	color := ansiGreen
	if !ok {
		label = "FAIL"
		color = ansiRed
	}

	if !colorize {
		if detail == "" {
			fmt.Printf("%s %s\n", label, path)
		} else {
			fmt.Printf("%s %s: %s\n", label, path, detail)
		}

		return
	}

	if detail == "" {
		fmt.Printf("%s%s%s %s\n", color, label, ansiReset, path)
	} else {
		fmt.Printf("%s%s%s %s: %s\n", color, label, ansiReset, path, detail)
	}
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().String("name", "", "restrict test! selection to this entry name")
}

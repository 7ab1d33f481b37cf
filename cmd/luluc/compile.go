package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lulu-lang/lulu/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file...",
	Short: "Compile lulu source files into host-language text.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		if len(args) == 0 {
			fmt.Println("luluc compile: no source files given")
			os.Exit(2)
		}

		output := GetString(cmd, "output")
		if output != "" && len(args) > 1 {
			fmt.Println("luluc compile: --output only applies to a single source file")
			os.Exit(2)
		}

		for _, define := range GetStringArray(cmd, "define") {
			k, v, ok := strings.Cut(define, "=")
			if !ok {
				fmt.Printf("luluc compile: malformed --define %q, expected KEY=VALUE\n", define)
				os.Exit(2)
			}
			defines[k] = v
		}

		c := compiler.New()
		for k, v := range defines {
			c.DefineCfg(k, v)
		}

		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("luluc compile: %v\n", err)
				os.Exit(1)
			}

			result, err := c.Compile(string(text), path, nil)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}

			dest := output
			if dest == "" {
				dest = strings.TrimSuffix(path, filepath.Ext(path)) + ".lua"
			}

			if err := os.WriteFile(dest, []byte(result.Text), 0o644); err != nil {
				fmt.Printf("luluc compile: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

// defines accumulates --define KEY=VALUE across the compile command's
// flag parsing before any Compiler exists.
var defines = map[string]string{}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "output file (only valid for a single source file)")
	compileCmd.Flags().StringArrayP("define", "D", []string{}, "install a cfg! define as KEY=VALUE")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lulu-lang/lulu/bundle"
	"github.com/lulu-lang/lulu/compiler"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [flags] source_file...",
	Short: "Compile and pack lulu source files into a single bundle file.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		if len(args) == 0 {
			fmt.Println("luluc bundle: no source files given")
			os.Exit(2)
		}

		output := GetString(cmd, "output")
		host := GetString(cmd, "host")

		c := compiler.New()
		modules := make(map[string]bundle.Module, len(args))

		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("luluc bundle: %v\n", err)
				os.Exit(1)
			}

			result, err := c.Compile(string(text), path, nil)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}

			modules[path] = bundle.Module{Payload: []byte(result.Text)}
		}

		if host != "" {
			if err := bundle.MakeSelfContained(host, output, modules); err != nil {
				fmt.Printf("luluc bundle: %v\n", err)
				os.Exit(1)
			}

			return
		}

		out, err := os.Create(output)
		if err != nil {
			fmt.Printf("luluc bundle: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()

		if err := bundle.Encode(out, modules); err != nil {
			fmt.Printf("luluc bundle: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().StringP("output", "o", "bundle.lulub", "output bundle file")
	bundleCmd.Flags().String("host", "", "append the bundle to a copy of this host interpreter executable instead of writing a standalone bundle file")
}

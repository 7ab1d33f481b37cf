// Command luluc is a thin command-line front-end: a wiring point over
// compiler.Compile, bundle.Encode, and bundle.MakeSelfContained, not
// a package manager.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd is the base command when luluc is invoked without a
// subcommand; subcommands register themselves onto it from their own
// init().
var rootCmd = &cobra.Command{
	Use:   "luluc",
	Short: "Compiler and bundler for the lulu scripting dialect.",
	Long:  "luluc compiles lulu source into host-language text, bundles compiled modules into a single file, and compiles sources with test! entries selected.",
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}

// configureLogging raises the logrus level when --verbose is set,
// called once at the start of each subcommand's Run.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	Execute()
}

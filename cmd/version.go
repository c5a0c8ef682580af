package cmd

import (
	"runtime"

	"github.com/huangsam/devevent/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of devevent.",
	Long: `Display version and build information.

Include this output when reporting bugs.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("devevent CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s\n", runtime.Version())
		cmd.Printf("  Backends: %s (default), %s, %s, %s\n",
			schema.MongoDBBackend, schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend)
	},
}

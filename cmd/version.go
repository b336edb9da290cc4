package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/mjpeggrab/internal/version"
)

// CreateVersionCmd creates the version command.
func CreateVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			if !verbose {
				fmt.Println(version.String())
				return
			}
			info := version.Get()
			fmt.Printf("mjpeggrab %s\n", info.Version)
			fmt.Printf("  commit:   %s\n", info.GitCommit)
			fmt.Printf("  built:    %s\n", info.BuildDate)
			fmt.Printf("  go:       %s (%s)\n", info.GoVersion, info.Compiler)
			fmt.Printf("  platform: %s\n", info.Platform)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "include build metadata")
	return cmd
}

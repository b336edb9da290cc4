package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/mjpeggrab/internal/updater"
)

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var checkOnly bool
	var prerelease bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update to the latest release",
		Long:  `Checks GitHub for a newer release and replaces the running binary in place.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := updater.New(updater.DefaultRepository, prerelease)
			if err != nil {
				return err
			}

			if checkOnly {
				info, err := u.Check(cmd.Context())
				if err != nil {
					return err
				}
				if !info.UpdateAvailable {
					fmt.Printf("%s is up to date\n", info.CurrentVersion)
					return nil
				}
				fmt.Printf("Update available: %s -> %s\n%s\n",
					info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
				return nil
			}

			info, err := u.Apply(cmd.Context())
			if err != nil {
				return err
			}
			if !info.UpdateAvailable {
				fmt.Printf("%s is up to date\n", info.CurrentVersion)
				return nil
			}
			fmt.Printf("Updated %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "only check, do not download")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "consider prereleases")
	return cmd
}

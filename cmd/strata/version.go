package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/internal/update"
	"github.com/pthm/strata/internal/version"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.Info())
		if !versionCheck {
			return nil
		}

		checker, err := update.NewChecker()
		if err != nil {
			return cli.GeneralError("checking for updates", err)
		}
		info, err := checker.Check(cmd.Context())
		if err != nil {
			return cli.GeneralError("checking for updates", err)
		}
		if info.UpdateAvailable {
			fmt.Println(cli.Render(cli.WarnStyle, fmt.Sprintf("strata %s is available: %s", info.LatestVersion, info.ReleaseURL)))
		} else {
			fmt.Println("strata is up to date.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}

package cmd

import (
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause ordinary distribution",
	Run: func(cmd *cobra.Command, args []string) {
		submitAction(action.Action{
			Kind:   action.SetPaused,
			Paused: true,
		})
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume ordinary distribution",
	Run: func(cmd *cobra.Command, args []string) {
		submitAction(action.Action{
			Kind:   action.SetPaused,
			Paused: false,
		})
	},
}

func init() {
	governCmd.AddCommand(pauseCmd)
	governCmd.AddCommand(resumeCmd)
}

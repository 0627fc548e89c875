package cmd

import (
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/spf13/cobra"
)

var notificationBlock uint64

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Settle and stamp a notification for a target",
	Run: func(cmd *cobra.Command, args []string) {
		submitAction(action.Action{
			Kind:   action.NotifyTarget,
			Target: ledger.AccountID(target),
		})
	},
}

var forceNotifyCmd = &cobra.Command{
	Use:   "force-notify",
	Short: "Overwrite the notification stamp for a target",
	Run: func(cmd *cobra.Command, args []string) {
		submitAction(action.Action{
			Kind:              action.ForceNotifyBlock,
			Target:            ledger.AccountID(target),
			NotificationBlock: notificationBlock,
		})
	},
}

func init() {
	governCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().StringVarP(&target, "target", "t", "", "Target account.")
	notifyCmd.MarkFlagRequired("target")

	governCmd.AddCommand(forceNotifyCmd)
	forceNotifyCmd.Flags().StringVarP(&target, "target", "t", "", "Target account.")
	forceNotifyCmd.Flags().Uint64Var(&notificationBlock, "block", 0, "Notification block to record.")
	forceNotifyCmd.MarkFlagRequired("target")
}

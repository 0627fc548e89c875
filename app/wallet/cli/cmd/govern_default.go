package cmd

import (
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/spf13/cobra"
)

var defaultTargetCmd = &cobra.Command{
	Use:   "default-target",
	Short: "Set the default target receiving the unallocated remainder",
	Run:   defaultTargetRun,
}

func init() {
	governCmd.AddCommand(defaultTargetCmd)
	defaultTargetCmd.Flags().StringVarP(&target, "target", "t", "", "Target account. Empty burns the remainder.")
	defaultTargetCmd.Flags().Uint64Var(&minSettled, "min-settled", 0, "Minimum settled block. 0 forces the change.")
}

func defaultTargetRun(cmd *cobra.Command, args []string) {
	tgt := ledger.ZeroAccountID
	if target != "" {
		tgt = ledger.AccountID(target)
	}

	submitAction(action.Action{
		Kind:            action.SetDefaultTarget,
		Target:          tgt,
		MinSettledBlock: minSettled,
	})
}

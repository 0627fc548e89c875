package cmd

import (
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/spf13/cobra"
)

var (
	allocatorRate uint64
	selfRate      uint64
)

var allocationCmd = &cobra.Command{
	Use:   "allocation",
	Short: "Set the allocation rates for a target",
	Run:   allocationRun,
}

func init() {
	governCmd.AddCommand(allocationCmd)
	allocationCmd.Flags().StringVarP(&target, "target", "t", "", "Target account.")
	allocationCmd.Flags().Uint64Var(&allocatorRate, "allocator-rate", 0, "Tokens per block minted to the target.")
	allocationCmd.Flags().Uint64Var(&selfRate, "self-rate", 0, "Tokens per block the target may self mint.")
	allocationCmd.Flags().Uint64Var(&minSettled, "min-settled", 0, "Minimum settled block. 0 forces the change.")
	allocationCmd.MarkFlagRequired("target")
}

func allocationRun(cmd *cobra.Command, args []string) {
	submitAction(action.Action{
		Kind:            action.SetAllocation,
		Target:          ledger.AccountID(target),
		AllocatorRate:   allocatorRate,
		SelfRate:        selfRate,
		MinSettledBlock: minSettled,
	})
}

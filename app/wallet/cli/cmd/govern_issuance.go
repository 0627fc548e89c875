package cmd

import (
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/spf13/cobra"
)

var issuancePerBlock uint64

var issuanceCmd = &cobra.Command{
	Use:   "issuance",
	Short: "Set the per block issuance budget",
	Run:   issuanceRun,
}

func init() {
	governCmd.AddCommand(issuanceCmd)
	issuanceCmd.Flags().Uint64Var(&issuancePerBlock, "rate", 0, "Tokens minted per block.")
	issuanceCmd.Flags().Uint64Var(&minSettled, "min-settled", 0, "Minimum settled block. 0 forces the change.")
	issuanceCmd.MarkFlagRequired("rate")
}

func issuanceRun(cmd *cobra.Command, args []string) {
	submitAction(action.Action{
		Kind:             action.SetIssuance,
		IssuancePerBlock: issuancePerBlock,
		MinSettledBlock:  minSettled,
	})
}

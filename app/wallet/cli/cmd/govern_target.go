package cmd

import (
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/spf13/cobra"
)

var beneficiary string

var createTargetCmd = &cobra.Command{
	Use:   "create-target",
	Short: "Create a direct allocation target and bind its rates",
	Run:   createTargetRun,
}

func init() {
	governCmd.AddCommand(createTargetCmd)
	createTargetCmd.Flags().StringVarP(&beneficiary, "beneficiary", "b", "", "Account the target forwards tokens to.")
	createTargetCmd.Flags().Uint64Var(&allocatorRate, "allocator-rate", 0, "Tokens per block minted to the target.")
	createTargetCmd.Flags().Uint64Var(&selfRate, "self-rate", 0, "Tokens per block the target may self mint.")
	createTargetCmd.Flags().Uint64Var(&minSettled, "min-settled", 0, "Minimum settled block. 0 forces the change.")
	createTargetCmd.MarkFlagRequired("beneficiary")
}

func createTargetRun(cmd *cobra.Command, args []string) {
	submitAction(action.Action{
		Kind:            action.CreateTarget,
		Beneficiary:     ledger.AccountID(beneficiary),
		AllocatorRate:   allocatorRate,
		SelfRate:        selfRate,
		MinSettledBlock: minSettled,
	})
}

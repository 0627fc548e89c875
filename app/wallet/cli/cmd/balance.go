package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type balance struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

type balances struct {
	CurrentBlock uint64    `json:"current_block"`
	TotalSupply  uint64    `json:"total_supply"`
	Balances     []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Print the balance for the wallet account or the specified one.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	var accountID ledger.AccountID

	switch {
	case len(args) > 0:
		var err error
		accountID, err = ledger.ToAccountID(args[0])
		if err != nil {
			log.Fatal(err)
		}

	default:
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		accountID = ledger.PublicKeyToAccountID(privateKey.PublicKey)
	}

	fmt.Println("For Account:", accountID)

	resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, accountID))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)
	var balances balances
	if err := decoder.Decode(&balances); err != nil {
		log.Fatal(err)
	}

	if len(balances.Balances) > 0 {
		fmt.Println(balances.Balances[0].Balance)
	}
}

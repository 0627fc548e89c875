package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	url        string
	chainID    uint16
	nonce      uint64
	target     string
	minSettled uint64
)

// governCmd groups the commands that build, sign and submit governance
// actions to the node's private API.
var governCmd = &cobra.Command{
	Use:   "govern",
	Short: "Submit governance actions to the node",
}

func init() {
	rootCmd.AddCommand(governCmd)
	governCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:9080", "Url of the node's private API.")
	governCmd.PersistentFlags().Uint16Var(&chainID, "chain-id", 1, "Chain id the action is signed for.")
	governCmd.PersistentFlags().Uint64VarP(&nonce, "nonce", "n", 0, "Action nonce. 0 asks the node for the next one.")
}

// submitAction signs the action with the wallet key and posts it to the node.
func submitAction(act action.Action) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	act.ChainID = chainID
	act.FromID = ledger.PublicKeyToAccountID(privateKey.PublicKey)

	act.Nonce = nonce
	if act.Nonce == 0 {
		act.Nonce = nextNonce()
	}

	signedAct, err := act.Sign(privateKey)
	if err != nil {
		log.Fatal(err)
	}

	data, err := json.Marshal(signedAct)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/govern/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errResp := struct {
			Error string `json:"error"`
		}{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		log.Fatalf("submit failed: status[%d] error[%s]", resp.StatusCode, errResp.Error)
	}

	result := struct {
		Status  string `json:"status"`
		Applied bool   `json:"applied"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("nonce[%d] status[%s] applied[%v]\n", act.Nonce, result.Status, result.Applied)
}

// nextNonce asks the node for the last governor nonce and returns the next.
func nextNonce() uint64 {
	resp, err := http.Get(fmt.Sprintf("%s/v1/node/status", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	status := struct {
		LastGovernorNonce uint64 `json:"last_governor_nonce"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		log.Fatal(err)
	}

	return status.LastGovernorNonce + 1
}

package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/ardanlabs/issuance/foundation/allocator/genesis"
	"github.com/ardanlabs/issuance/foundation/allocator/journal"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/state"
)

// Replay rebuilds the allocator state from genesis and the journal, then
// displays the resulting balances and allocations.
func Replay(args []string, storage journal.Serializer) error {
	genesisFile := os.Getenv("ALLOCATOR_STATE_GENESIS_FILE")
	if genesisFile == "" {
		genesisFile = "zledger/genesis.json"
	}

	gen, err := genesis.Load(genesisFile)
	if err != nil {
		return err
	}

	st, err := state.New(state.Config{
		Genesis: gen,
		Storage: storage,
	})
	if err != nil {
		return err
	}

	fmt.Printf("block[%d] nonce[%d] records[%d]\n", st.RetrieveCurrentBlock(), st.RetrieveNonce(), st.RetrieveJournalSequence())

	dist := st.RetrieveDistributionState()
	fmt.Printf("issuance[%d] allocator rate[%d] self rate[%d] unallocated[%d] paused[%v]\n",
		dist.IssuancePerBlock, dist.TotalAllocatorRate, dist.TotalSelfRate, dist.UnallocatedRate, dist.Paused)
	fmt.Printf("last distribution block[%d] default target[%s]\n\n", dist.LastDistributionBlock, dist.DefaultTarget)

	fmt.Println("ALLOCATIONS")
	for _, alc := range st.RetrieveAllocations() {
		fmt.Printf("target[%s] allocator[%d] self[%d]\n", alc.Target, alc.AllocatorRate, alc.SelfRate)
	}

	fmt.Println("\nBALANCES")
	sheet := st.RetrieveBalances()
	accounts := make([]ledger.AccountID, 0, len(sheet))
	for accountID := range sheet {
		accounts = append(accounts, accountID)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i] < accounts[j]
	})
	for _, accountID := range accounts {
		fmt.Printf("account[%s] balance[%d]\n", accountID, sheet[accountID])
	}

	fmt.Printf("\ntotal supply[%d]\n", st.RetrieveTotalSupply())

	return nil
}

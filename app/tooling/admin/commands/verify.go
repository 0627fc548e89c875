package commands

import (
	"fmt"

	"github.com/ardanlabs/issuance/foundation/allocator/journal"
)

// Verify validates the hash chain across the entire journal.
func Verify(args []string, storage journal.Serializer) error {
	jrnl, err := journal.New(storage, nil)
	if err != nil {
		return err
	}

	records, err := jrnl.Verify()
	if err != nil {
		return err
	}

	fmt.Printf("journal verified: records[%d] block[%d]\n", records, jrnl.LastRecord().Block)

	return nil
}

// Package commands provides the journal inspection support for the admin
// tooling.
package commands

import (
	"fmt"
	"strconv"

	"github.com/ardanlabs/issuance/foundation/allocator/journal"
)

// Records displays the records stored in the journal. An optional sequence
// number limits the output to that single record.
func Records(args []string, storage journal.Serializer) error {
	var only uint64
	if len(args) == 3 {
		sequence, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("unable to parse sequence: %w", err)
		}
		only = sequence
	}

	iter := storage.ForEach()

	for data, err := iter.Next(); !iter.Done(); data, err = iter.Next() {
		if err != nil {
			return err
		}

		if only != 0 && data.Record.Sequence != only {
			continue
		}

		displayRecord(data)
	}

	return nil
}

// displayRecord writes a single record to the terminal in a form that
// matches its kind.
func displayRecord(data journal.RecordData) {
	record := data.Record

	switch record.Kind {
	case journal.KindAction:
		fmt.Printf("seq[%d] block[%d] %s: %v\n", record.Sequence, record.Block, record.Kind, record.Action)

	case journal.KindSettlePending:
		fmt.Printf("seq[%d] block[%d] %s: to block[%d]\n", record.Sequence, record.Block, record.Kind, record.ToBlock)

	default:
		fmt.Printf("seq[%d] block[%d] %s\n", record.Sequence, record.Block, record.Kind)
	}
}

// This program performs administrative tasks against the allocator journal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/issuance/app/tooling/admin/commands"
	"github.com/ardanlabs/issuance/foundation/allocator/journal"
	"github.com/ardanlabs/issuance/foundation/allocator/journal/store/bolt"
	"github.com/ardanlabs/issuance/foundation/allocator/journal/store/disk"
	"github.com/ardanlabs/issuance/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	journalPath := os.Getenv("ALLOCATOR_STATE_JOURNAL_PATH")
	if journalPath == "" {
		journalPath = "zledger/journal"
	}

	storage, err := openStorage(journalPath)
	if err != nil {
		return err
	}
	defer storage.Close()

	if len(os.Args) < 2 {
		fmt.Println("commands: records | verify | replay")
		return nil
	}

	return processCommands(os.Args, storage)
}

// openStorage picks the journal backend from the path. A .db file is a bolt
// database, anything else is a directory of record files.
func openStorage(path string) (journal.Serializer, error) {
	if filepath.Ext(path) == ".db" {
		return bolt.New(path)
	}

	return disk.New(path)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, storage journal.Serializer) error {
	switch args[1] {
	case "records":
		if err := commands.Records(args, storage); err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
	case "verify":
		if err := commands.Verify(args, storage); err != nil {
			return fmt.Errorf("verifying journal: %w", err)
		}
	case "replay":
		if err := commands.Replay(args, storage); err != nil {
			return fmt.Errorf("replaying journal: %w", err)
		}
	default:
		fmt.Println("commands: records | verify | replay")
	}

	return nil
}

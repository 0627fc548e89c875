// Package disk implements journal storage with a separate file per record
// on disk.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/ardanlabs/issuance/foundation/allocator/journal"
)

// Disk represents the serialization implementation for reading and storing
// journal records in their own separate files on disk. This implements the
// journal.Serializer interface.
type Disk struct {
	journalPath string
}

// New constructs a Disk value for use.
func New(journalPath string) (*Disk, error) {
	if err := os.MkdirAll(journalPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{journalPath: journalPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each record and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified record data and stores it on disk in a file
// labeled with the record sequence.
func (d *Disk) Write(data journal.RecordData) error {

	// Marshal the record for writing to disk in a more human readable format.
	doc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	// Create a new file for this record and name it based on the sequence.
	f, err := os.OpenFile(d.getPath(data.Record.Sequence), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	// Write the new record to disk.
	if _, err := f.Write(doc); err != nil {
		return err
	}

	return nil
}

// GetRecord searches the journal on disk to locate and return the contents
// of the specified record by sequence.
func (d *Disk) GetRecord(sequence uint64) (journal.RecordData, error) {

	// Open the record file for the specified sequence.
	f, err := os.OpenFile(d.getPath(sequence), os.O_RDONLY, 0600)
	if err != nil {
		return journal.RecordData{}, err
	}
	defer f.Close()

	// Decode the contents of the record.
	var data journal.RecordData
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return journal.RecordData{}, err
	}

	return data, nil
}

// ForEach returns an iterator to walk through all the records starting
// with sequence 1.
func (d *Disk) ForEach() journal.Iterator {
	return &DiskIterator{disk: d}
}

// Reset clears out the journal on disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.journalPath); err != nil {
		return err
	}

	return os.MkdirAll(d.journalPath, 0755)
}

// getPath forms the path to the specified record.
func (d *Disk) getPath(sequence uint64) string {
	name := strconv.FormatUint(sequence, 10)
	return path.Join(d.journalPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking through
// and reading records on disk. This implements the journal.Iterator
// interface.
type DiskIterator struct {
	disk    *Disk  // Access to the disk storage API.
	current uint64 // Current sequence being iterated over.
	eoj     bool   // Represents the iterator is at the end of the journal.
}

// Next retrieves the next record from disk.
func (di *DiskIterator) Next() (journal.RecordData, error) {
	if di.eoj {
		return journal.RecordData{}, errors.New("end of journal")
	}

	di.current++
	data, err := di.disk.GetRecord(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eoj = true
	}

	return data, err
}

// Done returns the end of journal value.
func (di *DiskIterator) Done() bool {
	return di.eoj
}

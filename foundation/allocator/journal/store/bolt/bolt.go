// Package bolt implements journal storage inside a single bbolt database
// file. Records are keyed by their big endian sequence so they iterate in
// journal order.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/issuance/foundation/allocator/journal"
	"go.etcd.io/bbolt"
)

// recordsBucket is the bucket holding all journal records.
var recordsBucket = []byte("records")

// Bolt represents the serialization implementation for reading and storing
// journal records in a bbolt database. This implements the
// journal.Serializer interface.
type Bolt struct {
	db *bbolt.DB
}

// New constructs a Bolt value for use. The parent directory is created if
// it does not exist.
func New(dbPath string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Write takes the specified record data and stores it in the database keyed
// by the record sequence.
func (b *Bolt) Write(data journal.RecordData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(recordsBucket).Put(sequenceKey(data.Record.Sequence), doc)
	})
}

// GetRecord searches the database to locate and return the contents of the
// specified record by sequence.
func (b *Bolt) GetRecord(sequence uint64) (journal.RecordData, error) {
	var data journal.RecordData

	err := b.db.View(func(tx *bbolt.Tx) error {
		doc := tx.Bucket(recordsBucket).Get(sequenceKey(sequence))
		if doc == nil {
			return fs.ErrNotExist
		}

		return json.Unmarshal(doc, &data)
	})
	if err != nil {
		return journal.RecordData{}, err
	}

	return data, nil
}

// ForEach returns an iterator to walk through all the records starting
// with sequence 1.
func (b *Bolt) ForEach() journal.Iterator {
	return &BoltIterator{bolt: b}
}

// Reset clears out the journal records from the database.
func (b *Bolt) Reset() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(recordsBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
}

// sequenceKey encodes a sequence as an 8 byte big endian key so the records
// sort in journal order.
func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)
	return key
}

// =============================================================================

// BoltIterator represents the iteration implementation for walking through
// and reading records in the database. This implements the journal.Iterator
// interface.
type BoltIterator struct {
	bolt    *Bolt  // Access to the bolt storage API.
	current uint64 // Current sequence being iterated over.
	eoj     bool   // Represents the iterator is at the end of the journal.
}

// Next retrieves the next record from the database.
func (bi *BoltIterator) Next() (journal.RecordData, error) {
	if bi.eoj {
		return journal.RecordData{}, errors.New("end of journal")
	}

	bi.current++
	data, err := bi.bolt.GetRecord(bi.current)
	if errors.Is(err, fs.ErrNotExist) {
		bi.eoj = true
	}

	return data, err
}

// Done returns the end of journal value.
func (bi *BoltIterator) Done() bool {
	return bi.eoj
}

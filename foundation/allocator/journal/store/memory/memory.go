// Package memory implements journal storage in memory using a slice. It
// exists to support testing.
package memory

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/ardanlabs/issuance/foundation/allocator/journal"
)

// Memory represents the serialization implementation for reading and storing
// journal records in memory. This implements the journal.Serializer
// interface.
type Memory struct {
	mu      sync.RWMutex
	records []journal.RecordData
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything is
// in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified record data and stores it in memory.
func (m *Memory) Write(data journal.RecordData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data.Record.Sequence != uint64(len(m.records))+1 {
		return errors.New("record is out of order")
	}

	m.records = append(m.records, data)

	return nil
}

// GetRecord searches the journal to locate and return the contents of the
// specified record by sequence.
func (m *Memory) GetRecord(sequence uint64) (journal.RecordData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if sequence == 0 || sequence > uint64(len(m.records)) {
		return journal.RecordData{}, fs.ErrNotExist
	}

	return m.records[sequence-1], nil
}

// ForEach returns an iterator to walk through all the records starting
// with sequence 1.
func (m *Memory) ForEach() journal.Iterator {
	return &memoryIterator{storage: m}
}

// Reset clears out the journal records.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = []journal.RecordData{}
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking through
// and reading records in memory. This implements the journal.Iterator
// interface.
type memoryIterator struct {
	storage *Memory // Access to the memory storage API.
	current uint64  // Current sequence being iterated over.
	eoj     bool    // Represents the iterator is at the end of the journal.
}

// Next retrieves the next record from memory.
func (mi *memoryIterator) Next() (journal.RecordData, error) {
	if mi.eoj {
		return journal.RecordData{}, errors.New("end of journal")
	}

	mi.current++
	data, err := mi.storage.GetRecord(mi.current)
	if errors.Is(err, fs.ErrNotExist) {
		mi.eoj = true
	}

	return data, err
}

// Done returns the end of journal value.
func (mi *memoryIterator) Done() bool {
	return mi.eoj
}

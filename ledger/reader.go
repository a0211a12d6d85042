package ledger

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// Entry is one rendered attendance row from the ledger file.
type Entry struct {
	ID     uint64
	Name   string
	Time   string
	Date   string
	Method string
}

// ReadCurrentSession reconstructs the current session from a ledger file: the
// records after the most recent separator row, deduplicated by identity. The
// same id can legitimately appear on both sides of a separator; only its
// first occurrence inside the current session is returned. A missing file is
// an empty session, not an error.
func ReadCurrentSession(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	current := []Entry{}
	seen := map[uint64]bool{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		if row[0] == "---" {
			// Separator: everything before it belongs to a previous session.
			current = current[:0]
			seen = map[uint64]bool{}
			continue
		}
		if len(row) < 4 {
			continue
		}
		id, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		entry := Entry{ID: id, Name: row[1], Time: row[2], Date: row[3]}
		if len(row) > 4 {
			entry.Method = row[4]
		}
		current = append(current, entry)
	}
	return current, nil
}

package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/secureexorg/libsecureex-go/address"
)

// EncodeRecords serializes the full collection as a JSON array. A nil or
// empty collection encodes as "[]".
func EncodeRecords(records []ShareRecord) ([]byte, error) {
	if records == nil {
		records = []ShareRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("registry: encode records: %w", err)
	}
	return data, nil
}

// DecodeRecords parses a JSON array of records. Any parse failure, including
// a JSON null or a non-array document, is a *PersistenceDecodeError.
func DecodeRecords(data []byte) ([]ShareRecord, error) {
	var records []ShareRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceDecodeError{Err: err}
	}
	if records == nil {
		return nil, &PersistenceDecodeError{Err: errors.New("document is not an array")}
	}
	return records, nil
}

// normalizeRecord lowercases the addresses of a stored record and checks
// the record invariants. Records that fail are not admitted into a Registry.
func normalizeRecord(r ShareRecord) (ShareRecord, error) {
	if r.ContentID == "" {
		return r, ErrEmptyContentID
	}
	owner, err := address.Normalize(r.Owner)
	if err != nil {
		return r, fmt.Errorf("owner: %w", err)
	}
	r.Owner = owner
	if r.Recipient != "" {
		recipient, err := address.Normalize(r.Recipient)
		if err != nil {
			return r, fmt.Errorf("recipient: %w", err)
		}
		if recipient == owner {
			return r, ErrSelfShare
		}
		r.Recipient = recipient
	}
	return r, nil
}

// Package repositories implements the document store over BadgerDB.
// Three collections exist (users, rooms, messages); documents are
// CBOR-encoded and addressed by prefixed keys.
package repositories

import (
	stderrors "errors"
	"fmt"

	"chat-api/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

// readDoc loads and decodes a single document inside a transaction.
func readDoc(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return cbor.Unmarshal(val, out)
	})
}

// mapStorageErr converts a Badger miss into the storage-level sentinel
// the services translate, and tags everything else with the operation
// for the logs.
func mapStorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrDocumentNotFound
	}
	if stderrors.Is(err, errors.ErrDocumentNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

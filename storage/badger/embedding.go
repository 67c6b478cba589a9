package badger

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EmbeddingRepository has no resources to release.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// GetDocument retrieves the stored record for a document.
func (r *EmbeddingRepository) GetDocument(ctx context.Context, memory, name string) (*core.DocumentRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocumentRecord(tx, makeDocumentKey(memory, name))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments returns every embedded document of a memory, ordered by name.
func (r *EmbeddingRepository) ListDocuments(ctx context.Context, memory string) ([]*core.DocumentRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeMemoryDocumentPrefix(memory)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.DocumentRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalDocumentRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PutDocument stores a document record and replaces all of its chunks.
//
// Stale chunks are deleted and new chunks written before the document record,
// so a record is only visible once its chunks are complete. Very large
// documents may span several badger transactions; a failure part way leaves
// the previous record (if any) with a mismatched content hash, which the
// generator treats as stale.
func (r *EmbeddingRepository) PutDocument(ctx context.Context, record *core.DocumentRecord, chunks []*core.Chunk) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if record == nil || record.Memory == "" || record.Name == "" {
		return storage.ErrInvalidQuery
	}

	db := r.backend.db
	txn := db.NewTransaction(true)
	defer func() { txn.Discard() }()

	apply := func(op func(tx *badger.Txn) error) error {
		err := op(txn)
		if !errors.Is(err, badger.ErrTxnTooBig) {
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		txn = db.NewTransaction(true)
		return op(txn)
	}

	// Remove the previous record first so readers never pair it with new chunks
	docKey := makeDocumentKey(record.Memory, record.Name)
	if err := apply(func(tx *badger.Txn) error { return tx.Delete(docKey) }); err != nil {
		return err
	}

	stale, err := collectKeys(txn, makeDocumentChunkPrefix(record.Memory, record.Name))
	if err != nil {
		return err
	}
	for _, key := range stale {
		if err := apply(func(tx *badger.Txn) error { return tx.Delete(key) }); err != nil {
			return err
		}
	}

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk.Memory = record.Memory
		chunk.Document = record.Name
		key := makeChunkKey(chunk.Memory, chunk.Document, chunk.Index)
		value := storage.MarshalChunk(chunk)
		if err := apply(func(tx *badger.Txn) error { return tx.Set(key, value) }); err != nil {
			return err
		}
	}

	record.Chunks = len(chunks)
	value := storage.MarshalDocumentRecord(record)
	if err := apply(func(tx *badger.Txn) error { return tx.Set(docKey, value) }); err != nil {
		return err
	}
	return txn.Commit()
}

// DeleteDocument removes a document record and its chunks.
func (r *EmbeddingRepository) DeleteDocument(ctx context.Context, memory, name string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		docKey := makeDocumentKey(memory, name)
		record, err := readDocumentRecord(tx, docKey)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}

		keys, err := collectKeys(tx, makeDocumentChunkPrefix(memory, name))
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete(docKey); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds chunks of a memory similar to the given vector.
func (r *EmbeddingRepository) FindSimilar(ctx context.Context, memory string, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.SearchResult

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeMemoryChunkPrefix(memory)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip chunks without embeddings
			if len(chunk.Vector) == 0 {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			similarity := dotProduct(vector, chunk.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Chunk: chunk,
					Score: similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// readDocumentRecord reads a document record, returning nil if it doesn't exist.
func readDocumentRecord(tx *badger.Txn, key []byte) (*core.DocumentRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.DocumentRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalDocumentRecord(val)
		return err
	})
	return record, err
}

// collectKeys returns copies of every key under prefix.
func collectKeys(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}

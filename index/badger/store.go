package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/index"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const documentPrefix = "doc:"

// Store is an embedded similarity index backed by BadgerDB.
// Search iterates the stored documents and ranks them by dot product
// against the query vector; with normalized embeddings this is cosine
// similarity.
type Store struct {
	db       *badger.DB
	minScore float32
	logger   *slog.Logger
}

var _ index.Index = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithMinScore sets the minimum similarity score for search results.
// Default is 0, which also keeps returned scores non-negative.
func WithMinScore(minScore float32) Option {
	return func(s *Store) {
		s.minScore = minScore
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a document index at the specified path.
// Creates the directory if it doesn't exist.
func Open(filePath string, opts ...Option) (*Store, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", filePath)
	}

	return open(badger.DefaultOptions(filePath), opts...)
}

// OpenMemory opens an in-memory document index, used in tests and for
// ephemeral deployments.
func OpenMemory(opts ...Option) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), opts...)
}

func open(badgerOpts badger.Options, opts ...Option) (*Store, error) {
	s := &Store{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: s.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func makeDocumentKey(id core.ID) []byte {
	key := make([]byte, len(documentPrefix)+8)
	copy(key, documentPrefix)
	binary.BigEndian.PutUint64(key[len(documentPrefix):], uint64(id))
	return key
}

// Upsert stores documents, replacing existing entries with the same ID.
// Documents without an ID get a content-addressed one; documents without
// an external id surface under the hex form of their internal id.
func (s *Store) Upsert(ctx context.Context, docs ...index.Document) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	for i := range docs {
		doc := docs[i]
		if doc.Content == "" {
			return index.ErrEmptyDocument
		}
		if doc.ID == 0 {
			doc.ID = core.IDFromContent(doc.Content)
		}
		if doc.ExternalID == "" {
			doc.ExternalID = fmt.Sprintf("%016x", uint64(doc.ID))
		}

		if err := tx.Set(makeDocumentKey(doc.ID), index.MarshalDocument(&doc)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Search returns up to k documents ranked by descending similarity.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]core.RetrievedDocument, error) {
	if k <= 0 {
		return nil, index.ErrInvalidLimit
	}
	if len(vector) == 0 {
		return nil, index.ErrEmptyVector
	}

	results := make([]core.RetrievedDocument, 0, k)

	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *index.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = index.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip documents without embeddings
			if len(doc.Vector) == 0 {
				continue
			}

			score := dotProduct(vector, doc.Vector)
			if score >= s.minScore {
				results = append(results, core.RetrievedDocument{
					ID:      doc.ExternalID,
					Content: doc.Content,
					Score:   score,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b core.RetrievedDocument) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

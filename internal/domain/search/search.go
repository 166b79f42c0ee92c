package search

import (
	"context"
	"errors"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bridgeart/backend/pkg/logger"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
)

const NFTDoc = "nft"

type NFTData struct {
	Name        string
	Artist      string
	Description string
	Category    string
}

type Index interface {
	IndexNFT(ctx context.Context, id int64, data NFTData) error
	DeleteNFT(ctx context.Context, id int64) error
	SearchNFT(ctx context.Context, q string, offset, limit int) ([]int64, error)
	Close()
}

type bleveIndex struct {
	logger   logger.Logger
	indexDir string
	indexes  *xsync.MapOf[string, bleve.Index]
	mutex    sync.Mutex
}

// NewBleveIndex keeps one index per document under Search.IndexDir, or in
// memory when no directory is configured.
func NewBleveIndex(ctx context.Context) *bleveIndex {
	return &bleveIndex{
		logger:   xcontext.Logger(ctx),
		indexDir: xcontext.Configs(ctx).Search.IndexDir,
		indexes:  xsync.NewMapOf[bleve.Index](),
	}
}

func (i *bleveIndex) IndexNFT(_ context.Context, id int64, data NFTData) error {
	return i.index(NFTDoc, strconv.FormatInt(id, 10), data)
}

func (i *bleveIndex) DeleteNFT(_ context.Context, id int64) error {
	index, err := i.getIndexByDocument(NFTDoc)
	if err != nil {
		return err
	}

	return index.Delete(strconv.FormatInt(id, 10))
}

// SearchNFT returns ids ordered by relevance. Every term of q matches either a
// whole word or a word prefix.
func (i *bleveIndex) SearchNFT(_ context.Context, q string, offset, limit int) ([]int64, error) {
	ids, err := i.search(NFTDoc, q, offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			i.logger.Warnf("Invalid nft id in index: %s", id)
			continue
		}

		result = append(result, n)
	}

	return result, nil
}

func (i *bleveIndex) index(document, id string, data any) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	record, err := index.Document(id)
	if err != nil {
		return err
	}

	// Delete if the record existed.
	if record != nil {
		if err := index.Delete(id); err != nil {
			return err
		}
	}

	return index.Index(id, data)
}

func (i *bleveIndex) search(document, q string, offset, limit int) ([]string, error) {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return []string{}, nil
	}

	conjuncts := []query.Query{}
	for _, term := range terms {
		conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(
			bleve.NewMatchQuery(term),
			bleve.NewPrefixQuery(term),
		))
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(conjuncts...), limit, offset, false)
	searchResults, err := index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, match := range searchResults.Hits {
		ids = append(ids, match.ID)
	}

	return ids, nil
}

func (i *bleveIndex) Close() {
	i.logger.Infof("Closing all indexers...")

	i.indexes.Range(func(document string, index bleve.Index) bool {
		if err := index.Close(); err != nil {
			i.logger.Errorf("Cannot close indexer %s: %v", document, err)
		}

		return true
	})

	i.logger.Infof("Closing all indexers...done")
}

func (i *bleveIndex) getIndexByDocument(document string) (bleve.Index, error) {
	if index, ok := i.indexes.Load(document); ok {
		return index, nil
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	if index, ok := i.indexes.Load(document); ok {
		return index, nil
	}

	i.logger.Infof("A new document index is added: %s", document)

	var (
		index bleve.Index
		err   error
	)

	if i.indexDir == "" {
		index, err = bleve.NewMemOnly(bleve.NewIndexMapping())
		if err != nil {
			return nil, err
		}
	} else {
		indexPath := path.Join(i.indexDir, document)
		index, err = bleve.New(indexPath, bleve.NewIndexMapping())
		if err != nil {
			if !errors.Is(err, bleve.ErrorIndexPathExists) {
				return nil, err
			}

			index, err = bleve.Open(indexPath)
			if err != nil {
				return nil, err
			}
		}
	}

	i.indexes.Store(document, index)
	return index, nil
}

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/segmentio/kafka-go"
)

// Indexer mirrors product events into the search index so queries never
// touch the relational store.
type Indexer struct {
	Reader *kafka.Reader
	ES     *elasticsearch.Client
	Index  string
}

func NewIndexer(brokers []string, groupID, index string, es *elasticsearch.Client) *Indexer {
	return &Indexer{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    handler.TopicProductEvents,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		ES:    es,
		Index: index,
	}
}

func (ix *Indexer) Run(ctx context.Context) error {
	for {
		m, err := ix.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := ix.handle(ctx, m.Value); err != nil {
			logging.FromContext(ctx).Error("product_index_failed", "error", err)
		}
	}
}

func (ix *Indexer) handle(ctx context.Context, payload []byte) error {
	var event handler.ProductEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode product event: %w", err)
	}

	docID := strconv.FormatUint(uint64(event.ProductID), 10)

	switch event.Type {
	case "product_created", "product_updated":
		doc, err := json.Marshal(Product{ID: event.ProductID, Name: event.Name})
		if err != nil {
			return err
		}
		res, err := ix.ES.Index(
			ix.Index,
			bytes.NewReader(doc),
			ix.ES.Index.WithDocumentID(docID),
			ix.ES.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("index product %s: %w", docID, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index product %s: %s", docID, res.Status())
		}
		return nil

	case "product_deleted":
		res, err := ix.ES.Delete(
			ix.Index,
			docID,
			ix.ES.Delete.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("delete product %s from index: %w", docID, err)
		}
		defer res.Body.Close()
		// a document we never indexed is fine to miss
		if res.IsError() && res.StatusCode != http.StatusNotFound {
			return fmt.Errorf("delete product %s from index: %s", docID, res.Status())
		}
		return nil

	default:
		return fmt.Errorf("unknown product event type %q", event.Type)
	}
}

func (ix *Indexer) Close() error {
	return ix.Reader.Close()
}

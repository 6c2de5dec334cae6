// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package document implements the whole-database JSON document store.

The entire database lives in one JSON file whose top-level keys are a closed
set of collections. Every access loads the file, hands the decoded document to
a callback and, for writes, rewrites the file wholesale.

Concurrency:

  - One [sync.Mutex] serialises every View and Update, so two writers can no
    longer interleave their read-modify-write cycles and lose each other's changes.
  - Writes go through a temporary file renamed over the original, so a crash
    never leaves a truncated document behind.
  - An Update whose callback fails writes nothing.

Collections this service does not own (clients, managers, transactions and
closures) are carried through every rewrite untouched.
*/
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// # Collections

// Collection names one top-level array of the document.
type Collection string

const (
	Users         Collection = "users"
	OTPCodes      Collection = "otpCodes"
	Sessions      Collection = "sessions"
	Trucks        Collection = "trucks"
	Stocks        Collection = "stocks"
	Clients       Collection = "clients"
	Managers      Collection = "managers"
	Notifications Collection = "notifications"
	AuditLogs     Collection = "auditLogs"
	Transactions  Collection = "transactions"
	Closures      Collection = "closures"
)

// Collections is the closed set of top-level keys, in file order.
var Collections = []Collection{
	Users, OTPCodes, Sessions, Trucks, Stocks, Clients,
	Managers, Notifications, AuditLogs, Transactions, Closures,
}

var emptyArray = json.RawMessage("[]")

// # Document

// Document is the decoded database, one raw JSON array per collection.
//
// Callers read and write typed slices through [Decode] and [Encode]. Top-level
// keys outside [Collections] are carried through rewrites untouched.
type Document struct {
	collections map[Collection]json.RawMessage
	extra       map[string]json.RawMessage
}

func newDocument() *Document {
	doc := &Document{collections: make(map[Collection]json.RawMessage, len(Collections))}
	for _, c := range Collections {
		doc.collections[c] = emptyArray
	}
	return doc
}

// MarshalJSON writes the collections in their canonical order, then any
// foreign keys sorted by name.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(name string, value json.RawMessage) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	for _, c := range Collections {
		write(string(c), d.collections[c])
	}
	for _, name := range slices.Sorted(maps.Keys(d.extra)) {
		write(name, d.extra[name])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON fills missing collections with empty arrays and keeps foreign keys aside.
func (d *Document) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fresh := newDocument()
	for name, value := range raw {
		c := Collection(name)
		if !slices.Contains(Collections, c) {
			if fresh.extra == nil {
				fresh.extra = make(map[string]json.RawMessage)
			}
			fresh.extra[name] = value
			continue
		}
		if string(bytes.TrimSpace(value)) != "null" {
			fresh.collections[c] = value
		}
	}

	*d = *fresh
	return nil
}

// Decode reads collection c into a typed slice.
func Decode[T any](doc *Document, c Collection) ([]T, error) {
	var items []T
	if err := json.Unmarshal(doc.collections[c], &items); err != nil {
		return nil, fmt.Errorf("document_decode_%s_failed: %w", c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Encode replaces collection c with items.
func Encode[T any](doc *Document, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("document_encode_%s_failed: %w", c, err)
	}
	doc.collections[c] = data
	return nil
}

// # Store

// Store is the file-backed document store.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

/*
Open prepares the store at path, creating the file with empty collections
when it does not exist yet.

Returns:
  - *Store: The ready store
  - error: Filesystem or decoding failures
*/
func Open(path string, logger *slog.Logger) (*Store, error) {
	store := &Store{path: path, logger: logger}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("document_dir_create_failed: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := store.save(newDocument()); err != nil {
			return nil, err
		}
		logger.Info("document_created", slog.String("path", path))
	} else if err != nil {
		return nil, fmt.Errorf("document_stat_failed: %w", err)
	}

	// Fail fast on a corrupt file rather than on the first request.
	if _, err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

// Path returns the location of the backing file.
func (store *Store) Path() string {
	return store.path
}

// View loads the document and passes it to fn. Changes made by fn are discarded.
func (store *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	doc, err := store.load()
	if err != nil {
		return err
	}

	return fn(doc)
}

// Update loads the document, passes it to fn and rewrites the file if fn succeeds.
func (store *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	doc, err := store.load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return store.save(doc)
}

// Ping verifies the document is still readable, for readiness probes.
func (store *Store) Ping(ctx context.Context) error {
	return store.View(ctx, func(*Document) error { return nil })
}

func (store *Store) load() (*Document, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		return nil, fmt.Errorf("document_read_failed: %w", err)
	}

	doc := newDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("document_parse_failed: %w", err)
	}

	return doc, nil
}

func (store *Store) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("document_marshal_failed: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(store.path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("document_temp_create_failed: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("document_write_failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("document_close_failed: %w", err)
	}

	if err := os.Rename(tmp.Name(), store.path); err != nil {
		return fmt.Errorf("document_rename_failed: %w", err)
	}

	store.logger.Debug("document_saved", slog.String("path", store.path), slog.Int("bytes", len(data)))
	return nil
}

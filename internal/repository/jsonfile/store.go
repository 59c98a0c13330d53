// internal/repository/jsonfile/store.go
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/util"
)

var errReadOnly = errors.New("write attempted in a read-only unit of work")

// Store implements repository.Store on a single JSON document.
//
// One mutex serialises every unit of work. The file is re-read when its
// modification time or size changes, so edits made by another process
// (portalctl) are picked up by a running server.
type Store struct {
	path string

	mu      sync.Mutex
	doc     *Document
	modTime time.Time
	size    int64
}

// Open loads the document at path, creating it with defaults when it does not exist.
func Open(path string, defaults domain.SystemSettings) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := saveDocument(path, newDocument(defaults)); err != nil {
			return nil, fmt.Errorf("create data file %s: %w", path, err)
		}
	}
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// refresh reloads the document if the file changed on disk. Caller holds mu.
func (s *Store) refresh() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat data file: %w: %w", util.ErrStorageFailure, err)
	}
	if s.doc != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return nil
	}
	doc, err := loadDocument(s.path)
	if err != nil {
		return fmt.Errorf("load data file: %w: %w", util.ErrStorageFailure, err)
	}
	s.doc = doc
	s.modTime = info.ModTime()
	s.size = info.Size()
	return nil
}

// ReadOnly runs fn against the current document. Writes fail.
func (s *Store) ReadOnly(ctx context.Context, fn repository.UnitOfWork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return err
	}
	return fn(ctx, bind(&view{doc: s.doc}))
}

// WithinTx runs fn against a copy of the document and persists the copy
// only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn repository.UnitOfWork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return err
	}
	v := &view{doc: s.doc.clone(), writable: true}
	if err := fn(ctx, bind(v)); err != nil {
		return err
	}
	if !v.dirty {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := saveDocument(s.path, v.doc); err != nil {
		return fmt.Errorf("save data file: %w: %w", util.ErrStorageFailure, err)
	}
	s.doc = v.doc
	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
		s.size = info.Size()
	}
	return nil
}

// Close is a no-op; every committed unit of work is already on disk.
func (s *Store) Close() error {
	return nil
}

// view is the document seen by one unit of work.
type view struct {
	doc      *Document
	writable bool
	dirty    bool
}

func (v *view) write() error {
	if !v.writable {
		return fmt.Errorf("%w: %w", util.ErrStorageFailure, errReadOnly)
	}
	v.dirty = true
	return nil
}

func bind(v *view) repository.Repositories {
	return repository.Repositories{
		Users:        &userRepository{v: v},
		Transactions: &transactionRepository{v: v},
		Settings:     &settingsRepository{v: v},
	}
}

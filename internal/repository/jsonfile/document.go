// internal/repository/jsonfile/document.go
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"customer-portal/internal/domain"
)

// Document is the whole persisted state of the JSON backend.
type Document struct {
	Users          []domain.User         `json:"users"`
	Transactions   []domain.Transaction  `json:"transactions"`
	SystemSettings domain.SystemSettings `json:"systemSettings"`
}

func newDocument(settings domain.SystemSettings) *Document {
	return &Document{
		Users:          []domain.User{},
		Transactions:   []domain.Transaction{},
		SystemSettings: settings,
	}
}

// clone copies the record slices so a failed unit of work leaves d untouched.
func (d *Document) clone() *Document {
	c := &Document{
		Users:          make([]domain.User, len(d.Users)),
		Transactions:   make([]domain.Transaction, len(d.Transactions)),
		SystemSettings: d.SystemSettings,
	}
	copy(c.Users, d.Users)
	copy(c.Transactions, d.Transactions)
	return c
}

// storedDocument is the on-disk form read by loadDocument. User records
// written by the earlier Node.js portal keep the password under "password"
// and may omit "isActive" and "role".
type storedDocument struct {
	Users          []storedUser          `json:"users"`
	Transactions   []domain.Transaction  `json:"transactions"`
	SystemSettings domain.SystemSettings `json:"systemSettings"`
}

type storedUser struct {
	domain.User
	Password string `json:"password"`
	IsActive *bool  `json:"isActive"`
}

func (s storedUser) user() domain.User {
	u := s.User
	if u.PasswordHash == "" {
		u.PasswordHash = s.Password
	}
	u.IsActive = s.IsActive == nil || *s.IsActive
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	return u
}

func loadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stored storedDocument
	if err := json.NewDecoder(f).Decode(&stored); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	doc := Document{
		Users:          make([]domain.User, 0, len(stored.Users)),
		Transactions:   stored.Transactions,
		SystemSettings: stored.SystemSettings,
	}
	for _, u := range stored.Users {
		doc.Users = append(doc.Users, u.user())
	}
	if doc.Transactions == nil {
		doc.Transactions = []domain.Transaction{}
	}
	return &doc, nil
}

// saveDocument writes doc to path+".tmp" and renames it over path.
func saveDocument(path string, doc *Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"SignalDesk/internal/model"
)

// LoadDocument reads the ledger from a JSON file. A missing or empty file yields an empty
// ledger; a file that does not parse is an error so its history is never overwritten.
func LoadDocument(filePath string) (*model.LedgerDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(), nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(data) == 0 {
		return newDocument(), nil
	}
	var doc model.LedgerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", filePath, err)
	}
	if doc.Companies == nil {
		doc.Companies = []*model.CompanyEntry{}
	}
	return &doc, nil
}

// SaveDocument writes the whole ledger, replacing the previous file in one rename.
func SaveDocument(filePath string, doc *model.LedgerDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod ledger: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}

func newDocument() *model.LedgerDocument {
	return &model.LedgerDocument{Companies: []*model.CompanyEntry{}}
}

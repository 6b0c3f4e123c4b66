// Package documents loads the purchase order and proforma invoice
// markdown files used by document mode.
package documents

import (
	"fmt"
	"os"
	"path/filepath"
)

type Loader struct {
	dir             string
	purchaseOrder   string
	proformaInvoice string
}

func NewLoader(dir, purchaseOrderFile, proformaInvoiceFile string) *Loader {
	return &Loader{
		dir:             dir,
		purchaseOrder:   purchaseOrderFile,
		proformaInvoice: proformaInvoiceFile,
	}
}

// LoadDocuments reads both documents in full. Either file missing is
// an error; document mode cannot run on half the pair.
func (l *Loader) LoadDocuments() (string, string, error) {
	po, err := os.ReadFile(filepath.Join(l.dir, l.purchaseOrder))
	if err != nil {
		return "", "", fmt.Errorf("failed to load MD documents: %w", err)
	}
	pi, err := os.ReadFile(filepath.Join(l.dir, l.proformaInvoice))
	if err != nil {
		return "", "", fmt.Errorf("failed to load MD documents: %w", err)
	}
	return string(po), string(pi), nil
}

package service

import (
	"io"

	"vitals/internal/adapters/ingest/healthexport"
	"vitals/internal/services/ingest/domain"
)

type exportScanners struct{}

// NewScannerFactory returns the production scanner factory over health exports
func NewScannerFactory() domain.ScannerFactory { return exportScanners{} }

// New implements domain.ScannerFactory
func (exportScanners) New(rc io.ReadCloser) domain.ScannerPort {
	return healthexport.NewReader(rc)
}

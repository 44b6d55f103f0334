// Package antivirus scans uploaded résumés before they leave the service.
package antivirus

import (
	"context"
	"errors"
)

// ErrUnavailable is reported when no scanner could be reached
var ErrUnavailable = errors.New("antivirus: scanner unavailable")

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected or the scan failed
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string
	Error       error
}

// Scanner checks file content for malware. Implementations fail closed:
// a scan error is reported as Infected with Error set.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
	Available(ctx context.Context) bool
}

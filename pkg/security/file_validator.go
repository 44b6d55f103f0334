package security

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Extension taken from the filename
	DetectedMIME string // MIME type sniffed from content
	Error        string // Error message if validation failed
}

// Magic byte signatures for résumé formats
var magicBytes = map[string][][]byte{
	// %PDF
	".pdf": {{0x25, 0x50, 0x44, 0x46}},
	// OLE Compound Document
	".doc": {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	// ZIP (PK..)
	".docx": {{0x50, 0x4B, 0x03, 0x04}},
}

// MIME types accepted per extension. DOCX is a ZIP container and is
// sometimes sniffed as application/zip.
var allowedMIME = map[string]map[string]bool{
	".pdf": {"application/pdf": true},
	".doc": {"application/msword": true, "application/x-ole-storage": true},
	".docx": {
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"application/zip": true,
	},
}

// DetectMIME sniffs the content type from magic bytes. Returns "" when unknown.
func DetectMIME(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// ValidateResume performs 3-layer validation of an uploaded résumé:
// 1. Extension whitelist and size cap
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type whitelist
func ValidateResume(filename string, data []byte, maxBytes int64) FileValidationResult {
	result := FileValidationResult{}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "el archivo no tiene extensión"
		return result
	}
	result.Extension = ext

	if _, ok := magicBytes[ext]; !ok {
		result.Error = fmt.Sprintf("extensión no permitida: %s (usa %s)", ext, strings.Join(AllowedExtensions(), ", "))
		return result
	}

	if len(data) == 0 {
		result.Error = "el archivo está vacío"
		return result
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		result.Error = fmt.Sprintf("el archivo supera el tamaño máximo de %d MB", maxBytes>>20)
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "el contenido del archivo no coincide con su extensión"
		return result
	}

	result.DetectedMIME = DetectMIME(data)
	if result.DetectedMIME == "" {
		// Magic bytes already matched; fall back to the canonical type
		result.DetectedMIME = canonicalMIME(ext)
	}
	if !allowedMIME[ext][result.DetectedMIME] {
		result.Error = "tipo de archivo no permitido: " + result.DetectedMIME
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func canonicalMIME(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	default:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
}

// ValidateFileExtension checks only the extension (for quick pre-validation)
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("file has no extension")
	}
	if _, ok := magicBytes[ext]; !ok {
		return errors.New("file extension not allowed: " + ext)
	}
	return nil
}

// AllowedExtensions returns the accepted résumé extensions
func AllowedExtensions() []string {
	return []string{".pdf", ".doc", ".docx"}
}

package service

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// pdfSniffLen is how many leading bytes are inspected for the signature.
const pdfSniffLen = 1024

var pdfSignature = []byte("%PDF")

// validatePDF decides whether the upload is an acceptable PDF: the filename
// must end in .pdf (case-insensitive) and the content must open with the
// %PDF signature. The read position is restored to the start before
// returning so the caller can stream the full content afterwards.
func validatePDF(filename string, r io.ReadSeeker) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return ErrNotPDF
	}

	header := make([]byte, pdfSniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if !bytes.HasPrefix(header[:n], pdfSignature) {
		return ErrNotPDF
	}
	return nil
}

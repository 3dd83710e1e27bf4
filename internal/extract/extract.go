package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF reports an upload that is not a PDF file.
var ErrNotPDF = errors.New("not a pdf file")

// ErrNoText reports a PDF with no extractable text, usually a scanned
// document. Scoring still runs for these files; callers log the warning.
var ErrNoText = errors.New("no extractable text")

var pdfMagic = []byte("%PDF-")

// CheckPDF validates that data looks like a PDF and contains at least some
// extractable text. fileName is only used for the extension check and error
// messages.
func CheckPDF(fileName string, data []byte) error {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != ".pdf" {
		return fmt.Errorf("%s: %w", fileName, ErrNotPDF)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("%s: %w", fileName, ErrNotPDF)
	}
	text, err := Text(data)
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, ErrNoText)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s: %w", fileName, ErrNoText)
	}
	return nil
}

// Text extracts the plain text of an in-memory PDF.
func Text(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package resumes

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"jobboard-backend/internal/shared/apperr"
)

// MaxSize is the largest accepted resume.
const MaxSize = 6 << 20

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeRTF  = "text/rtf"
)

var (
	ErrTooLarge    = apperr.New(apperr.ValidationError, "resume must be 6 MiB or smaller")
	ErrEmpty       = apperr.New(apperr.ValidationError, "resume file is empty")
	ErrUnsupported = apperr.New(apperr.ValidationError, "resume must be a PDF, DOC, DOCX or RTF file")
	ErrUnreadable  = apperr.New(apperr.ValidationError, "resume file could not be read")
)

// Checked is an upload that passed Inspect.
type Checked struct {
	Data     []byte
	MimeType string
}

func (c Checked) Reader() io.Reader { return bytes.NewReader(c.Data) }

// Inspect reads at most MaxSize+1 bytes from r and verifies size and type
// from the content itself. The declared file name is only used to tell
// DOCX apart from other zip payloads.
func Inspect(r io.Reader, fileName string) (Checked, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return Checked{}, apperr.Wrap(apperr.ValidationError, ErrUnreadable.Message, err)
	}
	if len(data) > MaxSize {
		return Checked{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Checked{}, ErrEmpty
	}

	mimeType := normalizeMimeType(mimetype.Detect(data), fileName, data)
	switch mimeType {
	case mimePDF:
		if err := checkPDF(data); err != nil {
			return Checked{}, apperr.Wrap(apperr.ValidationError, ErrUnreadable.Message, err)
		}
	case mimeDOC, mimeDOCX, mimeRTF:
	default:
		return Checked{}, ErrUnsupported
	}
	return Checked{Data: data, MimeType: mimeType}, nil
}

func normalizeMimeType(detected *mimetype.MIME, fileName string, data []byte) string {
	switch {
	case detected.Is(mimePDF):
		return mimePDF
	case detected.Is(mimeDOCX):
		return mimeDOCX
	case detected.Is(mimeDOC):
		return mimeDOC
	case detected.Is(mimeRTF), detected.Is("application/rtf"):
		return mimeRTF
	case detected.Is("application/x-ole-storage"):
		// Older Word files are sometimes only recognised as a generic OLE container.
		if strings.EqualFold(filepath.Ext(fileName), ".doc") {
			return mimeDOC
		}
	case detected.Is("application/zip"):
		if hasZipEntry(data, "word/document.xml") {
			return mimeDOCX
		}
	}
	base, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(base)
}

func hasZipEntry(data []byte, want string) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == want {
			return true
		}
	}
	return false
}

// checkPDF opens the document and requires at least one page. The pdf
// package panics on some malformed inputs, so a panic is an invalid file.
func checkPDF(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}

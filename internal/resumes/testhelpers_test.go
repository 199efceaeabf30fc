package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"jobboard-backend/internal/shared/storage/object"
)

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func minimalDOCX() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	} {
		w, _ := zw.Create(name)
		_, _ = w.Write([]byte(body))
	}
	_ = zw.Close()
	return buf.Bytes()
}

var rtfResume = []byte(`{\rtf1\ansi\deff0 {\fonttbl {\f0 Times;}} Ada Lovelace, analyst.}`)

// memStore is an in-memory object store that counts opens.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	opens   int
	openErr error
	saveErr error
	block   bool
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, ownerID, fileName string, r io.Reader) (string, int64, string, error) {
	if s.saveErr != nil {
		return "", 0, "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s/%d_%s", ownerID, len(s.objects)+len(s.deleted), fileName)
	s.objects[key] = data
	return key, int64(len(data)), object.DetectMIME(data), nil
}

func (s *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	if s.openErr != nil {
		return nil, s.openErr
	}
	if s.block {
		return io.NopCloser(blockingReader{ctx: ctx}), nil
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, object.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type blockingReader struct {
	ctx context.Context
}

func (b blockingReader) Read([]byte) (int, error) {
	<-b.ctx.Done()
	return 0, b.ctx.Err()
}

type linkSet map[[2]string]bool

func (l linkSet) ExistsForRecruiterCandidate(_ context.Context, recruiterID, candidateID string) (bool, error) {
	return l[[2]string{recruiterID, candidateID}], nil
}

type failingLinks struct{}

func (failingLinks) ExistsForRecruiterCandidate(context.Context, string, string) (bool, error) {
	return false, errors.New("db down")
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

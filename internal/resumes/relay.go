package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sync/atomic"
	"time"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

// DefaultFetchTimeout bounds how long the upstream may stay silent.
const DefaultFetchTimeout = 20 * time.Second

type Mode string

const (
	ModeView     Mode = "view"
	ModeDownload Mode = "download"
)

func (m Mode) disposition() string {
	if m == ModeDownload {
		return "attachment"
	}
	return "inline"
}

// ArtifactSource returns a candidate's current resume, or nil.
type ArtifactSource interface {
	ResumeOf(ctx context.Context, candidateID string) (*users.ResumeArtifact, error)
}

// Relay streams resumes from the object store or a remote URL to callers
// that pass the Gate.
type Relay struct {
	Gate      *Gate
	Artifacts ArtifactSource
	Store     object.ObjectStore
	Client    *http.Client
	Timeout   time.Duration
}

// Download is an opened resume. Body must be closed.
type Download struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	Disposition string
	Size        int64
}

// ContentDisposition renders the header value for d.
func (d *Download) ContentDisposition() string {
	v := mime.FormatMediaType(d.Disposition, map[string]string{"filename": d.FileName})
	if v == "" {
		return d.Disposition
	}
	return v
}

// Open authorizes the caller, then opens the candidate's resume. Nothing
// upstream is touched when the gate denies access.
func (r *Relay) Open(ctx context.Context, p identity.Principal, candidateID string, mode Mode) (*Download, error) {
	allowed, err := r.Gate.CanAccess(ctx, p, candidateID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	artifact, err := r.Artifacts.ResumeOf(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if artifact.Empty() {
		return nil, ErrNoResume
	}

	idle := r.Timeout
	if idle <= 0 {
		idle = DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	var timedOut atomic.Bool
	timer := time.AfterFunc(idle, func() {
		timedOut.Store(true)
		cancel()
	})
	fail := func(stage string, cause error) (*Download, error) {
		timer.Stop()
		cancel()
		if timedOut.Load() {
			cause = fmt.Errorf("timed out after %s: %w", idle, cause)
		}
		if errors.Is(cause, object.ErrNotExist) {
			telemetry.Warn("resume.relay.missing_object", map[string]any{"candidate_id": candidateID})
			return nil, ErrNoResume
		}
		telemetry.Error("resume.relay.upstream_failed", map[string]any{
			"candidate_id": candidateID,
			"stage":        stage,
			"error":        cause,
		})
		return nil, apperr.Wrap(ErrUpstream.Kind, ErrUpstream.Message, cause)
	}

	body, remoteType, size, err := r.fetch(fetchCtx, artifact)
	if err != nil {
		return fail("open", err)
	}

	// Read the first chunk before committing to a response so an upstream
	// that fails immediately still yields an error status.
	head := make([]byte, object.SniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		_ = body.Close()
		return fail("read", err)
	}
	head = head[:n]
	timer.Stop()

	contentType := artifact.MimeType
	if contentType == "" {
		contentType = remoteType
	}
	if contentType == "" && n > 0 {
		contentType = object.DetectMIME(head)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if artifact.SizeBytes > 0 {
		size = artifact.SizeBytes
	}

	return &Download{
		Body: &relayBody{
			ctx:      fetchCtx,
			r:        io.MultiReader(bytes.NewReader(head), body),
			upstream: body,
			timer:    timer,
			idle:     idle,
			cancel:   cancel,
		},
		FileName:    fileNameOf(artifact),
		ContentType: contentType,
		Disposition: mode.disposition(),
		Size:        size,
	}, nil
}

func (r *Relay) fetch(ctx context.Context, artifact *users.ResumeArtifact) (io.ReadCloser, string, int64, error) {
	if artifact.StorageKey != "" {
		if r.Store == nil {
			return nil, "", 0, errors.New("object store not configured")
		}
		body, err := r.Store.Open(ctx, artifact.StorageKey)
		return body, "", -1, err
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifact.RemoteURL, nil)
	if err != nil {
		return nil, "", 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", 0, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, "", 0, object.ErrNotExist
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, "", 0, fmt.Errorf("remote status %d", resp.StatusCode)
	}
	remoteType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return resp.Body, remoteType, resp.ContentLength, nil
}

func fileNameOf(a *users.ResumeArtifact) string {
	if a.FileName != "" {
		return a.FileName
	}
	if a.StorageKey != "" {
		return path.Base(a.StorageKey)
	}
	return "resume"
}

// relayBody re-arms the idle timer around every read so a stalled upstream
// is cut off. Close cancels the upstream request.
type relayBody struct {
	ctx      context.Context
	r        io.Reader
	upstream io.ReadCloser
	timer    *time.Timer
	idle     time.Duration
	cancel   context.CancelFunc
}

func (b *relayBody) Read(p []byte) (int, error) {
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}
	b.timer.Reset(b.idle)
	n, err := b.r.Read(p)
	b.timer.Stop()
	return n, err
}

func (b *relayBody) Close() error {
	b.timer.Stop()
	b.cancel()
	return b.upstream.Close()
}

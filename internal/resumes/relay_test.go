package resumes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/users"
)

type artifactMap map[string]*users.ResumeArtifact

func (m artifactMap) ResumeOf(_ context.Context, candidateID string) (*users.ResumeArtifact, error) {
	return m[candidateID], nil
}

var (
	self      = identity.Principal{ID: "cand-1", Role: identity.RoleCandidate}
	linkedRec = identity.Principal{ID: "rec-1", Role: identity.RoleRecruiter}
	strangers = identity.Principal{ID: "rec-2", Role: identity.RoleRecruiter}
)

func newTestRelay(store *memStore, artifacts artifactMap) *Relay {
	return &Relay{
		Gate:      NewGate(linkSet{{"rec-1", "cand-1"}: true}),
		Artifacts: artifacts,
		Store:     store,
		Timeout:   time.Second,
	}
}

func storedResume(t *testing.T, store *memStore) artifactMap {
	t.Helper()
	key, size, _, err := store.Save(context.Background(), "cand-1", "ada.pdf", bytesReader(minimalPDF()))
	require.NoError(t, err)
	return artifactMap{"cand-1": {StorageKey: key, FileName: "Ada Lovelace.pdf", SizeBytes: size, MimeType: "application/pdf"}}
}

func TestRelayDeniesBeforeFetching(t *testing.T) {
	store := newMemStore()
	relay := newTestRelay(store, storedResume(t, store))

	_, err := relay.Open(context.Background(), strangers, "cand-1", ModeView)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, store.opens)

	_, err = relay.Open(context.Background(), identity.Principal{}, "cand-1", ModeView)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, store.opens)
}

func TestRelayStreamsForSelfAndLinkedRecruiter(t *testing.T) {
	store := newMemStore()
	relay := newTestRelay(store, storedResume(t, store))

	for _, p := range []identity.Principal{self, linkedRec} {
		dl, err := relay.Open(context.Background(), p, "cand-1", ModeDownload)
		require.NoError(t, err)
		got, err := io.ReadAll(dl.Body)
		require.NoError(t, err)
		require.NoError(t, dl.Body.Close())

		assert.Equal(t, minimalPDF(), got)
		assert.Equal(t, "application/pdf", dl.ContentType)
		assert.Equal(t, "attachment", dl.Disposition)
		assert.Equal(t, `attachment; filename="Ada Lovelace.pdf"`, dl.ContentDisposition())
	}
}

func TestRelayViewIsInline(t *testing.T) {
	store := newMemStore()
	relay := newTestRelay(store, storedResume(t, store))

	dl, err := relay.Open(context.Background(), self, "cand-1", ModeView)
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "inline", dl.Disposition)
}

func TestRelayMissingArtifact(t *testing.T) {
	store := newMemStore()
	relay := newTestRelay(store, artifactMap{})

	_, err := relay.Open(context.Background(), self, "cand-1", ModeView)
	assert.ErrorIs(t, err, ErrNoResume)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestRelayUpstreamFailureHidesDetail(t *testing.T) {
	store := newMemStore()
	artifacts := storedResume(t, store)
	store.openErr = errors.New("s3 get object bucket=private-bucket key=secret: access denied")
	relay := newTestRelay(store, artifacts)

	_, err := relay.Open(context.Background(), self, "cand-1", ModeView)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.UpstreamError))
	assert.Equal(t, "resume storage is unavailable", apperr.MessageOf(err))
}

func TestRelayTimesOutStalledUpstream(t *testing.T) {
	store := newMemStore()
	artifacts := storedResume(t, store)
	store.block = true
	relay := newTestRelay(store, artifacts)
	relay.Timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := relay.Open(context.Background(), self, "cand-1", ModeView)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.UpstreamError))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRelayRemoteURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/msword; charset=binary")
		_, _ = w.Write([]byte("remote resume bytes"))
	}))
	t.Cleanup(upstream.Close)

	relay := newTestRelay(newMemStore(), artifactMap{
		"cand-1": {RemoteURL: upstream.URL + "/cv", FileName: "cv.doc"},
		"cand-2": {RemoteURL: upstream.URL + "/gone", FileName: "gone.doc"},
	})

	dl, err := relay.Open(context.Background(), self, "cand-1", ModeView)
	require.NoError(t, err)
	got, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	require.NoError(t, dl.Body.Close())
	assert.Equal(t, "remote resume bytes", string(got))
	assert.Equal(t, "application/msword", dl.ContentType)

	_, err = relay.Open(context.Background(), identity.Principal{ID: "cand-2", Role: identity.RoleCandidate}, "cand-2", ModeView)
	assert.ErrorIs(t, err, ErrNoResume)
}

func TestRelayBodyStopsAfterCancel(t *testing.T) {
	store := newMemStore()
	relay := newTestRelay(store, storedResume(t, store))

	ctx, cancel := context.WithCancel(context.Background())
	dl, err := relay.Open(ctx, self, "cand-1", ModeView)
	require.NoError(t, err)
	defer dl.Body.Close()

	cancel()
	_, err = io.ReadAll(dl.Body)
	assert.ErrorIs(t, err, context.Canceled)
}

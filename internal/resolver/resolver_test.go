package resolver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexmo-se/aws-recording-download-sample/internal/opentok"
)

// fakeStatus serves a scripted sequence of archive statuses, one per call;
// the last entry repeats. A leading errBefore makes the first n calls fail.
type fakeStatus struct {
	mu        sync.Mutex
	statuses  []string
	errBefore int
	calls     int
}

func (f *fakeStatus) GetArchive(ctx context.Context, archiveID string) (opentok.Archive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.errBefore {
		return opentok.Archive{}, errors.New("provider unavailable")
	}
	idx := f.calls - f.errBefore - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return opentok.Archive{ID: archiveID, Status: f.statuses[idx]}, nil
}

func (f *fakeStatus) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSigner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSigner) SignedDownloadURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://archives.s3.example/" + key, nil
}

func newTestResolver(provider StatusReader, store URLSigner) *Resolver {
	return New(provider, store, Config{
		APIKey:       "47000000",
		URLExpire:    5 * time.Minute,
		PollInterval: time.Millisecond,
	}, nil)
}

func TestResolveReturnsNotReadyBeforeUpload(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploading}}
	signer := &fakeSigner{}
	r := newTestResolver(provider, signer)

	_, err := r.Resolve(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, 0, signer.calls, "no URL is signed before upload completes")
}

func TestResolveSignsURLForUploadedArchive(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploaded}}
	signer := &fakeSigner{}
	r := newTestResolver(provider, signer)

	issued := time.Now()
	media, err := r.Resolve(context.Background(), "a1")
	assert.NoError(t, err)
	assert.Equal(t, "a1", media.ArchiveID)
	assert.True(t, strings.HasSuffix(media.URL, ".mp4"), "URL path ends with the fixed archive filename")
	assert.Contains(t, media.URL, "47000000/a1/archive.mp4")
	assert.LessOrEqual(t, media.ExpiresAt.Sub(issued), 5*time.Minute+time.Second)
}

func TestResolveStatusErrorPropagates(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploaded}, errBefore: 1}
	r := newTestResolver(provider, &fakeSigner{})

	_, err := r.Resolve(context.Background(), "a1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotReady)
}

func TestAwaitPollsUntilUploaded(t *testing.T) {
	provider := &fakeStatus{statuses: []string{
		opentok.StatusStarting,
		opentok.StatusUploading,
		opentok.StatusUploaded,
	}}
	r := newTestResolver(provider, &fakeSigner{})

	media, err := r.Await(context.Background(), "a1")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, provider.callCount(), 2, "premature resolution retries before succeeding")
	assert.Contains(t, media.URL, "archive.mp4")
}

func TestAwaitRetriesOnStatusErrors(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploaded}, errBefore: 2}
	r := newTestResolver(provider, &fakeSigner{})

	media, err := r.Await(context.Background(), "a1")
	assert.NoError(t, err)
	assert.Equal(t, 3, provider.callCount())
	assert.NotEmpty(t, media.URL)
}

func TestAwaitStopsOnContextCancel(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploading}}
	r := newTestResolver(provider, &fakeSigner{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := r.Await(ctx, "a1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitHonorsMaxWait(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploading}}
	r := New(provider, &fakeSigner{}, Config{
		APIKey:       "47000000",
		PollInterval: time.Millisecond,
		MaxWait:      15 * time.Millisecond,
	}, nil)

	start := time.Now()
	_, err := r.Await(context.Background(), "a1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitAbortsOnSigningFailure(t *testing.T) {
	provider := &fakeStatus{statuses: []string{opentok.StatusUploaded}}
	signer := &fakeSigner{err: errors.New("credentials rejected")}
	r := newTestResolver(provider, signer)

	_, err := r.Await(context.Background(), "a1")
	assert.Error(t, err)
	assert.Equal(t, 1, provider.callCount(), "signing failure is not folded into the retry path")
}

package export

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Artifact is one temporary downloadable blob, addressable by token.
type Artifact struct {
	Token    string
	Filename string
	Data     []byte
}

// Registry holds export artifacts for the short window between creation and
// delivery, mirroring an object-URL lifecycle: every artifact is revoked a
// grace period after creation, on every path, never synchronously with the
// download that uses it.
type Registry struct {
	mu        sync.Mutex
	grace     time.Duration
	artifacts map[string]Artifact

	// schedule defers a revocation; tests replace it to fire manually.
	schedule func(d time.Duration, f func())
}

func NewRegistry(grace time.Duration) *Registry {
	return &Registry{
		grace:     grace,
		artifacts: make(map[string]Artifact),
		schedule:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Put registers an artifact and schedules its revocation after the grace
// period. Returns the artifact token.
func (r *Registry) Put(filename string, data []byte) string {
	token := ulid.Make().String()
	r.mu.Lock()
	r.artifacts[token] = Artifact{Token: token, Filename: filename, Data: data}
	r.mu.Unlock()

	r.schedule(r.grace, func() { r.Revoke(token) })

	logrus.WithFields(logrus.Fields{
		"token":    token,
		"filename": filename,
		"bytes":    len(data),
	}).Debug("Artifact registered")
	return token
}

// Take fetches a live artifact. The artifact stays registered; revocation
// is the scheduled one, so the reference outlives the triggering download.
func (r *Registry) Take(token string) (Artifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.artifacts[token]
	return a, ok
}

// Revoke drops the artifact immediately. Idempotent.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.artifacts, token)
}

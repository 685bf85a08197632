// Package syncbridge pushes catalog changes to the backing store.
package syncbridge

import (
	"context"
	"fmt"

	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/log"
)

// Submission is what the backing store receives: the full catalog and the
// token the host page handed out.
type Submission struct {
	NewThemeFontsJSON string `json:"new-theme-fonts-json"`
	Nonce             string `json:"nonce"`

	// Sequence orders the submissions made under one nonce, starting at 1.
	// It travels beside the payload, never inside it. Zero means unordered.
	Sequence int64 `json:"-"`
}

// Submitter delivers a submission. The bridge does not wait on or
// interpret anything beyond the returned error, which it only logs.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error {
	return f(ctx, s)
}

// Bridge submits every catalog snapshot after the first one it sees.
type Bridge struct {
	submitter Submitter
	nonce     string
	primed    bool
	submitted int
}

// New returns a bridge that tags submissions with nonce.
func New(submitter Submitter, nonce string) *Bridge {
	return &Bridge{submitter: submitter, nonce: nonce}
}

// Attach subscribes the bridge to store. The snapshot delivered on
// subscription is the initial load and is skipped.
func (b *Bridge) Attach(store *catalog.Store) (detach func()) {
	return store.Subscribe(b.observe)
}

// Submitted counts submissions handed to the submitter.
func (b *Bridge) Submitted() int {
	return b.submitted
}

func (b *Bridge) observe(c catalog.Catalog) {
	if !b.primed {
		b.primed = true
		return
	}

	sub, err := Encode(c, b.nonce)
	if err != nil {
		log.Error("Failed to encode catalog for sync", "error", err)
		return
	}

	b.submitted++
	sub.Sequence = int64(b.submitted)
	if err := b.submitter.Submit(context.Background(), sub); err != nil {
		log.Warn("Catalog submission failed", "error", err)
		return
	}
	log.Debug("Catalog submitted", "families", len(c), "sequence", sub.Sequence)
}

// Encode builds the submission for c.
func Encode(c catalog.Catalog, nonce string) (Submission, error) {
	data, err := c.Marshal()
	if err != nil {
		return Submission{}, fmt.Errorf("marshal catalog: %w", err)
	}
	return Submission{NewThemeFontsJSON: string(data), Nonce: nonce}, nil
}

// Decode ingests the catalog carried by s.
func Decode(s Submission) (catalog.Catalog, error) {
	return catalog.Parse([]byte(s.NewThemeFontsJSON))
}

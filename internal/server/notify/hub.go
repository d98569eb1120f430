// Package notify implements the ephemeral notification sink that upload
// outcomes are reported to. Notifications stay visible for roughly one TTL
// and are swept on the next read; no timers are involved.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/knowhyco/knowyfile/internal/logging"
	"github.com/knowhyco/knowyfile/internal/shared"
)

// Variant enumerates the recognized notification styles.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is one ephemeral message with a TTL.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     Variant   `json:"variant"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Hub retains notifications for about their TTL. Identifiers are random
// tokens, so no shared counter is needed and ids are unique across
// processes too.
type Hub struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	items  []Notification
	logger logging.Logger
}

func NewHub(ttl time.Duration, logger logging.Logger) *Hub {
	return &Hub{
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With("module", "notify"),
	}
}

// Push records a notification and returns it. Expired entries are swept on
// the way in, keeping the retained list bounded by the push rate within one
// TTL window.
func (h *Hub) Push(ctx context.Context, title, description string, variant Variant) Notification {
	if variant != VariantDestructive {
		variant = VariantDefault
	}

	id, err := shared.MakeRandHexString(8)
	if err != nil {
		id = "n-" + h.now().Format("150405.000000000")
	}

	n := Notification{
		ID:          id,
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   h.now(),
	}

	h.mu.Lock()
	h.sweepLocked()
	h.items = append(h.items, n)
	h.mu.Unlock()

	if variant == VariantDestructive {
		h.logger.Warn(ctx, "notification", "title", title, "description", description)
	} else {
		h.logger.Info(ctx, "notification", "title", title, "description", description)
	}

	return n
}

// Active returns the notifications that have not yet outlived their TTL, in
// creation order.
func (h *Hub) Active() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sweepLocked()

	out := make([]Notification, len(h.items))
	copy(out, h.items)
	return out
}

// UploadFailed reports one failed upload. It satisfies the coordinator's
// Notifier contract: display name and a short cause, nothing else.
func (h *Hub) UploadFailed(ctx context.Context, name, cause string) {
	h.Push(ctx, "Upload Error", "Failed to upload "+name+": "+cause, VariantDestructive)
}

func (h *Hub) sweepLocked() {
	cutoff := h.now().Add(-h.ttl)

	kept := h.items[:0]
	for _, n := range h.items {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	h.items = kept
}

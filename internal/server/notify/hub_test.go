package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowhyco/knowyfile/internal/logging"
)

func newTestHub(ttl time.Duration) (*Hub, *time.Time) {
	hub := NewHub(ttl, logging.NewJSONLogger(&strings.Builder{}))
	current := time.Now()
	hub.now = func() time.Time { return current }
	return hub, &current
}

func TestHub_PushAndActive(t *testing.T) {
	hub, _ := newTestHub(3 * time.Second)
	ctx := context.Background()

	first := hub.Push(ctx, "Link Copied", "The sharing link has been copied.", VariantDefault)
	second := hub.Push(ctx, "Upload Error", "Failed to upload a.txt", VariantDestructive)

	active := hub.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
	assert.Equal(t, VariantDestructive, active[1].Variant)
}

func TestHub_IDsAreUnique(t *testing.T) {
	hub, _ := newTestHub(time.Minute)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		n := hub.Push(context.Background(), "t", "d", VariantDefault)
		if _, dup := seen[n.ID]; dup {
			t.Fatalf("duplicate notification id: %s", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
}

func TestHub_ExpirySweep(t *testing.T) {
	hub, now := newTestHub(3 * time.Second)
	ctx := context.Background()

	hub.Push(ctx, "old", "gone soon", VariantDefault)

	*now = now.Add(2 * time.Second)
	kept := hub.Push(ctx, "new", "still here", VariantDefault)

	*now = now.Add(2 * time.Second)

	// First notification is now 4s old, second only 2s.
	active := hub.Active()
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)

	*now = now.Add(10 * time.Second)
	assert.Empty(t, hub.Active())
}

func TestHub_UnknownVariantFallsBackToDefault(t *testing.T) {
	hub, _ := newTestHub(time.Minute)

	n := hub.Push(context.Background(), "t", "d", Variant("sparkly"))
	assert.Equal(t, VariantDefault, n.Variant)
}

func TestHub_UploadFailed(t *testing.T) {
	hub, _ := newTestHub(time.Minute)

	hub.UploadFailed(context.Background(), "b.txt", "object store unavailable")

	active := hub.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Upload Error", active[0].Title)
	assert.Contains(t, active[0].Description, "b.txt")
	assert.Contains(t, active[0].Description, "object store unavailable")
	assert.Equal(t, VariantDestructive, active[0].Variant)
}

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItem struct {
	index    int
	remoteID int64
}

func (f *fakeItem) SequenceIndex() int { return f.index }
func (f *fakeItem) IsPersisted() bool { return f.remoteID != 0 }
func (f *fakeItem) SetRemoteID(id int64) { f.remoteID = id }

func newFakeItems(n int) []*fakeItem {
	items := make([]*fakeItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, &fakeItem{index: i})
	}
	return items
}

// echo assigns 1000+index to every item of the chunk, in reverse order.
func echo(calls *[]int) SubmitFunc[*fakeItem] {
	return func(_ context.Context, chunk []*fakeItem) ([]Assignment, error) {
		*calls = append(*calls, len(chunk))
		out := make([]Assignment, 0, len(chunk))
		for i := len(chunk) - 1; i >= 0; i-- {
			out = append(out, Assignment{Index: chunk[i].index, RemoteID: int64(1000 + chunk[i].index)})
		}
		return out, nil
	}
}

func TestSynchronizer_Chunks(t *testing.T) {
	tests := []struct {
		name   string
		items  int
		limit  int
		chunks []int
	}{
		{name: "empty", items: 0, limit: 100, chunks: nil},
		{name: "single partial chunk", items: 7, limit: 100, chunks: []int{7}},
		{name: "exact multiple", items: 300, limit: 100, chunks: []int{100, 100, 100}},
		{name: "short final chunk", items: 250, limit: 100, chunks: []int{100, 100, 50}},
		{name: "default limit", items: 101, limit: 0, chunks: []int{100, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := newFakeItems(tt.items)
			var calls []int

			result, err := Synchronizer[*fakeItem]{Limit: tt.limit}.Run(context.Background(), items, echo(&calls))
			require.NoError(t, err)

			assert.Equal(t, tt.chunks, calls)
			assert.Equal(t, len(tt.chunks), result.Chunks)
			assert.Equal(t, tt.items, result.Submitted)
			assert.Equal(t, tt.items, result.Assigned)

			seen := make(map[int64]bool)
			for _, item := range items {
				assert.Equal(t, int64(1000+item.index), item.remoteID, "index %d", item.index)
				assert.False(t, seen[item.remoteID])
				seen[item.remoteID] = true
			}
		})
	}
}

func TestSynchronizer_SkipsPersisted(t *testing.T) {
	items := newFakeItems(5)
	items[1].remoteID = 42
	items[3].remoteID = 43

	var calls []int
	result, err := Synchronizer[*fakeItem]{Limit: 2}.Run(context.Background(), items, echo(&calls))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, calls)
	assert.Equal(t, 3, result.Submitted)
	assert.Equal(t, int64(42), items[1].remoteID)
	assert.Equal(t, int64(43), items[3].remoteID)
}

func TestSynchronizer_PartialFailure(t *testing.T) {
	items := newFakeItems(250)
	boom := errors.New("boom")

	var calls []int
	ok := echo(&calls)
	failing := func(ctx context.Context, chunk []*fakeItem) ([]Assignment, error) {
		if len(calls) == 1 {
			calls = append(calls, len(chunk))
			return nil, boom
		}
		return ok(ctx, chunk)
	}

	result, err := Synchronizer[*fakeItem]{Limit: 100}.Run(context.Background(), items, failing)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, 100, result.Assigned)

	pending := 0
	for _, item := range items {
		if !item.IsPersisted() {
			pending++
		}
	}
	assert.Equal(t, 150, pending, "first chunk stays assigned")

	// A second run sends only what is left.
	calls = nil
	result, err = Synchronizer[*fakeItem]{Limit: 100}.Run(context.Background(), items, echo(&calls))
	require.NoError(t, err)
	assert.Equal(t, []int{100, 50}, calls)
	assert.Equal(t, 150, result.Submitted)
}

func TestSynchronizer_ReconcilesAcrossChunks(t *testing.T) {
	items := newFakeItems(4)

	// The service answers for an index outside the current chunk.
	submit := func(_ context.Context, chunk []*fakeItem) ([]Assignment, error) {
		if chunk[0].index == 1 {
			return []Assignment{{Index: 1, RemoteID: 11}, {Index: 2, RemoteID: 12}, {Index: 4, RemoteID: 14}}, nil
		}
		return []Assignment{{Index: 3, RemoteID: 13}}, nil
	}

	_, err := Synchronizer[*fakeItem]{Limit: 2}.Run(context.Background(), items, submit)
	require.NoError(t, err)

	for i, want := range []int64{11, 12, 13, 14} {
		assert.Equal(t, want, items[i].remoteID)
	}
}

func TestSynchronizer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls []int
	_, err := Synchronizer[*fakeItem]{}.Run(ctx, newFakeItems(3), echo(&calls))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

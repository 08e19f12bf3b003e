package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_SaveRecent(t *testing.T) {
	r := NewMemoryRepo(3)
	ctx := context.Background()

	got, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)

	for i := 1; i <= 4; i++ {
		rec := &Record{RequestID: fmt.Sprintf("req-%d", i), Outcome: OutcomeCreated}
		require.NoError(t, r.Save(ctx, rec))
		require.NotEmpty(t, rec.ID)
		require.False(t, rec.CreatedAt.IsZero())
	}

	// capacity 3: the oldest record was dropped, newest first
	got, err = r.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "req-4", got[0].RequestID)
	require.Equal(t, "req-2", got[2].RequestID)

	got, err = r.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "req-4", got[0].RequestID)

	// stored values are copies
	got[0].Outcome = "tampered"
	again, _ := r.Recent(ctx, 1)
	require.Equal(t, OutcomeCreated, again[0].Outcome)
}

package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err, "db file not created")

	got, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertAndRecent(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Insert(ctx, Interaction{
			RequestID: fmt.Sprintf("req-%d", i),
			Question:  fmt.Sprintf("pergunta %d", i),
			Label:     "Igreja da Luz",
			Outcome:   "single",
			Category:  "churches",
			Score:     137,
			Transport: "http",
		}))
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "req-2", got[0].RequestID, "newest first")
	assert.Equal(t, "req-1", got[1].RequestID)
	assert.Equal(t, 137.0, got[0].Score)
	assert.Equal(t, "churches", got[0].Category)
	assert.WithinDuration(t, time.Now(), got[0].CreatedAt, time.Minute)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecent_ClampsLimit(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, s.Insert(ctx, Interaction{Question: "q", Outcome: "none"}))
	}

	got, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, defaultRecent)

	got, err = s.Recent(ctx, 10_000)
	require.NoError(t, err)
	assert.Len(t, got, 25)
}

func TestInsert_TruncatesQuestion(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	long := strings.Repeat("ç", maxQuestion+50)
	require.NoError(t, s.Insert(ctx, Interaction{Question: long, Outcome: "none"}))

	got, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, []rune(got[0].Question), maxQuestion)
}

func TestStore_Closed(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	ctx := context.Background()
	assert.ErrorIs(t, s.Insert(ctx, Interaction{Question: "q"}), ErrStoreClosed)
	_, err = s.Recent(ctx, 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestRecorder_DrainsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)

	rec := NewRecorder(s, 64, nil)
	for i := 0; i < 20; i++ {
		assert.True(t, rec.Record(Interaction{RequestID: fmt.Sprintf("r%d", i), Question: "q", Outcome: "single"}))
	}
	require.NoError(t, rec.Close())
	assert.ErrorIs(t, rec.Close(), ErrStoreClosed)
	assert.False(t, rec.Record(Interaction{Question: "late"}), "closed recorder accepts nothing")

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	n, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	s := tempStore(t)
	rec := &Recorder{
		store:  s,
		logger: discardLogger(),
		ch:     make(chan Interaction, 1),
		done:   make(chan struct{}),
	}
	// No writer goroutine: the second record finds the buffer full.
	assert.True(t, rec.Record(Interaction{Question: "first"}))
	assert.False(t, rec.Record(Interaction{Question: "second"}))
}

package draft

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/editor"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour, 30*time.Second), mr
}

func TestStore_SaveAndGet(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	form := editor.NewForm()
	form.Title = "Liquidificador Oster"
	form.Pros.Append(editor.Value{Value: "potente"})
	d := New("user-1", "", form, time.Now())

	require.NoError(t, s.Save(ctx, d))
	assert.Equal(t, time.Hour, mr.TTL(draftKey(d.ID)))

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Liquidificador Oster", got.Form.Title)
	assert.Equal(t, []editor.Value{{Value: "potente"}}, got.Form.Pros.Items())
	assert.Equal(t, "user-1", got.OwnerID)
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Expiry(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()
	d := New("u", "", editor.NewForm(), time.Now())
	require.NoError(t, s.Save(ctx, d))

	mr.FastForward(2 * time.Hour)

	_, err := s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Suggestions(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	empty, err := s.GetSuggestions(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, empty.Pros)

	require.NoError(t, s.SaveSuggestions(ctx, "d1", &Suggestions{Pros: []string{"rápido"}, Cons: []string{"caro"}}))
	got, err := s.GetSuggestions(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rápido"}, got.Pros)

	require.NoError(t, s.Delete(ctx, "d1"))
	got, err = s.GetSuggestions(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, got.Pros)
}

func TestStore_LockIsExclusive(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	release, err := s.Lock(ctx, "d1")
	require.NoError(t, err)

	_, err = s.Lock(ctx, "d1")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUBMIT_IN_PROGRESS", appErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(lockKey("d1")))

	release, err = s.Lock(ctx, "d1")
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestStore_CheckUnlocked(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.CheckUnlocked(ctx, "d1"))

	release, err := s.Lock(ctx, "d1")
	require.NoError(t, err)
	err = s.CheckUnlocked(ctx, "d1")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUBMIT_IN_PROGRESS", appErr.Code)

	require.NoError(t, release(ctx))
	assert.NoError(t, s.CheckUnlocked(ctx, "d1"))
}

func TestStore_ReleaseAfterExpiryKeepsOtherHolder(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	staleRelease, err := s.Lock(ctx, "d1")
	require.NoError(t, err)
	mr.FastForward(time.Minute)

	_, err = s.Lock(ctx, "d1")
	require.NoError(t, err)

	require.NoError(t, staleRelease(ctx))
	assert.True(t, mr.Exists(lockKey("d1")), "stale holder must not drop the new lock")
}

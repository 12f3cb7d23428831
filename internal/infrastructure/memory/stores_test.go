package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fooddemand/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtpStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewOtpStore()

	sess := &domain.OtpSession{
		SessionID:   "s1",
		Channel:     domain.ChannelEmail,
		Destination: "a@b.com",
		Code:        "042195",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "042195", got.Code)

	// Mutating the returned copy must not touch the stored session.
	got.Code = "000000"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "042195", again.Code)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOtpStore_DeleteMissingIsNoop(t *testing.T) {
	store := NewOtpStore()
	assert.NoError(t, store.Delete(context.Background(), "ghost"))
}

func TestOtpStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewOtpStore()
	now := time.Now()

	require.NoError(t, store.Put(ctx, &domain.OtpSession{SessionID: "fresh", CreatedAt: now}))
	require.NoError(t, store.Put(ctx, &domain.OtpSession{SessionID: "stale", CreatedAt: now.Add(-11 * time.Minute)}))

	assert.Equal(t, 1, store.DeleteExpired(now))

	_, err := store.Get(ctx, "stale")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestVerificationStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewVerificationStore()
	now := time.Now()

	require.NoError(t, store.Put(ctx, &domain.VerifiedIdentityRecord{
		VerificationID: "v1",
		Type:           domain.ChannelEmail,
		Value:          "a@b.com",
		VerifiedAt:     now,
	}))
	require.NoError(t, store.Put(ctx, &domain.VerifiedIdentityRecord{
		VerificationID: "v2",
		VerifiedAt:     now.Add(-11 * time.Minute),
	}))

	got, err := store.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Value)

	assert.Equal(t, 1, store.DeleteExpired(now))
	_, err = store.Get(ctx, "v2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, store.Delete(ctx, "v1"))
	_, err = store.Get(ctx, "v1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSessionStore_GetByToken(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sess := &domain.Session{SessionID: "s1", Token: "tok-1", UserID: "u1", Enable: true}
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)

	_, err = store.GetByToken(ctx, "tok-unknown")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSessionStore_Disable(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	require.NoError(t, store.Put(ctx, &domain.Session{SessionID: "s1", Token: "t1", UserID: "u1", Enable: true}))
	require.NoError(t, store.Disable(ctx, "s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, got.Enable)

	err = store.Disable(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSessionStore_DisableByUser_OnlyThatUser(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	require.NoError(t, store.Put(ctx, &domain.Session{SessionID: "a1", Token: "t1", UserID: "u1", Enable: true}))
	require.NoError(t, store.Put(ctx, &domain.Session{SessionID: "a2", Token: "t2", UserID: "u1", Enable: true}))
	require.NoError(t, store.Put(ctx, &domain.Session{SessionID: "b1", Token: "t3", UserID: "u2", Enable: true}))

	require.NoError(t, store.DisableByUser(ctx, "u1"))

	for _, id := range []string{"a1", "a2"} {
		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Enable, id)
	}
	other, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, other.Enable)
}

func TestUserStore_EmailIndexFollowsUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	require.NoError(t, store.Put(ctx, &domain.User{UserID: "u1", Email: "old@b.com"}))
	require.NoError(t, store.Put(ctx, &domain.User{UserID: "u1", Email: "new@b.com"}))

	got, err := store.GetByEmail(ctx, "new@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = store.GetByEmail(ctx, "old@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserStore_GetByPhone(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	phone := "+15551234567"
	require.NoError(t, store.Put(ctx, &domain.User{UserID: "u1", Email: "a@b.com", PhoneNumber: &phone}))
	require.NoError(t, store.Put(ctx, &domain.User{UserID: "u2", Email: "c@d.com"}))

	got, err := store.GetByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = store.GetByPhone(ctx, "+15550000000")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDatasetStore_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewDatasetStore()

	require.NoError(t, store.PutDataset(ctx, &domain.Dataset{UserID: "u1", FileName: "first.csv"}))
	require.NoError(t, store.PutDataset(ctx, &domain.Dataset{UserID: "u1", FileName: "second.csv"}))

	got, err := store.GetDataset(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second.csv", got.FileName)

	require.NoError(t, store.DeleteDataset(ctx, "u1"))
	_, err = store.GetDataset(ctx, "u1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDatasetStore_HistoryNewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	store := NewDatasetStore()

	for i := 0; i < uploadHistoryLimit+5; i++ {
		require.NoError(t, store.AppendUpload(ctx, &domain.UploadRecord{
			ID:     string(rune('a' + i)),
			UserID: "u1",
		}))
	}

	recs, err := store.ListUploads(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, recs, uploadHistoryLimit)
	// Most recent append comes back first.
	assert.Equal(t, string(rune('a'+uploadHistoryLimit+4)), recs[0].ID)
}

func TestDatasetStore_RemoveUploads(t *testing.T) {
	ctx := context.Background()
	store := NewDatasetStore()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.AppendUpload(ctx, &domain.UploadRecord{ID: id, UserID: "u1"}))
	}
	require.NoError(t, store.RemoveUploads(ctx, "u1", []string{"b", "missing"}))

	recs, err := store.ListUploads(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].ID)
	assert.Equal(t, "a", recs[1].ID)
}

func TestDatasetStore_HistoryIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewDatasetStore()

	require.NoError(t, store.AppendUpload(ctx, &domain.UploadRecord{ID: "a", UserID: "u1"}))
	require.NoError(t, store.AppendUpload(ctx, &domain.UploadRecord{ID: "b", UserID: "u2"}))

	recs, err := store.ListUploads(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
}

func TestSweep_EvictsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewOtpStore()
	require.NoError(t, store.Put(ctx, &domain.OtpSession{
		SessionID: "stale",
		CreatedAt: time.Now().Add(-time.Hour),
	}))

	done := make(chan struct{})
	go func() {
		Sweep(ctx, 5*time.Millisecond, store)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := store.Get(context.Background(), "stale")
		return errors.Is(err, domain.ErrNotFound)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}

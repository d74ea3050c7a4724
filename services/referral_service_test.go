package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReferral_CountsOnce(t *testing.T) {
	store := newTestStore(t)
	ledger := NewReferralService(store)
	ctx := context.Background()

	seedMember(t, store, 100, "referrer")
	seedMember(t, store, 200, "newbie")

	count, err := ledger.RecordReferral(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = ledger.RecordReferral(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "replayed join must not increment")

	referrer, err := store.FindMember(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, referrer.ReferralCount)

	referred, err := store.ReferredMembers(ctx, 100)
	require.NoError(t, err)
	require.Len(t, referred, 1)
	assert.Equal(t, "newbie", referred[0].Handle())
}

func TestRecordReferral_UnknownReferrer(t *testing.T) {
	store := newTestStore(t)
	ledger := NewReferralService(store)
	ctx := context.Background()

	seedMember(t, store, 200, "newbie")

	count, err := ledger.RecordReferral(ctx, 999, 200)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	exists, err := store.FindReferralEdge(ctx, 999, 200)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecordReferral_SelfReferralNeverIncrements(t *testing.T) {
	store := newTestStore(t)
	ledger := NewReferralService(store)
	ctx := context.Background()

	seedMember(t, store, 100, "self")

	count, err := ledger.RecordReferral(ctx, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	exists, err := store.FindReferralEdge(ctx, 100, 100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecordReferral_CountMatchesEdges(t *testing.T) {
	store := newTestStore(t)
	ledger := NewReferralService(store)
	ctx := context.Background()

	seedMember(t, store, 1, "hub")
	for id := int64(10); id < 15; id++ {
		seedMember(t, store, id, "")
		_, err := ledger.RecordReferral(ctx, 1, id)
		require.NoError(t, err)
		_, err = ledger.RecordReferral(ctx, 1, id)
		require.NoError(t, err)
	}

	hub, err := store.FindMember(ctx, 1)
	require.NoError(t, err)
	referred, err := store.ReferredMembers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, hub.ReferralCount)
	assert.Len(t, referred, hub.ReferralCount)
}

func TestRecordReferral_ConcurrentJoinsKeepCountEqualToEdges(t *testing.T) {
	store := newTestStore(t)
	ledger := NewReferralService(store)
	ctx := context.Background()

	seedMember(t, store, 100, "referrer")
	const joins = 10
	for i := int64(1); i <= joins; i++ {
		seedMember(t, store, 1000+i, "")
	}

	var wg sync.WaitGroup
	for i := int64(1); i <= joins; i++ {
		wg.Add(1)
		go func(referred int64) {
			defer wg.Done()
			_, err := ledger.RecordReferral(ctx, 100, referred)
			assert.NoError(t, err)
		}(1000 + i)
	}
	wg.Wait()

	referrer, err := store.FindMember(ctx, 100)
	require.NoError(t, err)
	referred, err := store.ReferredMembers(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, joins, referrer.ReferralCount)
	assert.Len(t, referred, joins)
}

func TestFindMemberForUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedMember(t, store, 7, "locked")

	err := store.Transaction(ctx, func(tx *Store) error {
		m, err := tx.FindMemberForUpdate(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "locked", m.Handle())

		missing, err := tx.FindMemberForUpdate(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}

package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunRecordStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	fields := domain.Fields{records.FieldSessionID: "s1", records.FieldCity: "Durban"}

	_, err := store.CreateRecord(ctx, fields)
	require.NoError(t, err)
	fields[records.FieldCity] = "Cape Town"

	got, err := store.FindBySessionID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Durban", got[records.FieldCity])

	got[records.FieldCity] = "Polokwane"
	again, _ := store.FindBySessionID(ctx, "s1")
	assert.Equal(t, "Durban", again[records.FieldCity])
}

func TestMemoryStore_CreateAssignsSessionID(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	id, err := store.CreateRecord(ctx, domain.Fields{records.FieldCity: "Durban"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.FindBySessionID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got[records.FieldSessionID])

	meta, err := records.ReadMeta(got)
	require.NoError(t, err)
	assert.Equal(t, id, meta.SessionID)

	require.NoError(t, store.UpdateRecord(ctx, id, domain.Fields{records.FieldCity: "Cape Town"}))
}

func TestMemoryStore_CreateReturnsKey(t *testing.T) {
	store := memory.NewStore()

	id, err := store.CreateRecord(context.Background(), domain.Fields{records.FieldSessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
}

func TestMemoryStore_FindIncompleteHonoursContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindIncompleteApplication(ctx, "27821234567")
	assert.ErrorIs(t, err, context.Canceled)
}

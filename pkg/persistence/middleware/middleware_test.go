package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleRow() domain.Fields {
	return records.Encode("pii-session", "27821234567", domain.ApplicationData{
		ConsentGiven: true,
		Personal: domain.PersonalInfo{
			IDNumber: "9001155009087",
			FullName: "Thandi Mokoena",
			Phone:    "+27821234567",
			Email:    "thandi@gmail.com",
		},
		Address: domain.AddressInfo{Street: "12 Vilakazi St", City: "Soweto"},
	}, now)
}

func TestChain_PassesContract(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(nil),
		middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(reg)),
	)
	ports.RunRecordStoreContract(t, store)
}

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(underlying)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, sampleRow())
	require.NoError(t, err)

	masked, err := store.FindBySessionID(ctx, "pii-session")
	require.NoError(t, err)
	assert.Equal(t, "*********9087", masked[records.FieldIDNumber])
	assert.Equal(t, "********4567", masked[records.FieldPhone])
	assert.Equal(t, "*******4567", masked[records.FieldWhatsApp])
	assert.Equal(t, "Thandi Mokoena", masked[records.FieldFullName])
	assert.Equal(t, "Soweto", masked[records.FieldCity])

	// Writes pass through: the stored row keeps its values.
	raw, err := underlying.FindBySessionID(ctx, "pii-session")
	require.NoError(t, err)
	assert.Equal(t, "9001155009087", raw[records.FieldIDNumber])

	rows, err := store.(ports.RecordLister).ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "************.com", rows[0][records.FieldEmail])

	// Lookups by address still see the real column.
	inc, err := store.FindIncompleteApplication(ctx, "27821234567")
	require.NoError(t, err)
	assert.Equal(t, "pii-session", inc.SessionID)
}

func TestPIIMiddleware_BlankColumnsStayBlank(t *testing.T) {
	store := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(memory.NewStore())
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, records.Encode("blank-session", "27821234567", domain.ApplicationData{}, now))
	require.NoError(t, err)

	masked, err := store.FindBySessionID(ctx, "blank-session")
	require.NoError(t, err)
	assert.Equal(t, "", masked[records.FieldIDNumber])
	assert.Equal(t, "", masked[records.FieldStreet])
	assert.Equal(t, "*******4567", masked[records.FieldWhatsApp])

	rec, err := records.Decode(masked, now)
	require.NoError(t, err)
	assert.Empty(t, rec.Data.Personal.IDNumber)
}

type bareStore struct {
	ports.RecordStore
}

func TestListing_Unsupported(t *testing.T) {
	store := middleware.NewLoggingMiddleware(nil)(bareStore{memory.NewStore()})

	_, err := store.(ports.RecordLister).ListRecords(context.Background())
	assert.ErrorIs(t, err, middleware.ErrListingUnsupported)
}

func TestMetricsMiddleware_CountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewStoreMetrics(reg)
	store := middleware.NewMetricsMiddleware(metrics)(memory.NewStore())
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, sampleRow())
	require.NoError(t, err)
	_, err = store.FindBySessionID(ctx, "pii-session")
	require.NoError(t, err)
	_, err = store.FindBySessionID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	count, err := testutil.GatherAndCount(reg, "intake_record_store_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	results := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "intake_record_store_calls_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, l := range m.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ";"
			}
			results[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, results["op=create;result=ok;"])
	assert.Equal(t, 1.0, results["op=find;result=ok;"])
	assert.Equal(t, 1.0, results["op=find;result=not_found;"])
}

type brokenStore struct {
	ports.RecordStore
}

func (brokenStore) UpdateRecord(context.Context, string, domain.Fields) error {
	return errors.New("connection reset")
}

func TestLoggingMiddleware_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := middleware.NewLoggingMiddleware(logger)(brokenStore{memory.NewStore()})
	ctx := context.Background()

	_, err := store.FindBySessionID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "not-found is not a failure")

	err = store.UpdateRecord(ctx, "abc", domain.Fields{})
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "Record store call failed")
	assert.Contains(t, out, "op=update")
	assert.Contains(t, out, "session_id=abc")
	assert.Contains(t, out, "connection reset")
}

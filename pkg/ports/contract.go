package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRecordStoreContract runs a suite of tests to verify that a RecordStore implementation
// adheres to the defined interface contract.
func RunRecordStoreContract(t *testing.T, store RecordStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000000000")
	sessionID := "contract-session-" + suffix
	address := "2782" + suffix[len(suffix)-7:]
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	data := domain.ApplicationData{
		Personal:     domain.PersonalInfo{FullName: "Thandi Mokoena", IDNumber: "9001010001088"},
		Employment:   domain.EmploymentRevenue{TotalEmployees: domain.Int(0)},
		Funding:      domain.FundingRequest{Purpose: domain.NewSelection("Working Capital", "Other")},
		ConsentGiven: true,
		Status:       domain.StatusDraft,
	}

	t.Run("Create and Find", func(t *testing.T) {
		id, err := store.CreateRecord(ctx, records.Encode(sessionID, address, data, base))
		require.NoError(t, err, "CreateRecord should not return error")
		assert.NotEmpty(t, id)

		fields, err := store.FindBySessionID(ctx, sessionID)
		require.NoError(t, err)
		rec, err := records.Decode(fields, base)
		require.NoError(t, err)
		assert.Equal(t, sessionID, rec.SessionID)
		assert.Equal(t, address, rec.Address)
		assert.Equal(t, "Thandi Mokoena", rec.Data.Personal.FullName)
		assert.Equal(t, domain.Selection{"Working Capital", "Other"}, rec.Data.Funding.Purpose)
		require.NotNil(t, rec.Data.Employment.TotalEmployees)
		assert.Equal(t, 0, *rec.Data.Employment.TotalEmployees)
	})

	t.Run("Find Non-Existent", func(t *testing.T) {
		_, err := store.FindBySessionID(ctx, "missing-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Update Non-Existent", func(t *testing.T) {
		err := store.UpdateRecord(ctx, "missing-"+sessionID, domain.Fields{records.FieldCity: "Durban"})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Update Merges Columns", func(t *testing.T) {
		update := data.Clone()
		update.Personal = domain.PersonalInfo{}
		update.Address.City = "Johannesburg"
		update.Status = domain.StatusInProgress

		err := store.UpdateRecord(ctx, sessionID, records.Encode(sessionID, address, update, base.Add(time.Minute)))
		require.NoError(t, err)
		err = store.UpdateRecord(ctx, sessionID, domain.Fields{records.FieldTownship: "Orlando"})
		require.NoError(t, err)

		fields, err := store.FindBySessionID(ctx, sessionID)
		require.NoError(t, err)
		rec, err := records.Decode(fields, base)
		require.NoError(t, err)
		assert.Empty(t, rec.Data.Personal.FullName, "blank columns in the update clear the stored value")
		assert.Empty(t, rec.Data.Personal.IDNumber)
		assert.Equal(t, "Johannesburg", rec.Data.Address.City, "columns absent from the update are kept")
		assert.Equal(t, "Orlando", rec.Data.Address.Township)
		assert.Equal(t, domain.Selection{"Working Capital", "Other"}, rec.Data.Funding.Purpose)
		assert.Equal(t, domain.StatusInProgress, rec.Data.Status)
		assert.Equal(t, base.Add(time.Minute), rec.LastUpdated)
	})

	t.Run("Find Incomplete Application", func(t *testing.T) {
		older := sessionID + "-older"
		submitted := sessionID + "-submitted"
		_, err := store.CreateRecord(ctx, records.Encode(older, address, data, base.Add(-time.Hour)))
		require.NoError(t, err)
		done := data.Clone()
		done.Completed = true
		_, err = store.CreateRecord(ctx, records.Encode(submitted, address, done, base.Add(time.Hour)))
		require.NoError(t, err)

		found, err := store.FindIncompleteApplication(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, sessionID, found.SessionID, "the most recently updated incomplete row wins")
		assert.Equal(t, domain.StatusInProgress, found.Status)
		assert.Equal(t, base.Add(time.Minute), found.LastUpdatedAt)

		_, err = store.FindIncompleteApplication(ctx, "27000000000")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	if lister, ok := store.(RecordLister); ok {
		t.Run("List", func(t *testing.T) {
			rows, err := lister.ListRecords(ctx)
			require.NoError(t, err)

			var ids []string
			for _, row := range rows {
				meta, err := records.ReadMeta(row)
				require.NoError(t, err)
				ids = append(ids, meta.SessionID)
			}
			assert.Contains(t, ids, sessionID)
			assert.Contains(t, ids, sessionID+"-older")
		})
	}
}

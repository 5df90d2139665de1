package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuditHandler(t *testing.T) (*Handler, *MemoryRepository) {
	repo := NewMemoryRepository()
	recorder := NewRecorder(repo, nil)
	return NewHandler(recorder), repo
}

func storeEntries(t *testing.T, repo *MemoryRepository, count int) {
	t.Helper()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		err := repo.Store(context.Background(), Entry{
			ID:         uuid.New(),
			Actor:      "frida",
			Action:     ActionSeriesCreated,
			Subject:    uuid.NewString(),
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestGetRecentEntries(t *testing.T) {
	// Given
	handler, repo := setupAuditHandler(t)
	storeEntries(t, repo, 3)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit?limit=2", nil)
	rr := httptest.NewRecorder()

	// When
	handler.GetRecent(rr, req)

	// Then
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var dtos []EntryDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, "frida", dtos[0].Actor)
	assert.Equal(t, ActionSeriesCreated, dtos[0].Action)
	assert.True(t, dtos[0].OccurredAt.After(dtos[1].OccurredAt))
}

func TestGetRecentEntriesDefaultsLimit(t *testing.T) {
	// Given
	handler, repo := setupAuditHandler(t)
	storeEntries(t, repo, 25)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit", nil)
	rr := httptest.NewRecorder()

	// When
	handler.GetRecent(rr, req)

	// Then
	require.Equal(t, http.StatusOK, rr.Code)
	var dtos []EntryDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dtos))
	assert.Len(t, dtos, defaultRecentLimit)
}

func TestGetRecentEntriesRejectsInvalidLimit(t *testing.T) {
	handler, _ := setupAuditHandler(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		// When
		req := httptest.NewRequest(http.MethodGet, "/api/admin/audit?limit="+limit, nil)
		rr := httptest.NewRecorder()
		handler.GetRecent(rr, req)

		// Then
		assert.Equal(t, http.StatusBadRequest, rr.Code, "limit=%s", limit)
		assert.Contains(t, rr.Body.String(), "Invalid limit")
	}
}

func TestGetRecentEntriesOnEmptyTrail(t *testing.T) {
	// Given
	handler, _ := setupAuditHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit", nil)
	rr := httptest.NewRecorder()

	// When
	handler.GetRecent(rr, req)

	// Then
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

package repositories

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
)

func TestTableRepositoryListAndUpdate(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/tables", http.StatusOK, `[{"id":1,"tableNumber":7,"capacity":4,"status":"Cleaning"}]`)
	fb.on(http.MethodPatch, "/api/tables/1/status", http.StatusOK, `{}`)

	repo := NewTableRepository(client)
	tables, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Bàn 7", tables[0].Label())
	assert.Equal(t, models.TableStatusCleaning, tables[0].Status)

	require.NoError(t, repo.UpdateStatus(context.Background(), 1, models.TableStatusAvailable))
	assert.Equal(t, "status=Available", fb.lastCall().Query)
}

func TestTableRepositoryUnknownStatus(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/tables", http.StatusOK, `[{"id":1,"tableNumber":7,"status":"occupied"}]`)

	_, err := NewTableRepository(client).List(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}

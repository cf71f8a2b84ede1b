package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

func TestAllocateStartsAtOneAndIncrements(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	day := time.Date(2025, 10, 26, 12, 0, 0, 0, time.UTC)

	var allocator OrderNumberAllocator
	first, err := allocator.Allocate(db, f.Table.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "20251026-M001-001", first)

	second, err := allocator.Allocate(db, f.Table.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "20251026-M001-002", second)

	third, err := allocator.Allocate(db, f.Table.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "20251026-M001-003", third)
}

func TestAllocateScopesByTable(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	other := models.Table{ZoneID: f.Zone.ID, Number: "007", Status: "available"}
	require.NoError(t, db.Omit("Zone").Create(&other).Error)

	day := time.Date(2025, 10, 26, 12, 0, 0, 0, time.UTC)

	var allocator OrderNumberAllocator
	_, err := allocator.Allocate(db, f.Table.ID, day)
	require.NoError(t, err)

	// the other table gets its own sequence
	number, err := allocator.Allocate(db, other.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "20251026-M007-001", number)
}

func TestAllocateScopesByDay(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var allocator OrderNumberAllocator
	_, err := allocator.Allocate(db, f.Table.ID, time.Date(2025, 10, 26, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	number, err := allocator.Allocate(db, f.Table.ID, time.Date(2025, 10, 27, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "20251027-M001-001", number)
}

func TestAllocateUnknownTable(t *testing.T) {
	db := setupTestDB()
	seedCatalog(db)

	var allocator OrderNumberAllocator
	_, err := allocator.Allocate(db, 999, time.Now())

	var validationErr *utils.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

// OrderNumberAllocator issues `{YYYYMMDD}-M{table_number}-{seq}` numbers,
// sequence starting at 1 per (day, table). The counter row is bumped with
// an upsert so concurrent transactions cannot observe the same value; the
// unique index on orders.number remains the backstop.
type OrderNumberAllocator struct{}

// Allocate must be called inside the transaction that inserts the order.
func (a *OrderNumberAllocator) Allocate(tx *gorm.DB, tableID uint, now time.Time) (string, error) {
	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", utils.NewValidationError("table %d not found", tableID)
		}
		return "", err
	}

	day := now.Format("20060102")

	counter := models.OrderCounter{Day: day, TableID: tableID, LastSeq: 1}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day"}, {Name: "table_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seq":   gorm.Expr("last_seq + 1"),
			"updated_at": now,
		}),
	}).Create(&counter).Error; err != nil {
		return "", err
	}

	// The upsert does not report the updated value; read it back in the
	// same transaction.
	if err := tx.Where("day = ? AND table_id = ?", day, tableID).First(&counter).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-M%s-%03d", day, table.Number, counter.LastSeq), nil
}

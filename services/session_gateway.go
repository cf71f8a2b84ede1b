package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

// SessionGateway resolves shared-table session tokens into ordering
// context and answers the per-session order history.
type SessionGateway struct {
	DB *gorm.DB
}

func NewSessionGateway(db *gorm.DB) *SessionGateway {
	return &SessionGateway{DB: db}
}

// SessionContext is what a resolved token contributes to a new order.
type SessionContext struct {
	SessionID uint
	TableID   uint
	UserID    uint
}

// Resolve hard-fails on unknown, closed and expired tokens: order
// creation never proceeds against a dead session.
func (g *SessionGateway) Resolve(token string) (*SessionContext, error) {
	var session models.TableSession
	if err := g.DB.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewValidationError("unknown session token")
		}
		return nil, err
	}

	if session.Status != models.SessionActive {
		return nil, utils.NewValidationError("session is %s", session.Status)
	}
	if session.Expired(time.Now()) {
		return nil, utils.NewValidationError("session token expired")
	}

	return &SessionContext{
		SessionID: session.ID,
		TableID:   session.TableID,
		UserID:    session.OpenedBy,
	}, nil
}

// SessionHistory carries either the full order list or the closed/expired
// marker with an empty list.
type SessionHistory struct {
	TableID    uint           `json:"table_id"`
	OrderCount int            `json:"order_count"`
	Closed     bool           `json:"closed"`
	Orders     []models.Order `json:"orders"`
}

// History, unlike Resolve, does not error on a dead session: diners can
// still see that their tab is closed. It returns the marker and an empty
// list instead.
func (g *SessionGateway) History(token string) (*SessionHistory, error) {
	var session models.TableSession
	if err := g.DB.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewValidationError("unknown session token")
		}
		return nil, err
	}

	if session.Status != models.SessionActive || session.Expired(time.Now()) {
		return &SessionHistory{
			TableID: session.TableID,
			Closed:  true,
			Orders:  []models.Order{},
		}, nil
	}

	var orders []models.Order
	if err := g.DB.
		Preload("Items.Options.ProductOption").
		Preload("Items.Product.Category").
		Preload("Table.Zone").
		Where("session_id = ?", session.ID).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	return &SessionHistory{
		TableID:    session.TableID,
		OrderCount: len(orders),
		Orders:     orders,
	}, nil
}

// Open starts a new shared tab on a table and returns the session with its
// freshly minted token.
func (g *SessionGateway) Open(tableID, openedBy uint, ttl time.Duration) (*models.TableSession, error) {
	var table models.Table
	if err := g.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewValidationError("table %d not found", tableID)
		}
		return nil, err
	}

	session := models.TableSession{
		TableID:   tableID,
		OpenedBy:  openedBy,
		Token:     uuid.NewString(),
		Status:    models.SessionActive,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := g.DB.Omit(clause.Associations).Create(&session).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d opened on table %d", session.ID, tableID)
	return &session, nil
}

// Close ends the tab. Closing an already closed session is a no-op.
func (g *SessionGateway) Close(sessionID uint) (*models.TableSession, error) {
	var session models.TableSession
	if err := g.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("session", sessionID)
		}
		return nil, err
	}

	if session.Status != models.SessionClosed {
		now := time.Now()
		session.Status = models.SessionClosed
		session.ClosedAt = &now
		if err := g.DB.Omit(clause.Associations).Save(&session).Error; err != nil {
			return nil, err
		}
	}

	return &session, nil
}

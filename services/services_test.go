package services

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesarest/comanda-app/models"
)

var testDBCounter int64

func setupTestDB() *gorm.DB {
	// one shared in-memory database per test
	name := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
		&models.Zone{}, &models.Table{}, &models.User{},
		&models.ProductCategory{}, &models.Product{}, &models.ProductOption{},
		&models.TableSession{},
		&models.Order{}, &models.OrderItem{}, &models.OrderItemOption{},
		&models.OrderCounter{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

type fixtures struct {
	Zone        models.Zone
	Table       models.Table
	User        models.User
	Category    models.ProductCategory
	ProductA    models.Product       // 25.50
	ProductSoup models.Product       // 8.00, unavailable
	OptCheese   models.ProductOption // +1.50 on ProductA
	OptBacon    models.ProductOption // +1.50 on ProductA
}

func seedCatalog(db *gorm.DB) fixtures {
	f := fixtures{}

	f.Zone = models.Zone{Name: "terrace", Label: "Terrace"}
	db.Create(&f.Zone)

	f.Table = models.Table{ZoneID: f.Zone.ID, Number: "001", Status: "available"}
	db.Omit("Zone").Create(&f.Table)

	f.User = models.User{Name: "Ana", Role: "staff"}
	db.Create(&f.User)

	f.Category = models.ProductCategory{Name: "Mains"}
	db.Create(&f.Category)

	f.ProductA = models.Product{
		CategoryID: f.Category.ID,
		Name:       "Grilled Salmon",
		BasePrice:  decimal.RequireFromString("25.50"),
		Available:  true,
	}
	db.Omit("Category").Create(&f.ProductA)

	f.ProductSoup = models.Product{
		CategoryID: f.Category.ID,
		Name:       "Soup of Yesterday",
		BasePrice:  decimal.RequireFromString("8.00"),
		Available:  false,
	}
	db.Omit("Category").Create(&f.ProductSoup)

	f.OptCheese = models.ProductOption{
		ProductID:       f.ProductA.ID,
		Name:            "Extra Cheese",
		AdditionalPrice: decimal.RequireFromString("1.50"),
	}
	db.Omit("Product").Create(&f.OptCheese)

	f.OptBacon = models.ProductOption{
		ProductID:       f.ProductA.ID,
		Name:            "Bacon",
		AdditionalPrice: decimal.RequireFromString("1.50"),
	}
	db.Omit("Product").Create(&f.OptBacon)

	return f
}

func openSession(db *gorm.DB, f fixtures, status string, expiresAt time.Time) models.TableSession {
	session := models.TableSession{
		TableID:   f.Table.ID,
		OpenedBy:  f.User.ID,
		Token:     fmt.Sprintf("tok-%d-%d", f.Table.ID, atomic.AddInt64(&testDBCounter, 1)),
		Status:    status,
		ExpiresAt: expiresAt,
	}
	db.Omit("Table", "Opener").Create(&session)
	return session
}

package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/mesarest/comanda-app/config"
	"github.com/mesarest/comanda-app/kds"
	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/notifier"
	"github.com/mesarest/comanda-app/router"
	"github.com/mesarest/comanda-app/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	hub := kds.NewHub()
	publishers := []notifier.Publisher{hub}

	if url := os.Getenv("AMQP_URL"); url != "" {
		amqpPub, err := notifier.DialAMQP(url)
		if err != nil {
			// best-effort downstream: run without the queue rather than die
			utils.ErrorLogger.Errorf("AMQP unavailable, continuing without it: %v", err)
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
		}
	}

	dispatcher := notifier.NewDispatcher(publishers...)

	r := router.SetupRouter(db, hub, dispatcher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.InfoLogger.Printf("Listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatalf("Server stopped: %v", err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Zone{},
		&models.Table{},
		&models.User{},
		&models.ProductCategory{},
		&models.Product{},
		&models.ProductOption{},
		&models.TableSession{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
		&models.OrderCounter{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Migration failed: %v", err)
	}
}

package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/config"
	"storefront-backend/internal/database"
	"storefront-backend/internal/handlers"
	"storefront-backend/internal/middleware"
	"storefront-backend/internal/security"
	"storefront-backend/internal/service"
	"storefront-backend/internal/session"
	"storefront-backend/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Println("⚠️ customer index warning:", err)
	}
	if err := database.EnsureSessionIndexes(db); err != nil {
		log.Println("⚠️ session index warning:", err)
	}

	customers := store.NewMongoCustomerStore(db)
	accounts := service.NewAccountService(customers)
	auth := session.NewMongoAuthenticator(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTTL)
	access := service.NewAccessService(accounts, auth, security.SHA256Hasher{})

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(access))
	r.POST("/auth/login", handlers.Login(access))
	r.POST("/auth/reset-eligibility", handlers.ResetEligibility(accounts))
	r.GET("/auth/me", middleware.CustomerAuth(auth, false), handlers.GetMe(accounts))
	r.POST("/auth/change-password", middleware.CustomerAuth(auth, true), handlers.ChangePassword(access))

	r.GET("/customers", handlers.ListCustomers(accounts))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

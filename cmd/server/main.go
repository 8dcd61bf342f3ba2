package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/settleup-app/settleup-server/internal/api"
	"github.com/settleup-app/settleup-server/internal/config"
	"github.com/settleup-app/settleup-server/internal/repository"
	"github.com/settleup-app/settleup-server/internal/service"
	"github.com/settleup-app/settleup-server/internal/store"
	"github.com/settleup-app/settleup-server/internal/utils"
)

func main() {
	logger := utils.NewLogger()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create blob store and repository
	blobs := store.NewPostgresBlobStore(db)
	repo := repository.NewBlobRepository(blobs)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc, logger, []byte(cfg.Auth.JWTSecret))

	// Set up Gin router
	router := gin.Default()
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

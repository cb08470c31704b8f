package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/glintworks/jewelfeed"
)

func main() {
	config := jewelfeed.NewAppConfig()

	if config.EnvString("APP_ENV", "local") != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir := config.EnvString("DATA_DIR", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	app := jewelfeed.NewApp(config, dataDir)

	port := config.EnvString("PORT", "5000")
	app.Logger().Info("Starting jewelfeed API server on :%s", port)
	if err := app.Routes().Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

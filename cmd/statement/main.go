// cmd/statement/main.go
package main

import (
	"log"

	"github.com/brunooviedo/estadodecuenta/internal/api/handlers"
	"github.com/brunooviedo/estadodecuenta/internal/api/responses"
	"github.com/brunooviedo/estadodecuenta/internal/config"
	"github.com/brunooviedo/estadodecuenta/internal/core/statement"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	logger := responses.InitLogger()
	defer logger.Sync()

	serverCfg := config.LoadServer()
	pipelineCfg, err := config.LoadPipeline(config.DefaultPipeline())
	if err != nil {
		logger.Fatal("invalid statement pipeline configuration", zap.Error(err))
	}

	gin.SetMode(serverCfg.GinMode)

	statementService := statement.NewService(logger)
	statementHandler := handlers.NewStatementHandler(statementService, pipelineCfg)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/statements/analyze", statementHandler.HandleAnalyze)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "statement-service"})
	})

	log.Printf("🚀 Statement Service (Go) iniciado, escuchando en el puerto %s", serverCfg.Port)
	if err := router.Run(":" + serverCfg.Port); err != nil {
		log.Fatal("No se pudo iniciar el servidor de estados de cuenta: ", err)
	}
}

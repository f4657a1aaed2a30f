package main

import (
	"fmt"
	"log"
	"net/http"

	"naturelog/backend/internal/config"
	"naturelog/backend/internal/database"
	"naturelog/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "naturelog/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Naturelog API
// @version         1.0
// @description     This is the API for the naturelog nature diary service.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	handler.RegisterRoutes(router.Group("/api/v1"))

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}

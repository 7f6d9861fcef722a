package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bramment1/poke-trade-scan-web/internal/api/handlers"
	"github.com/bramment1/poke-trade-scan-web/internal/services"
)

type RouterOptions struct {
	CORSOrigins  []string
	FrontendPath string
}

func SetupRouter(catalog *services.CatalogService, priceService *services.PriceService, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), Metrics())

	serveFrontend := opts.FrontendPath != "" && dirExists(opts.FrontendPath)

	config := cors.DefaultConfig()
	if len(opts.CORSOrigins) > 0 {
		config.AllowOrigins = opts.CORSOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	cardHandler := handlers.NewCardHandler(catalog)
	collectionHandler := handlers.NewCollectionHandler(catalog)
	priceHandler := handlers.NewPriceHandler(priceService)

	api := router.Group("/api")
	{
		api.POST("/price", priceHandler.EstimatePrice)
		api.POST("/cards", collectionHandler.AddToCollection)
		api.GET("/search", cardHandler.SearchCards)
		api.GET("/card/*cardId", cardHandler.GetCard)
		api.GET("/statuses", cardHandler.GetStatuses)
		api.GET("/conditions", cardHandler.GetConditions)
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := catalog.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if serveFrontend {
		indexPath := filepath.Join(opts.FrontendPath, "index.html")

		router.Static("/assets", filepath.Join(opts.FrontendPath, "assets"))
		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback for client-side routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

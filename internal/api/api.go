package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/api/handlers"
	"github.com/Adriano-luizello/Profeta-sub001/internal/api/middleware"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

type Services struct {
	Upload      *service.UploadService
	SupplyChain *service.SupplyChainService
	Settings    *service.SettingsService
	Forecast    *service.ForecastService
}

// RouterOptions tunes the HTTP surface
type RouterOptions struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

func NewRouter(services *Services, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	if opts.MaxUploadBytes > 0 {
		// Leave headroom for the multipart envelope
		router.MaxMultipartMemory = opts.MaxUploadBytes + 1<<20
	}

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	analysisGroup := apiGroup.Group("/analyses/:id")
	if services.Upload != nil {
		uploadHandler := handlers.NewUploadHandler(services.Upload, opts.MaxUploadBytes)
		uploadGroup := apiGroup.Group("/uploads")
		{
			uploadGroup.POST("/detect", uploadHandler.Detect)
			uploadGroup.POST("", uploadHandler.Import)
		}
		analysisGroup.GET("", uploadHandler.GetAnalysis)
	}
	if services.SupplyChain != nil {
		supplyChainHandler := handlers.NewSupplyChainHandler(services.SupplyChain)
		analysisGroup.GET("/supply-chain", supplyChainHandler.GetMetrics)
		analysisGroup.GET("/supply-chain/summary", supplyChainHandler.GetSummary)
		analysisGroup.GET("/recommendations", supplyChainHandler.GetRecommendations)
		apiGroup.POST("/recommendations", supplyChainHandler.Generate)
	}
	if services.Forecast != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecast)
		analysisGroup.POST("/forecast", forecastHandler.Refresh)
	}

	if services.Settings != nil {
		settingsHandler := handlers.NewSettingsHandler(services.Settings)
		settingsGroup := apiGroup.Group("/organizations/:id/settings")
		{
			settingsGroup.GET("", settingsHandler.GetSettings)
			settingsGroup.PUT("", settingsHandler.UpdateSettings)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		return cfg
	}

	normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
	if allowAll {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	} else if len(normalizedOrigins) > 0 {
		cfg.AllowOrigins = normalizedOrigins
	}

	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			switch trimmed {
			case "":
			case "*":
				allowAll = true
			default:
				parsed = append(parsed, trimmed)
			}
		}
	}
	return parsed, allowAll
}

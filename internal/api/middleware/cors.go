package middleware

import (
	"net/http"

	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a CORS middleware for cfg.CORSOrigins.
// An empty list or a single "*" allows every origin.
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if cfg.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{requestIDHeader}

	return cors.New(corsConfig)
}

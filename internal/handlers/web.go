package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"inversiones-bot/internal/export"
	"inversiones-bot/internal/repository"
)

// WebHandler serves the keep-alive and backup-export surface.
type WebHandler struct {
	store         *repository.Store
	downloadToken string
}

func NewWebHandler(store *repository.Store, downloadToken string) *WebHandler {
	return &WebHandler{store: store, downloadToken: downloadToken}
}

// Router builds the gin engine with all web routes
func (h *WebHandler) Router() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/", h.Home)
	router.GET("/health", h.Health)
	router.GET("/download-db", h.DownloadDB)

	return router
}

// Home is the keep-alive liveness page
func (h *WebHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, "InversionesCT está en línea ✅")
}

// Health returns a JSON health check
func (h *WebHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// DownloadDB returns the full store as a zip archive. Gated by the shared
// download token; mismatches get a generic forbidden with no detail.
func (h *WebHandler) DownloadDB(c *gin.Context) {
	token := c.Query("token")
	if token != h.downloadToken {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	data, err := export.Archive(c.Request.Context(), h.store)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inversionesct_db_backup.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}

package jewelfeed

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server is the thin HTTP layer over the job runner, its tracker and the
// generated feed files.
type Server struct {
	runner  *JobRunner
	logger  *defaultLogger
	dataDir string
}

// NewServer creates the serving layer.
func NewServer(runner *JobRunner, logger *defaultLogger, dataDir string) *Server {
	return &Server{runner: runner, logger: logger, dataDir: dataDir}
}

// Routes builds the gin router with all API endpoints.
func (s *Server) Routes() *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/start", s.handleStart)
		api.GET("/config", s.handleGetConfig)
		api.POST("/config", s.handleSaveConfig)
		api.POST("/test-connection", s.handleTestConnection)
		api.GET("/history", s.handleHistory)
		api.GET("/products", s.handleProducts)
		api.GET("/export/:file_type", s.handleExport)
		api.GET("/summary", s.handleSummary)
	}
	return router
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Tracker.Status())
}

func (s *Server) handleStart(c *gin.Context) {
	cfg, err := LoadJobConfig(s.dataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if _, err := s.runner.Start(cfg); err != nil {
		if errors.Is(err, ErrJobRunning) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Scraper is already running"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scraper started"})
}

func (s *Server) handleGetConfig(c *gin.Context) {
	cfg, err := LoadJobConfig(s.dataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleSaveConfig(c *gin.Context) {
	var cfg JobConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := SaveJobConfig(s.dataDir, cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Configuration saved"})
}

func (s *Server) handleTestConnection(c *gin.Context) {
	var req struct {
		BaseUrl   string `json:"base_url"`
		UserAgent string `json:"user_agent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BaseUrl == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Base URL is required"})
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	httpReq, err := http.NewRequest(http.MethodGet, req.BaseUrl, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Connection failed: " + err.Error()})
		return
	}
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Connection failed: " + err.Error()})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Connection failed: " + resp.Status})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Connection successful! Status code: " + strconv.Itoa(resp.StatusCode),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Tracker.History())
}

func (s *Server) handleProducts(c *gin.Context) {
	status := c.DefaultQuery("status", "available")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if err != nil || perPage < 1 {
		perPage = 10
	}

	fileName := InventoryFileName
	if status != "available" {
		fileName = OutOfStockFileName
	}
	filePath := filepath.Join(s.dataDir, fileName)
	if _, err := os.Stat(filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data available"})
		return
	}

	rows, err := ReadFeedRows(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalRecords := len(rows)
	totalPages := (totalRecords + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > totalRecords {
		start = totalRecords
	}
	end := start + perPage
	if end > totalRecords {
		end = totalRecords
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rows[start:end],
		"pagination": gin.H{
			"page":          page,
			"per_page":      perPage,
			"total_records": totalRecords,
			"total_pages":   totalPages,
		},
	})
}

func (s *Server) handleExport(c *gin.Context) {
	var fileName string
	switch c.Param("file_type") {
	case "inventory":
		fileName = InventoryFileName
	case "outofstock":
		fileName = OutOfStockFileName
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	filePath := filepath.Join(s.dataDir, fileName)
	if _, err := os.Stat(filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.FileAttachment(filePath, fileName)
}

func (s *Server) handleSummary(c *gin.Context) {
	availableCount := countFeedRows(filepath.Join(s.dataDir, InventoryFileName))
	unavailableCount := countFeedRows(filepath.Join(s.dataDir, OutOfStockFileName))

	history := s.runner.Tracker.History()
	var lastRun string
	successRate := "0%"
	if len(history) > 0 {
		lastRun = history[len(history)-1].StartTime
		completed := 0
		for _, record := range history {
			if record.Outcome == OutcomeCompleted {
				completed++
			}
		}
		successRate = strconv.Itoa(completed*100/len(history)) + "%"
	}

	c.JSON(http.StatusOK, gin.H{
		"products_scraped": availableCount + unavailableCount,
		"in_stock":         availableCount,
		"last_run":         lastRun,
		"success_rate":     successRate,
	})
}

func countFeedRows(filePath string) int {
	rows, err := ReadFeedRows(filePath)
	if err != nil {
		return 0
	}
	return len(rows)
}

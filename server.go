package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/E-Waste-Bank-System/ebs-ai/config"
	"github.com/E-Waste-Bank-System/ebs-ai/detector"
	"github.com/E-Waste-Bank-System/ebs-ai/pricing"
	"github.com/E-Waste-Bank-System/ebs-ai/taxonomy"
)

const version = "1.0.0"

// Server owns the HTTP surface. Endpoints backed by a disabled component
// answer 503 instead of disappearing from the router, so probes can tell
// "off" from "unknown".
type Server struct {
	cfg      *config.Config
	pipeline *Pipeline
	pricer   *pricing.Predictor
	engine   *gin.Engine
	http     *http.Server
}

// NewServer wires the routes. pipeline may be nil when the detector is
// disabled; pricer is always required.
func NewServer(cfg *config.Config, pipeline *Pipeline, pricer *pricing.Predictor) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		pricer:   pricer,
		engine:   engine,
	}

	engine.GET("/", s.handleRoot)
	engine.GET("/status", s.handleStatus)
	engine.GET("/categories", s.handleCategories)
	engine.POST("/predict", s.handlePredict)
	engine.POST("/object", s.handleObject)
	engine.POST("/price", s.handlePrice)

	s.http = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}
	return s
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "ebs-ai",
		"status":  "ok",
		"version": version,
		"endpoints": []string{
			"POST /predict",
			"POST /object",
			"POST /price",
			"GET /categories",
			"GET /status",
		},
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	detectorStatus := gin.H{"enabled": s.cfg.DetectorEnabled}
	if s.cfg.DetectorEnabled && s.pipeline != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := s.pipeline.detector.Ping(ctx); err != nil {
			detectorStatus["ready"] = false
			detectorStatus["error"] = err.Error()
		} else {
			detectorStatus["ready"] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version,
		"detector": detectorStatus,
		"pricing": gin.H{
			"loaded":     true,
			"categories": len(taxonomy.Categories()),
			"currency":   s.pricer.Currency(),
		},
		"validation": gin.H{
			"enabled": s.cfg.ValidationEnabled,
			"cached":  s.cfg.CacheDBPath != "",
		},
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	categories := taxonomy.Categories()
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	data, ok := s.readImage(c)
	if !ok {
		return
	}

	response, err := s.pipeline.Predict(c.Request.Context(), data)
	if err != nil {
		if IsBadImage(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is not a decodable image"})
			return
		}
		log.Error().Err(err).Msg("prediction request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "detection service unavailable"})
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleObject(c *gin.Context) {
	data, ok := s.readImage(c)
	if !ok {
		return
	}

	detections, err := s.pipeline.Detect(c.Request.Context(), data)
	if err != nil {
		if IsBadImage(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is not a decodable image"})
			return
		}
		log.Error().Err(err).Msg("detection request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "detection service unavailable"})
		return
	}
	if detections == nil {
		detections = []detector.Detection{}
	}
	c.JSON(http.StatusOK, gin.H{
		"detections": detections,
		"count":      len(detections),
	})
}

// priceRequest is the body for /price. Condition fields are optional and
// default like an unvalidated detection.
type priceRequest struct {
	Category string `json:"category" binding:"required"`
	Size     string `json:"size"`
	Wear     string `json:"wear"`
	Grade    string `json:"grade"`
}

func (s *Server) handlePrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	cond := taxonomy.Condition{
		Size:  taxonomy.Size(req.Size),
		Wear:  taxonomy.Wear(req.Wear),
		Grade: taxonomy.Grade(req.Grade),
	}
	if err := cond.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimate, err := s.pricer.Estimate(req.Category, cond)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                err.Error(),
			"supported_categories": taxonomy.Categories(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":  req.Category,
		"price":     estimate.Price,
		"currency":  estimate.Currency,
		"condition": cond,
	})
}

// readImage pulls the uploaded image out of the multipart form, enforcing
// the upload cap. On failure it writes the error response and returns false.
func (s *Server) readImage(c *gin.Context) ([]byte, bool) {
	if !s.cfg.DetectorEnabled || s.pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object detection is disabled"})
		return nil, false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "uploaded file is too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is empty"})
		return nil, false
	}
	return data, true
}

// requestLogger logs each request once, after completion.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

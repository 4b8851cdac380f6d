package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MakhBeth/forfettAIro/internal/importer"
	"github.com/MakhBeth/forfettAIro/internal/logger"
	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
	"github.com/MakhBeth/forfettAIro/internal/profile"
	"github.com/MakhBeth/forfettAIro/internal/store"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config      *Config
	router      *gin.Engine
	parser      *fatturapa.Parser
	coordinator *importer.Coordinator
	store       store.Store
	log         zerolog.Logger
}

// NewServer creates a new API server over the given store
func NewServer(config *Config, st store.Store) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:      config,
		router:      router,
		parser:      fatturapa.NewParser(),
		coordinator: importer.New(),
		store:       st,
		log:         logger.WithComponent("server"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/parse", s.handleParse)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/import", s.handleImport)
		v1.POST("/profile/autopopulate", s.handleAutoPopulate)
		v1.GET("/backup", s.handleExport)
		v1.POST("/backup", s.handleImportBackup)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("addr", s.config.Address).Msg("listening")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleParse(c *gin.Context) {
	body, ok := s.rawBody(c)
	if !ok {
		return
	}

	invoice, err := s.parser.ParseBytes(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Invoice:  invoice,
		Warnings: fatturapa.Validate(invoice),
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	body, ok := s.rawBody(c)
	if !ok {
		return
	}

	invoice, err := s.parser.ParseBytes(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
			Valid:    false,
			Problems: []string{err.Error()},
		})
		return
	}

	problems := fatturapa.Validate(invoice)
	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    len(problems) == 0,
		Problems: problems,
	})
}

// handleImport accepts a multipart upload of XML files and/or zip
// archives, runs the batch coordinator against the store and persists
// accepted records. Individual bad files never fail the request; a
// corrupt archive container does.
func (s *Server) handleImport(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form upload"})
		return
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	var files []importer.File
	for _, upload := range uploads {
		content, err := readUpload(upload)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload " + upload.Filename})
			return
		}
		files = append(files, importer.File{Name: upload.Filename, Content: content})
	}

	files, err = importer.ExpandArchives(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existingFatture, err := s.store.Fatture()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	existingClienti, err := s.store.Clienti()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := s.coordinator.ImportBatch(c.Request.Context(), files, existingFatture, existingClienti, fatturapa.ExtractSummary)

	if err := s.store.AddClienti(result.NewClienti); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.AddFatture(result.NewFatture); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAutoPopulate(c *gin.Context) {
	body, ok := s.rawBody(c)
	if !ok {
		return
	}

	extracted := profile.ExtractIssuerFields(body)
	if extracted == nil {
		c.JSON(http.StatusOK, AutoPopulateResponse{Updated: false})
		return
	}

	current, err := s.store.Config()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	patch := profile.ComputeUpdates(extracted, current)
	if patch == nil {
		c.JSON(http.StatusOK, AutoPopulateResponse{Updated: false})
		return
	}

	merged := patch.Apply(current)
	if err := s.store.PutConfig(merged); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AutoPopulateResponse{Updated: true, Config: &merged})
}

func (s *Server) handleExport(c *gin.Context) {
	data, err := s.store.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) handleImportBackup(c *gin.Context) {
	var data store.Data
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid backup payload"})
		return
	}
	if err := s.store.Import(data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

func (s *Server) rawBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return nil, false
	}
	return body, true
}

func readUpload(upload *multipart.FileHeader) ([]byte, error) {
	f, err := upload.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

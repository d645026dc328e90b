package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/config"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/pipeline"
)

// Server exposes the review operations over HTTP: listing confirmed and
// pending matches, promoting or annulling them, and triggering a fresh
// reconciliation run. JSON only; rendering belongs to the caller.
type Server struct {
	cfg   config.Config
	store *pipeline.Store

	// runs are single-threaded by contract; concurrent triggers queue here.
	runMu sync.Mutex
}

func New(cfg config.Config, store *pipeline.Store) *Server {
	return &Server{cfg: cfg, store: store}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.GET("/confirmed", s.listConfirmed)
	api.GET("/pending", s.listPending)
	api.POST("/pending/:id/promote", s.promotePending)
	api.DELETE("/pending/:id", s.deletePending)
	api.POST("/confirmed/:id/annul", s.annulConfirmed)
	api.GET("/runs", s.listRuns)
	api.POST("/runs", s.triggerRun)

	return r
}

func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) listConfirmed(c *gin.Context) {
	rows, err := s.store.ConfirmedRows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": rows})
}

func (s *Server) listPending(c *gin.Context) {
	rows, err := s.store.PendingRows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": rows})
}

func (s *Server) promotePending(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	confirmed, err := s.store.Promote(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": confirmed})
}

func (s *Server) deletePending(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeletePending(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) annulConfirmed(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pending, err := s.store.Annul(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

func (s *Server) listRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	runs, err := s.store.Runs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

type runRequest struct {
	PriceFile     string                 `json:"priceFile" binding:"required"`
	MasterFile    string                 `json:"masterFile" binding:"required"`
	PriceColumns  pipeline.PriceColumns  `json:"priceColumns"`
	MasterColumns pipeline.MasterColumns `json:"masterColumns"`
	Export        bool                   `json:"export"`
}

func (s *Server) triggerRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	priceBlob, err := os.ReadFile(req.PriceFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	masterBlob, err := os.ReadFile(req.MasterFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priceTable, err := pipeline.LoadWorkbookTable(priceBlob)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	masterTable, err := pipeline.LoadWorkbookTable(masterBlob)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cleaner := pipeline.NewCurrencyCleaner(s.cfg.CurrencyMarkers, s.cfg.ColumnRemovalCutoff)
	priceTable = cleaner.Clean(priceTable)
	masterTable = cleaner.Clean(masterTable)

	prices, err := pipeline.ProjectPriceRecords(priceTable, req.PriceColumns)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	masters, err := pipeline.ProjectMasterRecords(masterTable, req.MasterColumns)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := pipeline.NewOrchestrator(s.cfg, s.store).Run(masters, prices)

	response := gin.H{
		"traceId":    result.TraceID,
		"counts":     result.Counts,
		"good":       result.Good,
		"pending":    result.Pending,
		"duplicates": result.Duplicates,
	}

	if req.Export {
		paths, err := pipeline.ExportWorkbooks(
			result, masterTable, priceTable,
			req.MasterColumns, req.PriceColumns,
			baseName(req.MasterFile), baseName(req.PriceFile),
			s.cfg.OutputDir,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response["exports"] = paths
	}

	c.JSON(http.StatusOK, response)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinesepowered/appliedai/service"
)

// ResearchHandler handles HTTP requests for legal research
type ResearchHandler struct {
	researchService *service.ResearchService
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(researchService *service.ResearchService) *ResearchHandler {
	return &ResearchHandler{
		researchService: researchService,
	}
}

// ResearchRequest represents the request body for a research round
type ResearchRequest struct {
	Query        string `json:"query" binding:"required"`
	Jurisdiction string `json:"jurisdiction"`
	Depth        int    `json:"depth"`
	MaxDepth     int    `json:"max_depth"`
}

// Research handles POST /api/research
func (h *ResearchHandler) Research(c *gin.Context) {
	var req ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.ResearchRequest{
		Query:        req.Query,
		Jurisdiction: req.Jurisdiction,
		Depth:        req.Depth,
		MaxDepth:     req.MaxDepth,
	}

	result, err := h.researchService.Research(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) || errors.Is(err, service.ErrMaxDepthExceeded) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RESEARCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"research_node":        result.Node,
			"memorandum":           result.Memorandum,
			"total_cases_analyzed": result.Node.TotalCasesAnalyzed(),
		},
	})
}

// SearchRequest represents the request body for a ranked search
type SearchRequest struct {
	Query        string `json:"query" binding:"required"`
	Jurisdiction string `json:"jurisdiction"`
}

// Search handles POST /api/search
func (h *ResearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.SearchRequest{
		Query:        req.Query,
		Jurisdiction: req.Jurisdiction,
	}

	result, err := h.researchService.SearchCases(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEARCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cases": result.Cases,
			"count": len(result.Cases),
		},
	})
}

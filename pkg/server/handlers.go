package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/newsgraph/newsgraph/pkg/answer"
)

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query  string `json:"query"`
	Format string `json:"format,omitempty"` // "structured" (default) or "text"
}

// errorAnswer wraps an operational failure in the regular response shape so
// clients never have to special-case a search outage.
const searchFailedMessage = "검색 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

func errorAnswer() *answer.Response {
	return &answer.Response{
		Sections: []answer.Section{{Title: "검색 결과", Content: searchFailedMessage}},
		Sources:  []answer.Source{},
	}
}

// handleSearch runs the full question-to-answer flow.
func (s *Server) handleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query field is required and cannot be empty"})
		return
	}

	format := answer.FormatStructured
	if req.Format == string(answer.FormatText) {
		format = answer.FormatText
	}

	resp, err := s.searcher.Search(c.Request.Context(), req.Query, format)
	if err != nil {
		s.logger.Error("search failed",
			"request_id", c.GetString("request_id"),
			"error", err)
		c.JSON(http.StatusOK, errorAnswer())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.searcher.VerifyConnectivity(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

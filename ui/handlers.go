package ui

import (
	"net/http"
	"time"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/internal/analysis"
	apperrors "gotitanic/internal/errors"
	"gotitanic/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	readHeaderTimeout   = 10 * time.Second
	defaultHistoryLimit = 20
)

// handlePassengers returns every stored record
func (s *Server) handlePassengers(c *gin.Context) {
	records, err := s.service.Passengers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// handleStats returns the published snapshot, or one section of it
func (s *Server) handleStats(c *gin.Context) {
	ctx := c.Request.Context()

	name, ok := c.GetQuery("selector")
	if !ok {
		snapshot, err := s.service.Snapshot(ctx)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, snapshot)
		return
	}

	sel, err := domain.ParseSelector(name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	section, err := s.service.Select(ctx, sel)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, err := optionalInt(c, "limit", defaultHistoryLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	history, err := s.service.History(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": history})
}

func (s *Server) handleSnapshotByID(c *gin.Context) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		_ = c.Error(apperrors.InvalidInput(err.Error()))
		return
	}
	snapshot, err := s.service.GetSnapshot(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleReport(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		_ = c.Error(apperrors.InvalidInput(err.Error()))
		return
	}
	snapshot, err := s.service.Snapshot(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	body, err := report.Render(snapshot, format)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), body)
}

// handleSurvival estimates the survival ratio of a filtered subset. An empty
// subset is a successful response carrying noData.
func (s *Server) handleSurvival(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ratio, err := s.service.EstimateOutcomeRatio(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ratio)
}

func (s *Server) handleDistribution(c *gin.Context) {
	attr, err := analysis.ParseAttribute(c.Query("attribute"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	binning, err := parseBinning(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	dist, err := s.service.Distribution(c.Request.Context(), attr, filter, binning)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

// handleRebuild builds and publishes a new snapshot synchronously
func (s *Server) handleRebuild(c *gin.Context) {
	snapshot, err := s.service.Rebuild(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        snapshot.ID,
		"count":     snapshot.Count,
		"createdAt": snapshot.CreatedAt,
	})
}

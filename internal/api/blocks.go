package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliptions/validator/internal/block"
	"github.com/cliptions/validator/internal/orchestrator"
)

// blockHandler exposes the block lifecycle (create, commit, reveal, advance
// phases) over HTTP, backed by the orchestrator. These routes sit behind
// the same bearer-token auth and rate limiter as the broadcast test
// backend: anyone able to announce on behalf of the validator is also
// trusted to drive its block lifecycle.
type blockHandler struct {
	orch *orchestrator.Orchestrator
}

func (h *blockHandler) register(group *gin.RouterGroup) {
	group.POST("/blocks", h.handleCreateBlock)
	group.POST("/blocks/:num/commitments", h.handleSubmitCommitment)
	group.POST("/blocks/:num/collect-commitments", h.handleCollectCommitments)
	group.POST("/blocks/:num/close-commitments", h.handleCloseCommitments)
	group.POST("/blocks/:num/capture-frame", h.handleCaptureFrame)
	group.POST("/blocks/:num/open-reveals", h.handleOpenReveals)
	group.POST("/blocks/:num/reveals", h.handleSubmitReveal)
	group.POST("/blocks/:num/collect-reveals", h.handleCollectReveals)
	group.POST("/blocks/:num/close-reveals", h.handleCloseReveals)
	group.POST("/blocks/:num/finish", h.handleFinishBlock)
}

func writeOrchestratorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, block.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, orchestrator.ErrWrongPhase),
		errors.Is(err, orchestrator.ErrNoAnnouncementPost),
		errors.Is(err, block.ErrWrongPhase),
		errors.Is(err, block.ErrNotAcceptingEntries),
		errors.Is(err, block.ErrRevealsNotOpen),
		errors.Is(err, block.ErrDuplicateParticipant),
		errors.Is(err, block.ErrParticipantNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *blockHandler) handleCreateBlock(c *gin.Context) {
	var req struct {
		BlockNum           string    `json:"blockNum" binding:"required"`
		Description        string    `json:"description"`
		LivestreamURL      string    `json:"livestreamUrl"`
		TargetTimestamp    time.Time `json:"targetTimestamp" binding:"required"`
		CommitmentDeadline time.Time `json:"commitmentDeadline" binding:"required"`
		PrizePool          float64   `json:"prizePool" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.orch.CreateBlock(c.Request.Context(), req.BlockNum, req.Description, req.LivestreamURL,
		req.TargetTimestamp, req.CommitmentDeadline, req.PrizePool)
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *blockHandler) handleSubmitCommitment(c *gin.Context) {
	var req struct {
		SocialID   string `json:"socialId" binding:"required"`
		Username   string `json:"username"`
		Commitment string `json:"commitment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.orch.SubmitCommitment(c.Param("num"), req.SocialID, req.Username, req.Commitment)
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *blockHandler) handleCollectCommitments(c *gin.Context) {
	added, err := h.orch.CollectCommitments(c.Request.Context(), c.Param("num"))
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *blockHandler) handleCloseCommitments(c *gin.Context) {
	b, err := h.orch.CloseCommitments(c.Request.Context(), c.Param("num"))
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *blockHandler) handleCaptureFrame(c *gin.Context) {
	var req struct {
		FramePath string `json:"framePath" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.orch.CaptureFrame(c.Request.Context(), c.Param("num"), req.FramePath, time.Now().UTC())
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *blockHandler) handleOpenReveals(c *gin.Context) {
	var req struct {
		RevealsDeadline time.Time `json:"revealsDeadline" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.orch.OpenReveals(c.Request.Context(), c.Param("num"), req.RevealsDeadline)
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *blockHandler) handleSubmitReveal(c *gin.Context) {
	var req struct {
		SocialID string `json:"socialId" binding:"required"`
		Text     string `json:"text" binding:"required"`
		Salt     string `json:"salt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.orch.SubmitReveal(c.Param("num"), req.SocialID, req.Text, req.Salt)
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *blockHandler) handleCollectReveals(c *gin.Context) {
	recorded, err := h.orch.CollectReveals(c.Request.Context(), c.Param("num"))
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": recorded})
}

func (h *blockHandler) handleCloseReveals(c *gin.Context) {
	b, err := h.orch.CloseReveals(c.Request.Context(), c.Param("num"))
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *blockHandler) handleFinishBlock(c *gin.Context) {
	b, err := h.orch.FinishBlock(c.Request.Context(), c.Param("num"))
	if err != nil {
		writeOrchestratorError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

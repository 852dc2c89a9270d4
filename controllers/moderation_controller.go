package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/services"
	"github.com/cppla/discuss/utils"
)

// ModerationController handles filing reports and the moderator queue.
type ModerationController struct {
	moderation *services.ModerationService
	guard      *utils.ReportGuard
}

// NewModerationController creates a new ModerationController instance. A nil
// guard disables the per-user report limit.
func NewModerationController(moderation *services.ModerationService, guard *utils.ReportGuard) *ModerationController {
	return &ModerationController{moderation: moderation, guard: guard}
}

// reportCaller binds the request and applies the flood guard. It writes the
// error response itself and returns ok=false when the handler must stop.
func (m *ModerationController) reportCaller(ctx *gin.Context) (id uint, reason, user string, ok bool) {
	if id, ok = parseID(ctx, "id"); !ok {
		return
	}
	var req reportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return 0, "", "", false
	}
	if user, ok = currentUser(ctx); !ok {
		return
	}
	if !m.guard.Allow(ctx.Request.Context(), user) {
		utils.Error(ctx, http.StatusTooManyRequests, 42902, "too many reports, try again later")
		return 0, "", "", false
	}
	return id, req.Reason, user, true
}

// CreateReport files a report against a discussion.
func (m *ModerationController) CreateReport(ctx *gin.Context) {
	id, reason, user, ok := m.reportCaller(ctx)
	if !ok {
		return
	}
	report, err := m.moderation.CreateReport(ctx.Request.Context(), id, reason, user)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"report": report})
}

// CreateReportAnswer files a report against an answer.
func (m *ModerationController) CreateReportAnswer(ctx *gin.Context) {
	id, reason, user, ok := m.reportCaller(ctx)
	if !ok {
		return
	}
	report, err := m.moderation.CreateReportAnswer(ctx.Request.Context(), id, reason, user)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"report": report})
}

// CreateReportComment files a report against a comment.
func (m *ModerationController) CreateReportComment(ctx *gin.Context) {
	id, reason, user, ok := m.reportCaller(ctx)
	if !ok {
		return
	}
	report, err := m.moderation.CreateReportComment(ctx.Request.Context(), id, reason, user)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"report": report})
}

// ListReports returns every report of the kind in the path.
func (m *ModerationController) ListReports(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}

	var (
		items interface{}
		total int
		err   error
	)
	switch kind {
	case models.ReportKindDiscussion:
		var list []models.Report
		list, err = m.moderation.ListReports(ctx.Request.Context())
		items, total = list, len(list)
	case models.ReportKindAnswer:
		var list []models.ReportAnswer
		list, err = m.moderation.ListReportsForAnswers(ctx.Request.Context())
		items, total = list, len(list)
	case models.ReportKindComment:
		var list []models.ReportComment
		list, err = m.moderation.ListReportsForComments(ctx.Request.Context())
		items, total = list, len(list)
	}
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"kind": kind, "items": items, "total": total})
}

// ListPending returns the moderator work queue.
func (m *ModerationController) ListPending(ctx *gin.Context) {
	pending, err := m.moderation.ListPendingReports(ctx.Request.Context())
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"pending": pending, "total": pending.Total()})
}

// GetReport returns one report.
func (m *ModerationController) GetReport(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	report, found, err := m.moderation.GetReportByID(ctx.Request.Context(), kind, id)
	if err != nil {
		renderError(ctx, err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40404, "report not found")
		return
	}
	utils.Success(ctx, gin.H{"report": report})
}

// ResolveReport accepts or rejects a pending report. Body: {"status": "ACCEPTED"}.
func (m *ModerationController) ResolveReport(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	status, err := models.ParseReportStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, err.Error())
		return
	}

	res, err := m.moderation.ResolveReport(ctx.Request.Context(), kind, id, status)
	if err != nil {
		renderError(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

func parseKind(ctx *gin.Context) (models.ReportKind, bool) {
	kind, err := models.ParseReportKind(strings.ToLower(ctx.Param("kind")))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, err.Error())
		return "", false
	}
	return kind, true
}

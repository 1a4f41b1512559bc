package reports

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/features/reviews"
	"github.com/taskhive/taskhive-api/internal/features/services"
	"github.com/taskhive/taskhive-api/internal/pkg/cache"
	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
	"github.com/taskhive/taskhive-api/internal/pkg/logger"
	"github.com/taskhive/taskhive-api/internal/pkg/pagination"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

const analyticsCacheKey = "reports:analytics"
const analyticsCacheTTL = 5 * time.Minute

type Handler struct {
	repo        *Repository
	userRepo    *auth.Repository
	reviewRepo  *reviews.Repository
	serviceRepo *services.Repository
	cache       *cache.Cache
}

func NewHandler(repo *Repository, userRepo *auth.Repository, reviewRepo *reviews.Repository, serviceRepo *services.Repository, c *cache.Cache) *Handler {
	return &Handler{
		repo:        repo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		serviceRepo: serviceRepo,
		cache:       c,
	}
}

// CreateReport godoc
// @Summary File a report
// @Description Accepts user, review and service reports; priority and category are assigned automatically
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReportRequest true "Report"
// @Success 201 {object} response.APIResponse{data=Report}
// @Failure 400 {object} response.APIResponse
// @Router /reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	target, err := ValidateCreate(&req)
	if err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	if err := h.verifyTarget(c, req.ReportType, target); err != nil {
		response.BadRequest(c, err.Error(), "UNKNOWN_TARGET")
		return
	}

	priority, category := Classify(req.Reason, req.Severity)

	report := &Report{
		ReporterID:        user.ID,
		ReporterRole:      user.Role,
		ReportType:        req.ReportType,
		Reason:            req.Reason,
		CustomReason:      req.CustomReason,
		Description:       req.Description,
		Severity:          req.Severity,
		Evidence:          req.Evidence,
		ReportedUserID:    target.userID,
		ReportedUserType:  target.userType,
		ReportedReviewID:  target.reviewID,
		ReviewIssue:       req.ReviewIssue,
		ReportedServiceID: target.serviceID,
		ServiceIssue:      req.ServiceIssue,
		Priority:          priority,
		PriorityRank:      PriorityRank(priority),
		Category:          category,
	}
	fileref.Stamp(report.Evidence, time.Now())

	if err := h.repo.Create(c.Request.Context(), report); err != nil {
		logger.Error("report create failed: %v", err)
		response.DatabaseError(c, "Failed to create report")
		return
	}

	h.invalidateAnalytics(c)
	response.Created(c, report)
}

func (h *Handler) verifyTarget(c *gin.Context, reportType string, target *reportTarget) error {
	ctx := c.Request.Context()
	switch reportType {
	case TypeUser:
		if _, err := h.userRepo.GetUserByOID(ctx, *target.userID); err != nil {
			return errors.New("reported user does not exist")
		}
	case TypeReview:
		if _, err := h.reviewRepo.GetByID(ctx, *target.reviewID, false); err != nil {
			return errors.New("reported review does not exist")
		}
	case TypeService:
		if _, err := h.serviceRepo.GetByID(ctx, *target.serviceID, false); err != nil {
			return errors.New("reported service does not exist")
		}
	}
	return nil
}

// GetReport godoc
// @Summary Get a report
// @Description Reporters see their own reports; moderators see all
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id} [get]
func (h *Handler) GetReport(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID format", "INVALID_ID")
		return
	}

	report, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		return
	}

	if report.ReporterID != user.ID && !user.IsAdmin() {
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		return
	}

	// Internal notes stay with the moderation team.
	if !user.IsAdmin() {
		report.InternalNotes = nil
	}

	decorateOverdue(report, time.Now())
	response.Success(c, report)
}

// ListReports godoc
// @Summary List reports (moderation queue)
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param priority query string false "Priority"
// @Param type query string false "Report type"
// @Param investigatorId query string false "Investigator ID"
// @Param escalated query bool false "Escalated only"
// @Param from query string false "Created after (RFC 3339)"
// @Param to query string false "Created before (RFC 3339)"
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData}
// @Router /reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	var query ReportListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_QUERY")
		return
	}

	reports, total, err := h.repo.List(c.Request.Context(), &query, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			response.BadRequest(c, "Invalid filter value", "INVALID_QUERY")
			return
		}
		logger.Error("report list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch reports")
		return
	}

	now := time.Now()
	for i := range reports {
		decorateOverdue(&reports[i], now)
	}

	response.Paginated(c, reports, total, query.Limit, query.Page)
}

// GetMyReports godoc
// @Summary List own filed reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData}
// @Router /reports/mine [get]
func (h *Handler) GetMyReports(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	page, limit := pagination.Parse(c.Query("page"), c.Query("limit"))

	reports, total, err := h.repo.ListByReporter(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		logger.Error("own report list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch reports")
		return
	}

	for i := range reports {
		reports[i].InternalNotes = nil
	}

	response.Paginated(c, reports, total, limit, page)
}

// AssignInvestigator godoc
// @Summary Assign an investigator
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body AssignInvestigatorRequest true "Assignment"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id}/assign [post]
func (h *Handler) AssignInvestigator(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req AssignInvestigatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	investigatorID, err := primitive.ObjectIDFromHex(req.InvestigatorID)
	if err != nil {
		response.BadRequest(c, "Invalid investigator ID format", "INVALID_ID")
		return
	}
	if _, err := h.userRepo.GetUserByOID(c.Request.Context(), investigatorID); err != nil {
		response.BadRequest(c, "Investigator does not exist", "UNKNOWN_INVESTIGATOR")
		return
	}

	if err := h.repo.AssignInvestigator(c.Request.Context(), id, investigatorID); err != nil {
		h.stateError(c, err, "Failed to assign investigator")
		return
	}

	h.invalidateAnalytics(c)
	h.respondWithReport(c, id)
}

// Escalate godoc
// @Summary Escalate a report
// @Description Raises priority to at least high; urgent is never downgraded
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body EscalateRequest true "Escalation"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id}/escalate [post]
func (h *Handler) Escalate(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req EscalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	escalatedTo, err := primitive.ObjectIDFromHex(req.EscalatedTo)
	if err != nil {
		response.BadRequest(c, "Invalid escalation target ID format", "INVALID_ID")
		return
	}
	if _, err := h.userRepo.GetUserByOID(c.Request.Context(), escalatedTo); err != nil {
		response.BadRequest(c, "Escalation target does not exist", "UNKNOWN_TARGET")
		return
	}

	report, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		return
	}

	newPriority := EscalatedPriority(report.Priority)
	if err := h.repo.Escalate(c.Request.Context(), id, escalatedTo, req.Reason, newPriority); err != nil {
		h.stateError(c, err, "Failed to escalate report")
		return
	}

	h.invalidateAnalytics(c)
	h.respondWithReport(c, id)
}

// Resolve godoc
// @Summary Resolve a report
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body ResolveRequest true "Resolution"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id}/resolve [post]
func (h *Handler) Resolve(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	now := time.Now()
	actions := make([]ResolutionAction, 0, len(req.Actions))
	for _, a := range req.Actions {
		actions = append(actions, ResolutionAction{
			ActionType:  a.ActionType,
			Description: a.Description,
			Duration:    a.Duration,
			ExecutedBy:  user.ID,
			ExecutedAt:  now,
		})
	}

	followUpRequired := RequiresFollowUp(req.ResolutionType)
	var followUpDate *time.Time
	if followUpRequired {
		followUpDate = FollowUpDate(req.ResolutionType, actions, now)
	}

	if err := h.repo.Resolve(c.Request.Context(), id, req.ResolutionType, req.ResolutionSummary, actions, followUpRequired, followUpDate); err != nil {
		h.stateError(c, err, "Failed to resolve report")
		return
	}

	h.invalidateAnalytics(c)
	h.respondWithReport(c, id)
}

// AddInternalNote godoc
// @Summary Add an internal note
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body AddNoteRequest true "Note"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id}/notes [post]
func (h *Handler) AddInternalNote(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	note := InternalNote{
		AuthorID:  user.ID,
		Content:   req.Content,
		Category:  req.Category,
		IsPrivate: req.IsPrivate,
		CreatedAt: time.Now(),
	}

	if err := h.repo.AddInternalNote(c.Request.Context(), id, note); err != nil {
		h.stateError(c, err, "Failed to add note")
		return
	}

	response.Success(c, note, "Note added")
}

// RelateReports godoc
// @Summary Link related reports
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body RelateReportsRequest true "Related report IDs"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id}/related [post]
func (h *Handler) RelateReports(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req RelateReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	relatedIDs := make([]primitive.ObjectID, 0, len(req.ReportIDs))
	for _, raw := range req.ReportIDs {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.BadRequest(c, "Invalid related report ID format", "INVALID_ID")
			return
		}
		if oid != id {
			relatedIDs = append(relatedIDs, oid)
		}
	}

	if err := h.repo.RelateReports(c.Request.Context(), id, relatedIDs); err != nil {
		h.stateError(c, err, "Failed to link reports")
		return
	}

	response.Success(c, nil, "Reports linked")
}

// UpdateStatus godoc
// @Summary Move a report to requires_more_info or dismissed
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body object true "Status"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=requires_more_info dismissed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	if err := h.repo.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		h.stateError(c, err, "Failed to update status")
		return
	}

	h.invalidateAnalytics(c)
	h.respondWithReport(c, id)
}

// DeleteReport godoc
// @Summary Delete a report (soft)
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id} [delete]
func (h *Handler) DeleteReport(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	report, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		return
	}
	if report.ReporterID != user.ID && !user.IsAdmin() {
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), id, user.ID); err != nil {
		h.stateError(c, err, "Failed to delete report")
		return
	}

	h.invalidateAnalytics(c)
	response.Success(c, nil, "Report deleted")
}

// GetUnassigned godoc
// @Summary List unassigned pending reports
// @Description Sorted urgent first, then oldest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param priority query string false "Priority filter"
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData}
// @Router /reports/unassigned [get]
func (h *Handler) GetUnassigned(c *gin.Context) {
	var query ReportListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_QUERY")
		return
	}

	reports, total, err := h.repo.Unassigned(c.Request.Context(), query.Priority, query.Page, query.Limit)
	if err != nil {
		logger.Error("unassigned list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch reports")
		return
	}

	now := time.Now()
	for i := range reports {
		decorateOverdue(&reports[i], now)
	}

	response.Paginated(c, reports, total, query.Limit, query.Page)
}

// GetOverdue godoc
// @Summary List overdue reports
// @Description Open reports past their priority's handling window
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]Report}
// @Router /reports/overdue [get]
func (h *Handler) GetOverdue(c *gin.Context) {
	reports, err := h.repo.Overdue(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error("overdue list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch reports")
		return
	}

	for i := range reports {
		reports[i].IsOverdue = true
	}

	response.Success(c, reports)
}

// GetAnalytics godoc
// @Summary Report analytics
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=Analytics}
// @Router /reports/analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	var cached Analytics
	if err := h.cache.GetJSON(c.Request.Context(), analyticsCacheKey, &cached); err == nil {
		response.Success(c, cached)
		return
	}

	analytics, err := h.repo.GetAnalytics(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error("report analytics failed: %v", err)
		response.DatabaseError(c, "Failed to compute analytics")
		return
	}

	if err := h.cache.SetJSON(c.Request.Context(), analyticsCacheKey, analytics, analyticsCacheTTL); err != nil {
		logger.Warn("analytics cache write failed: %v", err)
	}
	response.Success(c, analytics)
}

func (h *Handler) reportID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID format", "INVALID_ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) stateError(c *gin.Context, err error, message string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		return
	}
	logger.Error("%s: %v", message, err)
	response.DatabaseError(c, message)
}

func (h *Handler) respondWithReport(c *gin.Context, id primitive.ObjectID) {
	report, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch report")
		return
	}
	decorateOverdue(report, time.Now())
	response.Success(c, report)
}

func (h *Handler) invalidateAnalytics(c *gin.Context) {
	if err := h.cache.Delete(c.Request.Context(), analyticsCacheKey); err != nil {
		logger.Warn("analytics cache invalidation failed: %v", err)
	}
}

// decorateOverdue derives the overdue flag for responses. Only open reports
// can be overdue.
func decorateOverdue(report *Report, now time.Time) {
	if report.Status == StatusPending || report.Status == StatusUnderInvestigation {
		report.IsOverdue = IsOverdue(report.Priority, report.CreatedAt, now)
	}
}

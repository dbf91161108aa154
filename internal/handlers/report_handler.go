package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/services"
)

type ReportHandler struct {
	conversations services.ConversationService
	mailer        *services.ReportMailer
}

// NewReportHandler wires abuse report intake and the admin report queue.
// mailer may be nil or unconfigured; notification is best-effort either way.
func NewReportHandler(conversations services.ConversationService, mailer *services.ReportMailer) *ReportHandler {
	return &ReportHandler{conversations: conversations, mailer: mailer}
}

func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.ConversationID == "" || req.Report == nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing conversationId or report data"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	report, err := h.conversations.SubmitReport(ctx, req.ConversationID, req.Report)
	if err != nil {
		log.Printf("[SubmitReport] conversation=%s error=%v", req.ConversationID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit report"))
		return
	}

	if h.mailer != nil && h.mailer.Configured() {
		go func(conversationID string, rep models.Report) {
			notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer notifyCancel()
			if err := h.mailer.NotifyReport(notifyCtx, conversationID, &rep); err != nil {
				log.Printf("[SubmitReport] notify error conversation=%s: %v", conversationID, err)
			}
		}(req.ConversationID, *report)
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("report", report)))
}

func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	reports, err := h.conversations.AllReports(ctx)
	if err != nil {
		log.Printf("[ListReports] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load reports"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("reports", reports)))
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"billcalls/backend/services/calls-service/internal/http/middleware"
	"billcalls/backend/services/calls-service/internal/models"
	"billcalls/backend/services/calls-service/internal/service"
)

// CallRecorder is the part of the call log service used by the handler.
type CallRecorder interface {
	Record(ctx context.Context, input service.RecordInput) (*models.CallLog, error)
}

// CallLogHandler handles call start/end events.
type CallLogHandler struct {
	recorder CallRecorder
	logger   *zap.Logger
}

// NewCallLogHandler builds handler.
func NewCallLogHandler(recorder CallRecorder, logger *zap.Logger) *CallLogHandler {
	return &CallLogHandler{
		recorder: recorder,
		logger:   logger,
	}
}

type callLogRequest struct {
	Type        string      `json:"type"`
	Timestamp   string      `json:"timestamp"`
	CallID      json.Number `json:"call_id"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
}

type callLogResponse struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Type        string    `json:"type"`
	CallID      int64     `json:"call_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// ServeHTTP handles POST /call-log.
func (h *CallLogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req callLogRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var problems []string
	input := service.RecordInput{
		Type:        strings.TrimSpace(req.Type),
		Source:      strings.TrimSpace(req.Source),
		Destination: strings.TrimSpace(req.Destination),
	}
	if req.CallID != "" {
		callID, err := req.CallID.Int64()
		if err != nil {
			problems = append(problems, "The 'call_id' field must be an integer.")
		}
		input.CallID = callID
	}
	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			problems = append(problems, "Datetime has wrong format. Use RFC 3339, eg: 2016-02-29T12:00:00Z.")
		}
		input.Timestamp = parsed
	}
	if len(problems) > 0 {
		writeProblems(w, http.StatusBadRequest, problems)
		return
	}

	log, err := h.recorder.Record(r.Context(), input)
	if err != nil {
		h.writeRecordError(w, r, err, input)
		return
	}

	writeJSON(w, http.StatusCreated, callLogResponse{
		ID:          log.ID,
		Source:      log.Source,
		Destination: log.Destination,
		Type:        log.Type,
		CallID:      log.CallID,
		Timestamp:   log.Timestamp,
	})
}

func (h *CallLogHandler) writeRecordError(w http.ResponseWriter, r *http.Request, err error, input service.RecordInput) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblems(w, http.StatusBadRequest, verr.Problems)
	case errors.Is(err, service.ErrEndBeforeStart):
		writeError(w, http.StatusBadRequest, "The call end time cannot be earlier or equal than the start time.")
	case errors.Is(err, service.ErrNoStartRecord):
		writeError(w, http.StatusNotFound, "There is no start record for this call, the end of a call cannot be logged before it starts.")
	case errors.Is(err, service.ErrDuplicate):
		writeError(w, http.StatusConflict, "The fields 'type' and 'call_id' must make a unique set.")
	default:
		requestID, _ := middleware.RequestIDFromContext(r.Context())
		h.logger.Error("failed to record call event",
			zap.String("request_id", requestID),
			zap.Int64("call_id", input.CallID),
			zap.String("type", input.Type),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to record call event")
	}
}

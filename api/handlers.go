/*
handlers.go - HTTP API handlers for the shift calendar

PURPOSE:
  Exposes the calendar and the upload pipeline via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Uploads:
    POST   /api/uploads                 Submit a schedule photo (202)
    GET    /api/uploads                 List retained submissions
    GET    /api/uploads/{id}            Submission state
    POST   /api/uploads/{id}/resolve    Append, overwrite or cancel

  Days and weeks:
    GET    /api/days/{date}             One record
    PUT    /api/days/{date}             Set a work interval or rest label
    DELETE /api/days/{date}             Remove one record
    GET    /api/weeks/{date}            Seven days from date
    GET    /api/weeks/{date}/days/{wd}  One weekday of that week
    DELETE /api/weeks/{date}            Remove seven days from date

  Months and navigation:
    GET    /api/months/{month}          Records and totals for YYYY-MM
    GET    /api/calendar                Month cursor, wage, current totals
    POST   /api/calendar/month          Move or jump the month cursor
    PUT    /api/calendar/wage           Change the hourly wage

  Streaming:
    GET    /api/events                  SSE stream of calendar and upload events

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record or submission not found
  - 409: Invalid submission transition
  - 413: Upload exceeds MaxUpload
  - 415: Upload is not a PNG, JPEG or WebP image
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The service is meant for a single user.

SEE ALSO:
  - dto.go: Request/response data structures
  - sse.go: Event stream writer
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/pipeline"
	"github.com/warp/shift-calendar/shift"
)

// DefaultMaxUpload caps uploaded image size.
const DefaultMaxUpload = 20 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Calendar  *shift.Calendar
	Pipeline  *pipeline.Pipeline
	MaxUpload int64

	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new handler over the calendar and pipeline.
func NewHandler(cal *shift.Calendar, pipe *pipeline.Pipeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Calendar:  cal,
		Pipeline:  pipe,
		MaxUpload: DefaultMaxUpload,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// UPLOAD HANDLERS
// =============================================================================

// CreateUpload accepts a multipart "image" field or a raw body and starts
// recognition. With ?wait=true the response is sent once recognition ends.
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	data, err := h.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}

	sub, err := h.Pipeline.Submit(r.Context(), data)
	if err != nil {
		h.writeDomainError(w, r, "Upload rejected", err)
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		sub, err = h.Pipeline.Wait(r.Context(), sub.ID)
		if err != nil {
			h.writeDomainError(w, r, "Failed to wait for recognition", err)
			return
		}
		writeJSON(w, http.StatusOK, toSubmissionDTO(sub))
		return
	}

	writeJSON(w, http.StatusAccepted, toSubmissionDTO(sub))
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("missing image field: %w", err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// ListUploads returns retained submissions, oldest first.
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	subs := h.Pipeline.List()
	dtos := make([]SubmissionDTO, len(subs))
	for i, s := range subs {
		dtos[i] = toSubmissionDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUpload returns one submission.
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	sub, err := h.Pipeline.Get(id)
	if err != nil {
		h.writeDomainError(w, r, "Submission not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionDTO(sub))
}

// ResolveUpload applies the user's answer to a week conflict.
func (h *Handler) ResolveUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req ResolveRequest
	if !h.decode(w, r, &req) {
		return
	}
	choice, err := pipeline.ParseChoice(req.Choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid choice", err)
		return
	}

	sub, err := h.Pipeline.Resolve(r.Context(), id, choice)
	if err != nil {
		h.writeDomainError(w, r, "Failed to resolve submission", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionDTO(sub))
}

// =============================================================================
// DAY AND WEEK HANDLERS
// =============================================================================

// GetDay returns the record for a date.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, r)
	if !ok {
		return
	}
	rec, err := h.Calendar.Record(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get day", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No record for date", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(*rec))
}

// PutDay sets a work interval or a rest label on a date.
func (h *Handler) PutDay(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, r)
	if !ok {
		return
	}
	var req SetDayRequest
	if !h.decode(w, r, &req) {
		return
	}

	var err error
	if req.Label != "" {
		label, _ := shift.ParseRestLabel(req.Label)
		err = h.Calendar.SetRestDay(r.Context(), date, label)
	} else {
		err = h.Calendar.SetWorkDay(r.Context(), date, req.Start, req.End)
	}
	if err != nil {
		h.writeDomainError(w, r, "Failed to set day", err)
		return
	}

	rec, err := h.Calendar.Record(r.Context(), date)
	if err != nil || rec == nil {
		h.writeDomainError(w, r, "Failed to read day back", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(*rec))
}

// DeleteDay removes the record for a date.
func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, r)
	if !ok {
		return
	}
	removed, err := h.Calendar.RemoveDay(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, r, "Failed to remove day", err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "No record for date", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetWeek returns the seven days starting at date.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDate(w, r)
	if !ok {
		return
	}
	records, err := h.Calendar.Week(r.Context(), start)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get week", err)
		return
	}
	writeJSON(w, http.StatusOK, WeekDTO{
		WeekStart: start.String(),
		Contains:  len(records) > 0,
		Days:      weekDays(start, records),
	})
}

// GetWeekDay returns the record for one weekday of the week starting at date.
func (h *Handler) GetWeekDay(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDate(w, r)
	if !ok {
		return
	}
	weekday, ok := shift.ParseWeekday(chi.URLParam(r, "weekday"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid weekday",
			fmt.Errorf("unknown weekday %q", chi.URLParam(r, "weekday")))
		return
	}
	rec, err := h.Calendar.Record(r.Context(), weekday.DateIn(start))
	if err != nil {
		h.writeDomainError(w, r, "Failed to get day", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No record for weekday", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(*rec))
}

// DeleteWeek removes the seven days starting at date. Idempotent.
func (h *Handler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDate(w, r)
	if !ok {
		return
	}
	if err := h.Calendar.RemoveWeek(r.Context(), start); err != nil {
		h.writeDomainError(w, r, "Failed to remove week", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// MONTH AND CALENDAR HANDLERS
// =============================================================================

// GetMonth returns the records and totals of a month.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := generic.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM", err)
		return
	}
	dto, err := h.monthDTO(r, month)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get month", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) monthDTO(r *http.Request, month generic.TimePoint) (MonthDTO, error) {
	records, err := h.Calendar.MonthRecords(r.Context(), month)
	if err != nil {
		return MonthDTO{}, err
	}
	return MonthDTO{
		Month:   month.MonthString(),
		Records: toRecordDTOs(records),
		Summary: toSummaryDTO(shift.Summarize(month, records)),
	}, nil
}

// GetCalendar returns the month cursor, the wage and the cursor month's totals.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	h.writeCalendar(w, r)
}

// ChangeMonth moves the cursor by an offset or jumps to a month.
func (h *Handler) ChangeMonth(w http.ResponseWriter, r *http.Request) {
	var req ChangeMonthRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Month != "" {
		month, err := generic.ParseMonth(req.Month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM", err)
			return
		}
		h.Calendar.JumpToMonth(month)
	} else {
		h.Calendar.ChangeMonth(*req.Offset)
	}
	h.writeCalendar(w, r)
}

// SetWage changes the hourly wage used for new records.
func (h *Handler) SetWage(w http.ResponseWriter, r *http.Request) {
	var req SetWageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Calendar.SetHourlyWage(req.HourlyWage); err != nil {
		h.writeDomainError(w, r, "Invalid hourly wage", err)
		return
	}
	h.writeCalendar(w, r)
}

func (h *Handler) writeCalendar(w http.ResponseWriter, r *http.Request) {
	month := h.Calendar.CurrentMonth()
	summary, err := h.Calendar.MonthSummary(r.Context(), month)
	if err != nil {
		h.writeDomainError(w, r, "Failed to summarize month", err)
		return
	}
	writeJSON(w, http.StatusOK, CalendarDTO{
		CurrentMonth: month.MonthString(),
		HourlyWage:   h.Calendar.HourlyWage(),
		Summary:      toSummaryDTO(summary),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "Validation failed",
				fmt.Errorf("field %s failed %s", verrs[0].Field(), verrs[0].Tag()))
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func parseDate(w http.ResponseWriter, r *http.Request) (generic.TimePoint, bool) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return generic.TimePoint{}, false
	}
	return date, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submission ID", err)
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, generic.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrInvalidTransition), errors.Is(err, generic.ErrWeekConflict):
		return http.StatusConflict
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

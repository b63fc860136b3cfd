package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"billcalls/backend/services/calls-service/internal/http/middleware"
	"billcalls/backend/services/calls-service/internal/service"
)

// InvoiceLister is the part of the invoice service used by the handler.
type InvoiceLister interface {
	ForPeriod(ctx context.Context, source, date string) ([]service.InvoiceView, error)
}

// NewCallInvoiceHandler returns GET /call-invoice/{source} handler.
func NewCallInvoiceHandler(lister InvoiceLister, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := r.PathValue("source")
		date := r.URL.Query().Get("date")

		invoices, err := lister.ForPeriod(r.Context(), source, date)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSourceRequired):
				writeError(w, http.StatusBadRequest, "You need to enter the calling phone number.")
			case errors.Is(err, service.ErrInvalidPeriod):
				writeError(w, http.StatusBadRequest, "The 'date' parameter must use the MMYYYY format, eg: 032018.")
			case errors.Is(err, service.ErrPeriodNotClosed):
				writeError(w, http.StatusBadRequest, "You cannot request an invoice for a month that is not yet completed.")
			case errors.Is(err, service.ErrNoInvoices):
				writeError(w, http.StatusNotFound, "no invoices found")
			default:
				requestID, _ := middleware.RequestIDFromContext(r.Context())
				subject, _ := middleware.SubjectFromContext(r.Context())
				logger.Error("failed to load invoices",
					zap.String("request_id", requestID),
					zap.String("subject", subject),
					zap.String("source", source),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "failed to load invoices")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"invoices": invoices,
		})
	}
}

package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bojrates/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type GetRateResponse struct {
	Source string          `json:"source" example:"USD"`
	Target string          `json:"target" example:"GBP"`
	Date   string          `json:"date,omitempty" example:"2022-06-01"`
	Kind   string          `json:"kind" example:"selling_rate"`
	Rate   decimal.Decimal `json:"rate" example:"1.2406"`
}

// GetRate godoc
// @Summary Get exchange rate between two currencies
// @Description Rate for converting the source currency into the target currency, triangulated over JMD counter rates
// @Tags Rates
// @Produce json
// @Param source path string true "Source ISO 4217 code"
// @Param target path string true "Target ISO 4217 code"
// @Param date query string false "Quote date (YYYY-MM-DD); defaults to the latest ingested day"
// @Param kind query string false "Rate kind" Enums(selling_rate, cash_buying_rate, cheque_buying_rate)
// @Success 200 {object} GetRateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/{source}/{target} [get]
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	source := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "source")))
	target := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "target")))

	if err := h.validator.ValidateCodes(source, target); err != nil {
		h.metrics.RateRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		h.metrics.RateRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	kind, err := domain.ParseRateKind(r.URL.Query().Get("kind"))
	if err != nil {
		h.metrics.RateRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, err := h.provider.Rate(r.Context(), source, target, date, kind)
	if err != nil {
		h.metrics.RateRequestsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrRateUnavailable) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		msg := "ups, couldn't get the rate this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRate", "source": source, "target": target}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	h.metrics.RateRequestsTotal.WithLabelValues("ok").Inc()
	res := GetRateResponse{
		Source: source,
		Target: target,
		Kind:   string(kind),
		Rate:   value,
	}
	if !date.IsZero() {
		res.Date = date.Format(time.DateOnly)
	}
	writeJSON(w, http.StatusOK, res)
}

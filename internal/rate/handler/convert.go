package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bojrates/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ConvertRequest struct {
	Amount string `json:"amount" example:"1000"`
	Source string `json:"source" example:"USD"`
	Target string `json:"target" example:"JMD"`
	Date   string `json:"date,omitempty" example:"2022-06-01"`
	Kind   string `json:"kind,omitempty" example:"selling_rate"`
}

type ConvertResponse struct {
	Source    string          `json:"source" example:"USD"`
	Target    string          `json:"target" example:"JMD"`
	Kind      string          `json:"kind" example:"selling_rate"`
	Rate      decimal.Decimal `json:"rate" example:"155.8292"`
	Amount    decimal.Decimal `json:"amount" example:"1000"`
	Converted decimal.Decimal `json:"converted" example:"155829.20"`
}

// Convert godoc
// @Summary Convert an amount between currencies
// @Tags Conversions
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /conversions [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req ConvertRequest
	if err := dec.Decode(&req); err != nil {
		h.metrics.ConversionRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source := strings.ToUpper(strings.TrimSpace(req.Source))
	target := strings.ToUpper(strings.TrimSpace(req.Target))

	if err := h.validator.ValidateCodes(source, target); err != nil {
		h.metrics.ConversionRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		h.metrics.ConversionRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		h.metrics.ConversionRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	kind, err := domain.ParseRateKind(req.Kind)
	if err != nil {
		h.metrics.ConversionRequestsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.converter.Convert(r.Context(), target, amount, source, date, kind)
	if err != nil {
		h.metrics.ConversionRequestsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrRateUnavailable) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		msg := "ups, couldn't convert this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "source": source, "target": target}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	h.metrics.ConversionRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, ConvertResponse{
		Source:    source,
		Target:    target,
		Kind:      string(kind),
		Rate:      conv.Rate,
		Amount:    amount,
		Converted: conv.Amount,
	})
}

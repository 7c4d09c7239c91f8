package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"bojrates/internal/domain"
	"bojrates/internal/rate"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type LoadRatesRequest struct {
	StartDate string `json:"start_date,omitempty" example:"2022-06-01"`
	EndDate   string `json:"end_date,omitempty" example:"2022-06-03"`
}

type LoadRatesResponse struct {
	ExecID string `json:"exec_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
}

// LoadRates godoc
// @Summary Load counter rates from the BOJ website
// @Description Fetch and persist counter rates for the requested range; defaults to today
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body LoadRatesRequest false "Date range to load"
// @Success 200 {object} LoadRatesResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/loads [post]
func (h *Handler) LoadRates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	// an empty body means "load today"
	var req LoadRatesRequest
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dateRange := rate.TodayRange(time.Now())
	if req.StartDate != "" {
		var err error
		dateRange, err = rate.ParseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	execID := uuid.NewString()
	if err := h.loader.Load(r.Context(), execID, dateRange); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "LoadRates", "exec_id": execID}).Error("load rates failed")
		if errors.Is(err, domain.ErrFeedUnavailable) {
			writeError(w, http.StatusBadGateway, "rate feed unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load exchange rates")
		return
	}

	writeJSON(w, http.StatusOK, LoadRatesResponse{ExecID: execID})
}

package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type GetSupportedCodesResponse struct {
	Codes  []string `json:"codes" example:"USD,GBP,JMD"`
	Stored []string `json:"stored" example:"USD,GBP,JMD"`
}

// GetSupportedCodes godoc
// @Summary List supported currencies
// @Description All ISO codes accepted for conversion, plus the subset with rates actually stored
// @Tags Rates
// @Produce json
// @Success 200 {object} GetSupportedCodesResponse
// @Failure 500 {object} errorResponse
// @Router /rates/supported-currencies [get]
func (h *Handler) GetSupportedCodes(w http.ResponseWriter, r *http.Request) {
	stored, err := h.lister.DistinctCurrencies(r.Context())
	if err != nil {
		msg := "ups, couldn't list currencies this time"
		logrus.WithError(err).WithField("handler", "GetSupportedCodes").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, GetSupportedCodesResponse{
		Codes:  h.validator.SupportedCodes(),
		Stored: stored,
	})
}

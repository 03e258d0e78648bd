package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skystream/logistics-cloud/internal/domain/shipment"
	apperrors "github.com/skystream/logistics-cloud/pkg/errors"
)

// Handler wires the HTTP transport to the shipment domain.
type Handler struct {
	shipmentSvc shipment.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(shipmentSvc shipment.Service, logger *slog.Logger) *Handler {
	return &Handler{
		shipmentSvc: shipmentSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// CreatePrediction runs the full prediction pipeline for one shipment.
func (h *Handler) CreatePrediction(c *gin.Context) {
	var req shipment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	snap, err := h.shipmentSvc.Predict(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, predictionError(err))
		return
	}

	c.JSON(http.StatusOK, snap)
}

// CurrentPrediction returns the latest published snapshot with the
// animation cursor evaluated at the progress query parameter.
func (h *Handler) CurrentPrediction(c *gin.Context) {
	progress := 0.0
	if raw := c.Query("progress"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "progress must be a number", err))
			return
		}
		progress = parsed
	}

	snap, ok, err := h.shipmentSvc.Current(c.Request.Context(), progress)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "snapshot_error", errMessage(err), err))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "no_prediction", "no prediction has been published yet", nil))
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ListWarehouses feeds the dashboard dropdowns.
func (h *Handler) ListWarehouses(c *gin.Context) {
	options, err := h.shipmentSvc.Warehouses(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "registry_error", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, options)
}

// predictionError translates the pipeline's tagged failures into HTTP
// statuses: bad selections are the user's to fix, remote failures
// surface as bad gateway so the dashboard can offer a retry.
func predictionError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "prediction_failed"
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "unknown_warehouse"):
		status = http.StatusBadRequest
		code = "unknown_warehouse"
	case apperrors.IsCode(err, "network_error"):
		status = http.StatusBadGateway
		code = "network_error"
	case apperrors.IsCode(err, "endpoint_error"):
		status = http.StatusBadGateway
		code = "endpoint_error"
	case apperrors.IsCode(err, "malformed_response"):
		status = http.StatusBadGateway
		code = "malformed_response"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

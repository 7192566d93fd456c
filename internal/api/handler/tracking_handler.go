package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/panelbunker/tracking-api/internal/core/ports"
)

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackings ports.TrackingService
	status    ports.StatusService
}

func NewTrackingHandler(trackings ports.TrackingService, status ports.StatusService) *TrackingHandler {
	return &TrackingHandler{trackings: trackings, status: status}
}

// Create handles POST /api/trackings.
//
// @Summary      Register a new tracking
// @Tags         trackings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTrackingRequest  true  "Tracking details"
// @Success      201   {object}  trackingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/trackings [post]
func (h *TrackingHandler) Create(c echo.Context) error {
	var req createTrackingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tracking, err := h.trackings.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toTrackingResponse(tracking))
}

// List handles GET /api/trackings.
//
// @Summary      List trackings
// @Tags         trackings
// @Produce      json
// @Param        q       query     string  false  "Substring match on tracking id, recipient or product"
// @Param        status  query     string  false  "Filter by status value"
// @Success      200     {object}  listTrackingsResponse
// @Router       /api/trackings [get]
func (h *TrackingHandler) List(c echo.Context) error {
	result, err := h.trackings.List(c.Request().Context(), ports.ListTrackingsFilter{
		Search: c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Stats handles GET /api/trackings/stats.
//
// @Summary      Tracking statistics
// @Tags         trackings
// @Produce      json
// @Success      200  {object}  statsResponse
// @Router       /api/trackings/stats [get]
func (h *TrackingHandler) Stats(c echo.Context) error {
	stats, err := h.trackings.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		Total:    stats.Total,
		Today:    stats.Today,
		ByStatus: toStatusCounts(stats.ByStatus),
	})
}

// Lookup handles GET /api/track/:trackingId — the public tracking page.
// An unknown id is an expected outcome: found=false with a 200, never an
// error.
//
// @Summary      Public tracking lookup
// @Tags         trackings
// @Produce      json
// @Param        trackingId  path      string  true  "Tracking id"
// @Success      200         {object}  lookupResponse
// @Failure      429         {object}  errorResponse
// @Router       /api/track/{trackingId} [get]
func (h *TrackingHandler) Lookup(c echo.Context) error {
	result, err := h.trackings.Lookup(c.Request().Context(), c.Param("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lookupResponse{
		Tracking: toTrackingResponse(result.Tracking),
		History:  toHistoryResponse(result.History),
		Found:    result.Found,
	})
}

// UpdateStatus handles PATCH /api/trackings/:trackingId/status.
//
// @Summary      Update tracking status
// @Tags         trackings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingId  path      string               true  "Tracking id"
// @Param        body        body      updateStatusRequest  true  "New status"
// @Success      200         {object}  trackingResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/trackings/{trackingId}/status [patch]
func (h *TrackingHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.status.UpdateStatus(c.Request().Context(), c.Param("trackingId"), req.NewStatus, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrackingResponse(updated))
}

// AddDelay handles POST /api/trackings/:trackingId/delay.
//
// @Summary      Add a delay to a tracking
// @Tags         trackings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingId  path      string           true  "Tracking id"
// @Param        body        body      addDelayRequest  true  "Delay details"
// @Success      200         {object}  trackingResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/trackings/{trackingId}/delay [post]
func (h *TrackingHandler) AddDelay(c echo.Context) error {
	var req addDelayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.status.AddDelay(c.Request().Context(), c.Param("trackingId"), req.Days, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrackingResponse(updated))
}

// EstimateRoute handles GET /api/routes/estimate.
//
// @Summary      Estimate delivery time between two countries
// @Tags         routes
// @Produce      json
// @Param        origin       query     string  true  "Origin country"
// @Param        destination  query     string  true  "Destination country"
// @Success      200          {object}  routeEstimateResponse
// @Failure      400          {object}  errorResponse
// @Router       /api/routes/estimate [get]
func (h *TrackingHandler) EstimateRoute(c echo.Context) error {
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")
	if origin == "" || destination == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin and destination are required")
	}

	est, err := h.trackings.EstimateRoute(c.Request().Context(), origin, destination)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, routeEstimateResponse{
		OriginCountry:      est.OriginCountry,
		DestinationCountry: est.DestinationCountry,
		EstimatedDays:      est.EstimatedDays,
		DeliveryDate:       est.DeliveryDate,
		RouteFound:         est.RouteFound,
	})
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"HealthPulse/internal/domain/models"
	"HealthPulse/internal/usecase"
	xhttp "HealthPulse/pkg/http"
	xlogger "HealthPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler implements the Echo-based HTTP surface for the dashboard.
type DashboardHandler struct {
	logger    *xlogger.Logger
	agg       *usecase.BundleAggregator
	directory *usecase.CountryDirectory
	view      *usecase.ViewController
}

func NewDashboardHandler(
	l *xlogger.Logger,
	agg *usecase.BundleAggregator,
	directory *usecase.CountryDirectory,
	view *usecase.ViewController,
) *DashboardHandler {
	return &DashboardHandler{logger: l, agg: agg, directory: directory, view: view}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/countries", h.Countries)
	g.GET("/indicators", h.IndicatorCatalog)
	g.GET("/bundle", h.Bundle)
	g.GET("/chart", h.Chart)
	g.GET("/export", h.Export)
	g.GET("/view", h.View)
	g.POST("/view", h.Select)

	e.GET("/ws/view", h.ViewSocket)
	e.GET("/healthz", h.Health)
}

// Countries serves the selector list.
func (h *DashboardHandler) Countries(c echo.Context) error {
	countries, err := h.directory.Countries(c.Request().Context())
	if err != nil {
		h.logger.Error("country list load failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("country list unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, countries)
}

// IndicatorCatalog serves the fixed metric catalog.
func (h *DashboardHandler) IndicatorCatalog(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.Indicators())
}

// Bundle serves the complete indicator bundle for one country.
func (h *DashboardHandler) Bundle(c echo.Context) error {
	req := &models.BundleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bundle, err := h.agg.GetBundle(c.Request().Context(), req.Country)
	if err != nil {
		return h.fetchErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, bundle)
}

// ChartResponse is the merged row set for one chart query.
type ChartResponse struct {
	Metric         models.Indicator  `json:"metric"`
	Country        string            `json:"country"`
	CompareCountry string            `json:"compare_country,omitempty"`
	CompareEnabled bool              `json:"compare_enabled"`
	Rows           []models.ChartRow `json:"rows"`
}

// Chart serves merged chart rows for a country (optionally versus another).
func (h *DashboardHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	resp, _, err := h.buildChart(c.Request().Context(), req.Country, req.Compare, req.Metric)
	if err != nil {
		return h.chartErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, resp)
}

// Export serves the current chart rows as a CSV download.
func (h *DashboardHandler) Export(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	resp, metric, err := h.buildChart(ctx, req.Country, req.Compare, req.Metric)
	if err != nil {
		return h.chartErrorResponse(c, err)
	}

	primaryName := h.directory.CountryName(ctx, req.Country)
	compareName := ""
	if resp.CompareEnabled {
		compareName = h.directory.CountryName(ctx, req.Compare)
	}

	export, err := usecase.BuildCSV(resp.Rows, metric, primaryName, compareName, resp.CompareEnabled)
	if err != nil {
		h.logger.Error("csv export failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("export failed").WithError(err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, export.Filename))
	return c.Blob(http.StatusOK, "text/csv", export.Data)
}

// View serves the current view-state snapshot.
func (h *DashboardHandler) View(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.view.Snapshot())
}

// Select applies selection changes and returns the immediate snapshot;
// loading flags report the fetch cycles now in flight.
func (h *DashboardHandler) Select(c echo.Context) error {
	req := &models.SelectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.view.Apply(req); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, h.view.Snapshot())
}

// Health reports liveness.
func (h *DashboardHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// buildChart assembles merged rows for one chart query. It never writes a
// response; failures come back as errors for the route handler to map.
func (h *DashboardHandler) buildChart(ctx context.Context, country, compare, metricKey string) (*ChartResponse, models.Indicator, error) {
	metric, ok := models.IndicatorByKey(metricKey)
	if !ok {
		return nil, models.Indicator{}, xhttp.NewAppError("ERR_UNKNOWN_METRIC", "metric",
			fmt.Sprintf("unknown metric %q", metricKey), http.StatusBadRequest)
	}

	primaryBundle, err := h.agg.GetBundle(ctx, country)
	if err != nil {
		return nil, models.Indicator{}, err
	}

	compareEnabled := compare != ""
	var compareSeries models.Series
	if compareEnabled {
		compareBundle, err := h.agg.GetBundle(ctx, compare)
		if err != nil {
			return nil, models.Indicator{}, err
		}
		compareSeries = compareBundle[metric.Key]
	}

	rows := usecase.MergeSeries(primaryBundle[metric.Key], compareSeries, compareEnabled)
	return &ChartResponse{
		Metric:         metric,
		Country:        country,
		CompareCountry: compare,
		CompareEnabled: compareEnabled,
		Rows:           rows,
	}, metric, nil
}

// chartErrorResponse writes exactly one error body for a failed chart
// build: the 400 for an unknown metric, or the upstream mapping.
func (h *DashboardHandler) chartErrorResponse(c echo.Context, err error) error {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return xhttp.AppErrorResponse(c, appErr)
	}
	return h.fetchErrorResponse(c, err)
}

func (h *DashboardHandler) fetchErrorResponse(c echo.Context, err error) error {
	h.logger.Error("bundle aggregation failed", xlogger.Error(err))

	var fetchErr *models.IndicatorFetchError
	if errors.As(err, &fetchErr) {
		return xhttp.AppErrorResponse(c,
			xhttp.UpstreamError(usecase.LoadFailureMessage).
				WithParam("country", fetchErr.Country).
				WithParam("indicator", fetchErr.Indicator).
				WithError(err))
	}
	return xhttp.AppErrorResponse(c, xhttp.UpstreamError(usecase.LoadFailureMessage).WithError(err))
}

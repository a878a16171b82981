package probe

import (
	"backend-probe/core/backend"
	"backend-probe/core/logger"
	"backend-probe/core/utils"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the probes over HTTP.
type Handler struct {
	service  *Service
	defaults RunOptions
}

// NewHandler creates a new HTTP handler. defaults fill in whatever a request
// leaves out.
func NewHandler(service *Service, defaults RunOptions) *Handler {
	return &Handler{service: service, defaults: defaults}
}

// RoundTripRequest is the body of POST /probe/roundtrip.
type RoundTripRequest struct {
	Table string      `json:"table"`
	Row   backend.Row `json:"row"`
}

// RegisterRoutes registers the probe routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/probe")
	group.Get("/", h.HandleRun)
	group.Get("/auth", h.HandleAuth)
	group.Get("/table", h.HandleTable)
	group.Post("/roundtrip", h.HandleRoundTrip)
	group.Get("/storage", h.HandleStorage)
}

// HandleRun runs every enabled stage.
// @Summary Run All Probes
// @Tags probe
// @Produce json
// @Param table query string false "Table to probe"
// @Param columns query string false "Comma separated columns"
// @Param roundtrip query bool false "Include the write round trip"
// @Success 200 {object} Report
// @Failure 503 {object} Report "Every stage failed"
// @Router /probe [get]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := h.defaults
	if t := c.Query("table"); t != "" {
		opts.Table = t
	}
	if cols := c.Query("columns"); cols != "" {
		opts.Columns = SplitColumns(cols)
	}
	if rt := c.Query("roundtrip"); rt != "" {
		opts.RoundTrip = utils.ToBool(rt)
	}

	l.Info("Running probes")
	report := h.service.Run(c.UserContext(), opts)

	status := fiber.StatusOK
	if report.AllFailed() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(report)
}

// HandleAuth runs the auth probe.
// @Summary Auth Probe
// @Tags probe
// @Produce json
// @Success 200 {object} Result
// @Router /probe/auth [get]
func (h *Handler) HandleAuth(c *fiber.Ctx) error {
	return respond(c, h.service.ProbeAuth(c.UserContext()))
}

// HandleTable runs the table probe.
// @Summary Table Probe
// @Tags probe
// @Produce json
// @Param table query string false "Table to probe"
// @Param columns query string false "Comma separated columns"
// @Success 200 {object} Result
// @Failure 400 {object} map[string]string
// @Router /probe/table [get]
func (h *Handler) HandleTable(c *fiber.Ctx) error {
	table := h.table(c.Query("table"))
	if table == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "table is required"})
	}

	columns := h.defaults.Columns
	if cols := c.Query("columns"); cols != "" {
		columns = SplitColumns(cols)
	}
	return respond(c, h.service.ProbeTable(c.UserContext(), table, columns))
}

// HandleRoundTrip runs the write round trip.
// @Summary Round Trip Probe
// @Tags probe
// @Accept json
// @Produce json
// @Param request body RoundTripRequest false "Table and sample row"
// @Success 200 {object} Result
// @Failure 400 {object} map[string]string
// @Router /probe/roundtrip [post]
func (h *Handler) HandleRoundTrip(c *fiber.Ctx) error {
	var req RoundTripRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	table := h.table(req.Table)
	if table == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "table is required"})
	}

	row := req.Row
	if len(row) == 0 {
		row = h.defaults.Sample
	}

	logger.WithRayID(h.service.logger, c).Info("Running round trip")
	return respond(c, h.service.ProbeRoundTrip(c.UserContext(), table, row))
}

// HandleStorage runs the storage probe.
// @Summary Storage Probe
// @Tags probe
// @Produce json
// @Success 200 {object} Result
// @Failure 404 {object} map[string]string "Storage not configured"
// @Router /probe/storage [get]
func (h *Handler) HandleStorage(c *fiber.Ctx) error {
	if !h.service.StorageEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "storage is not configured"})
	}
	return respond(c, h.service.ProbeStorage(c.UserContext()))
}

func (h *Handler) table(requested string) string {
	if requested != "" {
		return requested
	}
	if h.defaults.Table != "" {
		return h.defaults.Table
	}
	return h.service.cfg.Table
}

func respond(c *fiber.Ctx, r Result) error {
	status := fiber.StatusOK
	if r.Failed() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(r)
}

package status

import (
	"errors"

	"feed-sync/core/logger"
	"feed-sync/core/poller"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sync status.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/status", h.HandleStatus)
	app.Post("/sync", h.HandleTrigger)
	app.Get("/plan", h.HandlePlan)
	app.Get("/runs", h.HandleRuns)
}

// HandleStatus returns the poller state.
// @Summary Sync Status
// @Description Returns whether a pass is running, the last pass report and the poller counters.
// @Tags sync
// @Produce json
// @Success 200 {object} poller.Status "Poller Status"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleTrigger starts a pass in the background.
// @Summary Trigger Sync
// @Description Starts a sync pass now. Rejected while another pass holds the guard.
// @Tags sync
// @Produce json
// @Success 202 {object} map[string]string "Accepted"
// @Failure 409 {object} map[string]string "Pass already running"
// @Router /sync [post]
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Trigger(); err != nil {
		if errors.Is(err, poller.ErrPassRunning) {
			l.Info("Manual sync rejected, pass already running")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Manual sync failed to start", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Manual sync triggered")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// HandlePlan returns the decisions a pass would make right now.
// @Summary Sync Plan
// @Description Reads the feed and the deployment server inventory and returns the upload decisions without transferring anything.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.Plan "Plan"
// @Failure 502 {object} map[string]string "Upstream Error"
// @Router /plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.Context())
	if err != nil {
		l.Error("Plan failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(plan)
}

// HandleRuns returns the most recent passes.
// @Summary Run History
// @Description Lists finished sync passes, newest first.
// @Tags sync
// @Produce json
// @Param limit query int false "Number of runs (default 20, max 500)"
// @Success 200 {array} history.SyncRun "Runs"
// @Failure 404 {object} map[string]string "History disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.Runs(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		if errors.Is(err, ErrHistoryDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Run history query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(runs)
}

package handler

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"reagent-tracker/internal/features/units/domain"
	"reagent-tracker/internal/features/units/ports"
)

// ActorHeader carries the caller identity resolved by the upstream gateway.
const ActorHeader = "X-Actor"

// UnitHandler handles HTTP requests for reagent units.
type UnitHandler struct {
	lifecycle ports.LifecycleService
	queries   ports.QueryService
	exports   ports.ExportService
	admins    map[string]bool
}

// NewUnitHandler creates a new UnitHandler. admins lists the actor names allowed to
// run privileged operations.
func NewUnitHandler(lifecycle ports.LifecycleService, queries ports.QueryService, exports ports.ExportService, admins []string) *UnitHandler {
	h := &UnitHandler{
		lifecycle: lifecycle,
		queries:   queries,
		exports:   exports,
		admins:    make(map[string]bool, len(admins)),
	}
	for _, name := range admins {
		h.admins[name] = true
	}
	return h
}

// RegisterRoutes mounts every unit route on router.
func (h *UnitHandler) RegisterRoutes(router fiber.Router) {
	units := router.Group("/units")
	units.Post("/intake", h.Intake)
	units.Post("/checkout", h.Checkout)
	units.Post("/submit", h.Submit)
	units.Get("/", h.List)
	units.Get("/:key", h.Get)
	units.Get("/:key/history", h.History)

	router.Post("/codes/parse", h.ParseCode)

	admin := router.Group("/admin")
	admin.Patch("/units/:key", h.AdminEdit)
	admin.Delete("/units/:key", h.Delete)
	admin.Get("/export", h.Export)
}

func (h *UnitHandler) actor(c *fiber.Ctx) domain.Actor {
	name := strings.TrimSpace(c.Get(ActorHeader))
	return domain.Actor{Name: name, Admin: name != "" && h.admins[name]}
}

// IntakeRequest represents the request body for registering a unit.
type IntakeRequest struct {
	Code string `json:"code"`
}

// UnitRequest identifies a unit by scanned code or by key. Code wins when both are set.
type UnitRequest struct {
	Code  string `json:"code,omitempty"`
	Key   string `json:"key,omitempty"`
	Place string `json:"place,omitempty"`
}

func (r UnitRequest) resolveKey() (string, error) {
	if r.Code != "" {
		parsed, err := domain.ParseCode(r.Code)
		if err != nil {
			return "", err
		}
		return parsed.SerialNumber, nil
	}
	return strings.TrimSpace(r.Key), nil
}

// ListResponse is the body returned by GET /units.
type ListResponse struct {
	Count int           `json:"count"`
	Units []domain.Unit `json:"units"`
}

// Intake handles POST /units/intake.
// @Summary Register a unit
// @Description Decodes the scanned code and registers the unit in status Registered.
// @Tags Units
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor name"
// @Param request body IntakeRequest true "Scanned code"
// @Success 201 {object} domain.Unit
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /units/intake [post]
func (h *UnitHandler) Intake(c *fiber.Ctx) error {
	var req IntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	unit, err := h.lifecycle.Intake(c.UserContext(), req.Code, h.actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(unit)
}

// Checkout handles POST /units/checkout.
// @Summary Check out a unit
// @Description Moves a Registered unit to CheckedOut at the given place.
// @Tags Units
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor name"
// @Param request body UnitRequest true "Unit and destination"
// @Success 200 {object} domain.Unit
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /units/checkout [post]
func (h *UnitHandler) Checkout(c *fiber.Ctx) error {
	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	key, err := req.resolveKey()
	if err != nil {
		return writeError(c, err)
	}
	if key == "" {
		return badRequest(c, "code or key is required")
	}

	unit, err := h.lifecycle.Checkout(c.UserContext(), key, req.Place, h.actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(unit)
}

// Submit handles POST /units/submit.
// @Summary Submit a unit
// @Description Moves a CheckedOut unit to Submitted.
// @Tags Units
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor name"
// @Param request body UnitRequest true "Unit"
// @Success 200 {object} domain.Unit
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /units/submit [post]
func (h *UnitHandler) Submit(c *fiber.Ctx) error {
	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	key, err := req.resolveKey()
	if err != nil {
		return writeError(c, err)
	}
	if key == "" {
		return badRequest(c, "code or key is required")
	}

	unit, err := h.lifecycle.Submit(c.UserContext(), key, h.actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(unit)
}

// List handles GET /units.
// @Summary List units
// @Description Lists units in a view, filtered by exact field values and sorted by one field.
// @Tags Units
// @Produce json
// @Param view query string false "all, home, intake, egress, pending_submission, submitted"
// @Param status query string false "Status filter"
// @Param place query string false "Place filter"
// @Param key query string false "Key filter"
// @Param lotNumber query string false "Lot number filter"
// @Param productSize query string false "Product size filter"
// @Param expirationDate query string false "Expiration date filter (YYYY-MM-DD)"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Param history query bool false "Include history"
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /units [get]
func (h *UnitHandler) List(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	units, err := h.queries.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}

	if !c.QueryBool("history") {
		for i := range units {
			units[i] = units[i].WithoutHistory()
		}
	}
	return c.JSON(ListResponse{Count: len(units), Units: units})
}

func parseQuery(c *fiber.Ctx) (domain.Query, error) {
	view, err := domain.ParseView(c.Query("view"))
	if err != nil {
		return domain.Query{}, err
	}

	q := domain.Query{View: view, Filters: make(map[domain.Field]string)}
	for _, f := range domain.Fields {
		if v := c.Query(string(f)); v != "" {
			q.Filters[f] = v
		}
	}

	if s := c.Query("sort"); s != "" {
		field, err := domain.ParseField(s)
		if err != nil {
			return domain.Query{}, err
		}
		dir, err := domain.ParseDirection(c.Query("order"))
		if err != nil {
			return domain.Query{}, err
		}
		q.Sort = domain.Sort{Field: field, Direction: dir}
	}
	return q, nil
}

// Get handles GET /units/:key.
// @Summary Get a unit
// @Description Returns the unit with its full history.
// @Tags Units
// @Produce json
// @Param key path string true "Unit key"
// @Success 200 {object} domain.Unit
// @Failure 404 {object} ErrorResponse
// @Router /units/{key} [get]
func (h *UnitHandler) Get(c *fiber.Ctx) error {
	unit, err := h.queries.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(unit)
}

// History handles GET /units/:key/history.
// @Summary Get unit history
// @Description Returns the audit trail, oldest first unless order=desc.
// @Tags Units
// @Produce json
// @Param key path string true "Unit key"
// @Param order query string false "asc or desc"
// @Success 200 {array} domain.HistoryEntry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /units/{key}/history [get]
func (h *UnitHandler) History(c *fiber.Ctx) error {
	dir, err := domain.ParseDirection(c.Query("order"))
	if err != nil {
		return writeError(c, err)
	}

	entries, err := h.queries.HistoryFor(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}

	out := slices.Collect(entries)
	if out == nil {
		out = []domain.HistoryEntry{}
	}
	if dir == domain.Desc {
		slices.Reverse(out)
	}
	return c.JSON(out)
}

// ParseCode handles POST /codes/parse.
// @Summary Decode a scanned code
// @Description Decodes a 48-character code without registering anything.
// @Tags Codes
// @Accept json
// @Produce json
// @Param request body IntakeRequest true "Scanned code"
// @Success 200 {object} domain.ParsedCode
// @Failure 400 {object} ErrorResponse
// @Router /codes/parse [post]
func (h *UnitHandler) ParseCode(c *fiber.Ctx) error {
	var req IntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	parsed, err := domain.ParseCode(req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(parsed)
}

// AdminEditRequest represents the request body for an administrative correction.
type AdminEditRequest struct {
	Status *string `json:"status,omitempty"`
	Place  *string `json:"place,omitempty"`
}

// AdminEdit handles PATCH /admin/units/:key.
// @Summary Correct a unit
// @Description Overwrites status and/or place. Requires an admin actor.
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Actor header string true "Admin actor name"
// @Param key path string true "Unit key"
// @Param request body AdminEditRequest true "Fields to overwrite"
// @Success 200 {object} domain.Unit
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/units/{key} [patch]
func (h *UnitHandler) AdminEdit(c *fiber.Ctx) error {
	var req AdminEditRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	var edit domain.AdminEdit
	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return writeError(c, err)
		}
		edit.Status = &st
	}
	edit.Place = req.Place

	unit, err := h.lifecycle.AdminEdit(c.UserContext(), c.Params("key"), edit, h.actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(unit)
}

// Delete handles DELETE /admin/units/:key.
// @Summary Delete a unit
// @Description Permanently removes a unit and its history. Requires an admin actor.
// @Tags Admin
// @Param X-Actor header string true "Admin actor name"
// @Param key path string true "Unit key"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/units/{key} [delete]
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.UserContext(), c.Params("key"), h.actor(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Export handles GET /admin/export.
// @Summary Download the audit export
// @Description Returns an xlsx workbook with every unit and its history.
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse
// @Router /admin/export [get]
func (h *UnitHandler) Export(c *fiber.Ctx) error {
	data, err := h.exports.Export(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	name := "reagent-audit-" + strconv.FormatInt(time.Now().UTC().Unix(), 10) + ".xlsx"
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}

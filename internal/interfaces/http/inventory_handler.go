package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del kardex (protegido).
type InventoryHandler struct {
	uc            *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
	errorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment, errorWriter: errorWriter{log: log}}
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  receipt y withdrawal suman o restan quantity; adjustment fija el stock en quantity (solo admin o bodeguero).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "item_id, kind, quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if entity.MovementKind(in.Kind) == entity.MovementAdjustment {
		if role := GetRole(c); role != RoleAdmin && role != RoleBodeguero {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el ajuste requiere rol admin o bodeguero"})
		}
	}
	mov, err := h.uc.ApplyMovementFromRequest(c.Context(), userID, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// ListMovements godoc
// @Summary      Historial del kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id   query  string  false  "Artículo"
// @Param        kind      query  string  false  "receipt, withdrawal, adjustment, sale-issue, sale-reversal"
// @Param        actor_id  query  string  false  "Usuario"
// @Param        sale_id   query  string  false  "Venta"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        page      query  int     false  "Página (default 1)"
// @Param        per_page  query  int     false  "Tamaño de página (default 20, max 100)"
// @Success      200  {object}  dto.MovementPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q := dto.MovementQuery{
		ItemID:      c.Query("item_id"),
		Kind:        c.Query("kind"),
		ActorID:     c.Query("actor_id"),
		SaleID:      c.Query("sale_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		PageRequest: pageRequest(c),
	}
	out, err := h.uc.ListMovements(c.Context(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	mov, err := h.uc.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MovementFromEntity(mov))
}

// VerifyItem godoc
// @Summary      Conciliar stock contra el kardex
// @Description  Compara el stock guardado con la suma de deltas de sus movimientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.StockAuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/verify [get]
func (h *InventoryHandler) VerifyItem(c *fiber.Ctx) error {
	out, err := h.uc.VerifyItem(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Artículos en stock bajo con la cantidad sugerida para llegar a 2 × stock mínimo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

func pageRequest(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Page: c.QueryInt("page", 1), PerPage: c.QueryInt("per_page", dto.DefaultPerPage)}
}

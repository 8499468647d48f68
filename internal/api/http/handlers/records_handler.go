package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/ticketbot/internal/api/dto"
	"github.com/spec-kit/ticketbot/internal/domain"
	"github.com/spec-kit/ticketbot/internal/repository"
	apperrors "github.com/spec-kit/ticketbot/pkg/util/errorutil"
)

// RecordsHandler serves read-only views of stored records.
type RecordsHandler struct {
	tickets repository.TicketRepository
	servers repository.ServerRepository
	users   repository.UserRepository
}

// RecordsDependencies bundles repositories for the records handler.
type RecordsDependencies struct {
	TicketRepo repository.TicketRepository
	ServerRepo repository.ServerRepository
	UserRepo   repository.UserRepository
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler(deps RecordsDependencies) *RecordsHandler {
	return &RecordsHandler{tickets: deps.TicketRepo, servers: deps.ServerRepo, users: deps.UserRepo}
}

// GetTicket GET /records/tickets/:id.
func (h *RecordsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	ticket, err := h.tickets.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetServer GET /records/servers/:id.
func (h *RecordsHandler) GetServer(c *fiber.Ctx) error {
	serverID, err := parseSnowflake(c, "id")
	if err != nil {
		return err
	}
	cfg, err := h.servers.GetByID(c.UserContext(), serverID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServerResponse(cfg)})
}

// ListServerTickets GET /records/servers/:id/tickets?user_id=..|status=..
func (h *RecordsHandler) ListServerTickets(c *fiber.Ctx) error {
	serverID, err := parseSnowflake(c, "id")
	if err != nil {
		return err
	}

	var tickets []domain.Ticket
	switch {
	case c.Query("user_id") != "":
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid user_id", nil)
		}
		tickets, err = h.tickets.ListByUser(c.UserContext(), serverID, userID)
		if err != nil {
			return err
		}
	case c.Query("status") != "":
		status, ok := domain.ParseTicketStatus(c.Query("status"))
		if !ok {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": c.Query("status")})
		}
		tickets, err = h.tickets.ListByStatus(c.UserContext(), serverID, status)
		if err != nil {
			return err
		}
	default:
		return apperrors.NewValidationError("user_id or status required", nil)
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetUser GET /records/users/:id.
func (h *RecordsHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseSnowflake(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(profile)})
}

func parseSnowflake(c *fiber.Ctx, param string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+param, map[string]any{param: c.Params(param)})
	}
	return v, nil
}

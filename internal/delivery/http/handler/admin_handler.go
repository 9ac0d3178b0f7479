package handler

import (
	"context"
	"errors"

	"skill-hire/internal/delivery/http/dto"
	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/pkg/response"
	"skill-hire/internal/usecase/adminfeed"
	"skill-hire/internal/usecase/posting"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminFeedUsecase interface {
	ListAll(ctx context.Context) ([]notification.AdminNotification, error)
	Counts(ctx context.Context) (map[notification.AdminStatus]int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type ReconcileUsecase interface {
	Run(ctx context.Context) (posting.ReconcileReport, error)
}

type AdminHandler struct {
	feed       AdminFeedUsecase
	reconciler ReconcileUsecase
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func NewAdminHandler(f AdminFeedUsecase, r ReconcileUsecase) *AdminHandler {
	return &AdminHandler{feed: f, reconciler: r}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/notifications", h.Notifications)
	r.Patch("/notifications/:id", h.SetStatus)
	r.Post("/reconcile", h.Reconcile)
}

func (h *AdminHandler) Notifications(c fiber.Ctx) error {
	items, err := h.feed.ListAll(c.Context())
	if err != nil {
		return internalError(err)
	}
	counts, err := h.feed.Counts(c.Context())
	if err != nil {
		return internalError(err)
	}
	if items == nil {
		items = []notification.AdminNotification{}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AdminFeedResponse{Notifications: items, Counts: counts})
}

func (h *AdminHandler) SetStatus(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.feed.SetStatus(c.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, adminfeed.ErrInvalidStatus):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", map[string]string{"status": "status must be approved or rejected"}, err)
		case errors.Is(err, adminfeed.ErrNotificationNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
		default:
			return internalError(err)
		}
	}
	return response.Success(c, fiber.StatusOK, "Status updated", nil)
}

func (h *AdminHandler) Reconcile(c fiber.Ctx) error {
	if h.reconciler == nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Reconciliation is not enabled", nil, nil)
	}
	report, err := h.reconciler.Run(c.Context())
	if err != nil {
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

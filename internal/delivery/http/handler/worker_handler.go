package handler

import (
	"context"
	"errors"

	"skill-hire/internal/delivery/http/dto"
	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/domain/application"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/pkg/response"
	"skill-hire/internal/usecase/feed"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type WorkerFeedUsecase interface {
	List(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error)
	UnreadCount(ctx context.Context, workerID uuid.UUID) (int, error)
	Applications(ctx context.Context, workerID uuid.UUID) ([]application.Application, error)
	Respond(ctx context.Context, in feed.RespondInput) (feed.RespondResult, error)
}

type WorkerHandler struct {
	uc WorkerFeedUsecase
}

type respondRequest struct {
	JobID    string `json:"job_id"`
	Decision string `json:"decision"`
}

func NewWorkerHandler(uc WorkerFeedUsecase) *WorkerHandler {
	return &WorkerHandler{uc: uc}
}

func (h *WorkerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/notifications", h.Notifications)
	r.Post("/notifications/:id/respond", h.Respond)
	r.Get("/applications", h.Applications)
}

func (h *WorkerHandler) Notifications(c fiber.Ctx) error {
	workerID, err := currentWorker(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), workerID)
	if err != nil {
		return internalError(err)
	}
	unread, err := h.uc.UnreadCount(c.Context(), workerID)
	if err != nil {
		return internalError(err)
	}

	out := dto.WorkerFeedResponse{Notifications: items, Unread: unread}
	if len(items) == 0 {
		out.EmptyMessage = feed.EmptyMessage
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *WorkerHandler) Respond(c fiber.Ctx) error {
	workerID, err := currentWorker(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req respondRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", map[string]string{"job_id": "job_id must be a valid id"}, err)
	}

	res, err := h.uc.Respond(c.Context(), feed.RespondInput{
		NotificationID: id,
		JobID:          jobID,
		WorkerID:       workerID,
		Decision:       req.Decision,
	})
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrInvalidDecision):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", map[string]string{"decision": "decision must be accept or decline"}, err)
		case errors.Is(err, feed.ErrNotificationNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
		case errors.Is(err, feed.ErrAlreadyResponded):
			return middleware.NewAppError(fiber.StatusConflict, "Notification already responded", nil, err)
		case errors.Is(err, feed.ErrResponseInFlight):
			return middleware.NewAppError(fiber.StatusConflict, "Response already in progress", nil, err)
		default:
			return internalError(err)
		}
	}

	msg := "Job declined"
	if res.Status == notification.WorkerStatusAccepted {
		msg = "Job accepted"
	}
	return response.Success(c, fiber.StatusOK, msg, res)
}

func (h *WorkerHandler) Applications(c fiber.Ctx) error {
	workerID, err := currentWorker(c)
	if err != nil {
		return err
	}

	apps, err := h.uc.Applications(c.Context(), workerID)
	if err != nil {
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, apps)
}

func currentWorker(c fiber.Ctx) (uuid.UUID, error) {
	sess, err := currentSession(c)
	if err != nil {
		return uuid.Nil, err
	}
	if !sess.HasRecord() {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, "Worker profile not found", nil, nil)
	}
	return sess.RecordID, nil
}

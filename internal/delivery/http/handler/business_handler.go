package handler

import (
	"context"
	"errors"

	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/pkg/response"
	"skill-hire/internal/session"
	"skill-hire/internal/usecase/posting"
	"skill-hire/internal/usecase/requests"

	"github.com/gofiber/fiber/v3"
)

type PostingUsecase interface {
	PostJob(ctx context.Context, sess session.Session, form posting.JobForm) (posting.PostResult, error)
	ListJobs(ctx context.Context, sess session.Session) ([]job.Job, error)
}

type WorkerRequestUsecase interface {
	Submit(ctx context.Context, sess session.Session, form requests.Form) (requests.Result, error)
}

type BusinessHandler struct {
	posting  PostingUsecase
	requests WorkerRequestUsecase
}

func NewBusinessHandler(p PostingUsecase, r WorkerRequestUsecase) *BusinessHandler {
	return &BusinessHandler{posting: p, requests: r}
}

// RegisterRoutes mounts the business routes. postLimit guards job creation
// and may be nil.
func (h *BusinessHandler) RegisterRoutes(r fiber.Router, postLimit fiber.Handler) {
	if r == nil {
		return
	}

	if postLimit != nil {
		r.Post("/jobs", postLimit, h.PostJob)
	} else {
		r.Post("/jobs", h.PostJob)
	}
	r.Get("/jobs", h.ListJobs)
	r.Post("/worker-requests", h.SubmitRequest)
}

func (h *BusinessHandler) PostJob(c fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var form posting.JobForm
	if err := c.Bind().Body(&form); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.posting.PostJob(c.Context(), sess, form)
	if err != nil {
		return mapPostingError(err)
	}

	msg := "Job posted"
	if !res.Complete() {
		msg = "Job posted, some notifications are pending"
	}
	return response.Created(c, msg, res)
}

func (h *BusinessHandler) ListJobs(c fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	jobs, err := h.posting.ListJobs(c.Context(), sess)
	if err != nil {
		return mapPostingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, jobs)
}

func (h *BusinessHandler) SubmitRequest(c fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var form requests.Form
	if err := c.Bind().Body(&form); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.requests.Submit(c.Context(), sess, form)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrInvalidRequest):
			return badRequest(err)
		case errors.Is(err, requests.ErrBusinessNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Business profile not found", nil, err)
		default:
			return internalError(err)
		}
	}
	return response.Created(c, "Worker request submitted", res)
}

func mapPostingError(err error) error {
	switch {
	case errors.Is(err, posting.ErrInvalidJob):
		return badRequest(err)
	case errors.Is(err, posting.ErrBusinessNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Business profile not found", nil, err)
	default:
		return internalError(err)
	}
}

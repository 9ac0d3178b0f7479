package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/domain/user"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/realtime"
	"skill-hire/internal/session"
	ucauth "skill-hire/internal/usecase/auth"
	"skill-hire/internal/usecase/adminfeed"
	"skill-hire/internal/usecase/feed"
)

type WorkerFeed interface {
	List(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error)
	Subscribe(workerID uuid.UUID, fn func(notification.WorkerFeedItem)) *realtime.Subscription
}

type AdminFeed interface {
	ListAll(ctx context.Context) ([]notification.AdminNotification, error)
	Subscribe(fn func(notification.AdminNotification)) *realtime.Subscription
}

type Handler struct {
	hub     *Hub
	auth    middleware.Authenticator
	workers WorkerFeed
	admins  AdminFeed
	logger  logrus.FieldLogger
}

type workerSnapshot struct {
	Notifications []notification.WorkerFeedItem `json:"notifications"`
	EmptyMessage  string                        `json:"empty_message,omitempty"`
}

type adminSnapshot struct {
	Notifications []notification.AdminNotification `json:"notifications"`
}

func NewHandler(hub *Hub, auth middleware.Authenticator, workers WorkerFeed, admins AdminFeed, log logrus.FieldLogger) *Handler {
	return &Handler{hub: hub, auth: auth, workers: workers, admins: admins, logger: logger.OrDefault(log)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleNotifications upgrades to a live notification feed. Browsers cannot
// set headers on a WebSocket handshake, so the access token may come in the
// token query parameter.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	tok := c.Query("token")
	if tok == "" {
		tok, _ = middleware.BearerToken(c.Get("Authorization"))
	}
	sess, err := h.auth.Authenticate(c.Context(), tok)
	if err != nil {
		if errors.Is(err, ucauth.ErrTokenExpired) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}
	switch sess.Role {
	case user.RoleWorker:
		if !sess.HasRecord() {
			return middleware.NewAppError(fiber.StatusNotFound, "Worker profile not found", nil, nil)
		}
	case user.RoleAdmin:
	default:
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.WithError(err).Warn("ws upgrade error")
			return
		}

		client := NewClient(h.hub, conn, sess.Role, h.logger.WithField("user_id", sess.UserID))
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
		h.attach(client, sess)
	})

	return fiberHandler(c)
}

// liveFeed holds pushes back until the snapshot is out. Pushes that land
// before it are folded into the snapshot instead of being sent twice.
type liveFeed[T any] struct {
	mu    sync.Mutex
	view  *feed.LiveView[T]
	ready bool
}

func (l *liveFeed[T]) push(item T, send func(T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.view.Merge(item) > 0 && l.ready {
		send(item)
	}
}

func (l *liveFeed[T]) snapshot(items []T, send func([]T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view.Merge(items...)
	send(l.view.Items())
	l.ready = true
}

// attach subscribes the client before loading the snapshot so no insert
// falls between the two.
func (h *Handler) attach(client *Client, sess session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch sess.Role {
	case user.RoleWorker:
		live := &liveFeed[notification.WorkerFeedItem]{view: feed.NewWorkerView()}
		sub := h.workers.Subscribe(sess.RecordID, func(item notification.WorkerFeedItem) {
			live.push(item, func(it notification.WorkerFeedItem) { client.SendEvent(EventWorkerNotification, it) })
		})
		client.OnClose(sub.Cancel)

		items, err := h.workers.List(ctx, sess.RecordID)
		if err != nil {
			client.logger.WithError(err).Warn("ws worker snapshot failed")
		}
		live.snapshot(items, func(all []notification.WorkerFeedItem) {
			snap := workerSnapshot{Notifications: all}
			if len(all) == 0 {
				snap.EmptyMessage = feed.EmptyMessage
			}
			client.SendEvent(EventSnapshot, snap)
		})

	case user.RoleAdmin:
		live := &liveFeed[notification.AdminNotification]{view: adminfeed.NewView()}
		sub := h.admins.Subscribe(func(n notification.AdminNotification) {
			live.push(n, func(it notification.AdminNotification) { client.SendEvent(EventAdminNotification, it) })
		})
		client.OnClose(sub.Cancel)

		items, err := h.admins.ListAll(ctx)
		if err != nil {
			client.logger.WithError(err).Warn("ws admin snapshot failed")
		}
		live.snapshot(items, func(all []notification.AdminNotification) {
			client.SendEvent(EventSnapshot, adminSnapshot{Notifications: all})
		})
	}
}

package handler

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"skill-hire/internal/delivery/http/dto"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/usecase/feed"
)

func TestWorkerHandler_EmptyFeed(t *testing.T) {
	app := newTestApp(workerSession(), func(r fiber.Router) { NewWorkerHandler(&fakeWorkerFeed{}).RegisterRoutes(r.Group("/worker")) })

	code, env := do(t, app, http.MethodGet, "/worker/notifications", nil)
	require.Equal(t, http.StatusOK, code)
	out := decodeData[dto.WorkerFeedResponse](t, env)
	require.Equal(t, feed.EmptyMessage, out.EmptyMessage)
	require.Zero(t, out.Unread)
}

func TestWorkerHandler_FeedWithItems(t *testing.T) {
	uc := &fakeWorkerFeed{
		items:  []notification.WorkerFeedItem{{WorkerNotification: notification.WorkerNotification{ID: uuid.New(), Status: notification.WorkerStatusUnread}}},
		unread: 1,
	}
	app := newTestApp(workerSession(), func(r fiber.Router) { NewWorkerHandler(uc).RegisterRoutes(r.Group("/worker")) })

	_, env := do(t, app, http.MethodGet, "/worker/notifications", nil)
	out := decodeData[dto.WorkerFeedResponse](t, env)
	require.Len(t, out.Notifications, 1)
	require.Equal(t, 1, out.Unread)
	require.Empty(t, out.EmptyMessage)
}

func TestWorkerHandler_RequiresWorkerRecord(t *testing.T) {
	sess := workerSession()
	sess.RecordID = uuid.Nil
	app := newTestApp(sess, func(r fiber.Router) { NewWorkerHandler(&fakeWorkerFeed{}).RegisterRoutes(r.Group("/worker")) })

	code, env := do(t, app, http.MethodGet, "/worker/applications", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Worker profile not found", env.Message)
}

func TestWorkerHandler_Respond(t *testing.T) {
	sess := workerSession()
	nid, jid := uuid.New(), uuid.New()
	uc := &fakeWorkerFeed{respondRes: feed.RespondResult{NotificationID: nid, Status: notification.WorkerStatusAccepted}}
	app := newTestApp(sess, func(r fiber.Router) { NewWorkerHandler(uc).RegisterRoutes(r.Group("/worker")) })

	code, env := do(t, app, http.MethodPost, "/worker/notifications/"+nid.String()+"/respond", map[string]string{"job_id": jid.String(), "decision": "accept"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Job accepted", env.Message)
	require.Equal(t, feed.RespondInput{NotificationID: nid, JobID: jid, WorkerID: sess.RecordID, Decision: "accept"}, uc.respondIn)

	code, _ = do(t, app, http.MethodPost, "/worker/notifications/not-a-uuid/respond", map[string]string{"job_id": jid.String(), "decision": "accept"})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/worker/notifications/"+nid.String()+"/respond", map[string]string{"job_id": "x", "decision": "accept"})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestWorkerHandler_RespondErrorMapping(t *testing.T) {
	cases := map[error]int{
		feed.ErrInvalidDecision:      http.StatusBadRequest,
		feed.ErrNotificationNotFound: http.StatusNotFound,
		feed.ErrAlreadyResponded:     http.StatusConflict,
		feed.ErrResponseInFlight:     http.StatusConflict,
		feed.ErrInternal:             http.StatusInternalServerError,
	}
	for err, want := range cases {
		uc := &fakeWorkerFeed{err: err}
		app := newTestApp(workerSession(), func(r fiber.Router) { NewWorkerHandler(uc).RegisterRoutes(r.Group("/worker")) })

		code, _ := do(t, app, http.MethodPost, "/worker/notifications/"+uuid.NewString()+"/respond", map[string]string{"job_id": uuid.NewString(), "decision": "maybe"})
		require.Equal(t, want, code, err.Error())
	}
}

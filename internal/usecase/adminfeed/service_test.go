package adminfeed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"skill-hire/internal/domain/notification"
	"skill-hire/internal/realtime"
)

type fakeNotifications struct {
	items   []notification.AdminNotification
	listErr error
}

func (f *fakeNotifications) ListAll(context.Context) ([]notification.AdminNotification, error) {
	return f.items, f.listErr
}

func (f *fakeNotifications) UpdateStatus(_ context.Context, id uuid.UUID, status notification.AdminStatus) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotifications) CountByStatus(context.Context) (map[notification.AdminStatus]int, error) {
	out := map[notification.AdminStatus]int{}
	for _, n := range f.items {
		out[n.Status]++
	}
	return out, nil
}

func TestSetStatus_MutatesOnlyTheTargetRow(t *testing.T) {
	a := notification.AdminNotification{ID: uuid.New(), Status: notification.AdminStatusPending}
	b := notification.AdminNotification{ID: uuid.New(), Status: notification.AdminStatusPending}
	repo := &fakeNotifications{items: []notification.AdminNotification{a, b}}
	svc := NewService(repo, realtime.NewBroker(nil), nil)

	require.NoError(t, svc.SetStatus(context.Background(), a.ID, "Approved"))
	require.Equal(t, notification.AdminStatusApproved, repo.items[0].Status)
	require.Equal(t, notification.AdminStatusPending, repo.items[1].Status)

	require.NoError(t, svc.SetStatus(context.Background(), b.ID, "rejected"))
	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, counts[notification.AdminStatusApproved])
	require.Equal(t, 1, counts[notification.AdminStatusRejected])
}

func TestSetStatus_Errors(t *testing.T) {
	svc := NewService(&fakeNotifications{}, realtime.NewBroker(nil), nil)

	require.ErrorIs(t, svc.SetStatus(context.Background(), uuid.New(), "info"), ErrInvalidStatus)
	require.ErrorIs(t, svc.SetStatus(context.Background(), uuid.New(), "approved"), ErrNotificationNotFound)
}

func TestListAll_WrapsBackendErrors(t *testing.T) {
	svc := NewService(&fakeNotifications{listErr: errors.New("down")}, realtime.NewBroker(nil), nil)
	_, err := svc.ListAll(context.Background())
	require.ErrorIs(t, err, ErrInternal)
}

func TestSubscribe_UnscopedAndOrderedInView(t *testing.T) {
	broker := realtime.NewBroker(nil)
	svc := NewService(&fakeNotifications{}, broker, nil)
	view := NewView()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	view.Merge(notification.AdminNotification{ID: uuid.New(), CreatedAt: base})

	sub := svc.Subscribe(func(n notification.AdminNotification) { view.Merge(n) })
	defer sub.Cancel()

	pushed := notification.AdminNotification{ID: uuid.New(), BusinessName: "Acme", CreatedAt: base.Add(time.Hour), Status: notification.AdminStatusInfo}
	e, err := realtime.NewEvent("admin_notifications", pushed)
	require.NoError(t, err)
	broker.Publish(e)

	items := view.Items()
	require.Len(t, items, 2)
	require.Equal(t, pushed.ID, items[0].ID)
	require.Equal(t, "Acme", items[0].BusinessName)
}

package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"movein-backend/db/models"
	"movein-backend/websocket"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

type fakePusher struct {
	direct    map[uuid.UUID][]websocket.WebSocketMessage
	broadcast []websocket.WebSocketMessage
}

func newFakePusher() *fakePusher {
	return &fakePusher{direct: map[uuid.UUID][]websocket.WebSocketMessage{}}
}

func (p *fakePusher) SendToUser(userID uuid.UUID, message websocket.WebSocketMessage) int {
	p.direct[userID] = append(p.direct[userID], message)
	return 1
}

func (p *fakePusher) Broadcast(message websocket.WebSocketMessage) {
	p.broadcast = append(p.broadcast, message)
}

type fakeSender struct {
	sent []EmailPayload
	err  error
}

func (s *fakeSender) Send(to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, EmailPayload{To: to, Subject: subject, Body: body})
	return nil
}

func decodeTask(t *testing.T, task *asynq.Task) EmailPayload {
	t.Helper()
	var p EmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	return p
}

func TestCardDecidedPushesAndQueuesEmail(t *testing.T) {
	queue := &fakeQueue{}
	pusher := newFakePusher()
	d := NewDispatcher(queue, pusher, "http://portal")

	note := "Bring ID <b>cards</b>"
	card := &models.MoveInCard{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		CompanyName:  "Acme",
		FloorNumber:  "3",
		RoomNumber:   "301",
		ContactEmail: "tenant@example.com",
		Status:       models.CardApproved,
		AdminNotes:   &note,
	}
	require.NoError(t, d.CardDecided(context.Background(), card))

	require.Len(t, pusher.direct[card.UserID], 1)
	assert.Equal(t, websocket.MessageTypeCardDecided, pusher.direct[card.UserID][0].Type)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, TypeEmailDelivery, queue.tasks[0].Type())
	p := decodeTask(t, queue.tasks[0])
	assert.Equal(t, "tenant@example.com", p.To)
	assert.Contains(t, p.Subject, "approved")
	assert.Contains(t, p.Body, "&lt;b&gt;cards&lt;/b&gt;")
}

func TestCardDecidedWithoutEmailOnlyPushes(t *testing.T) {
	queue := &fakeQueue{}
	d := NewDispatcher(queue, newFakePusher(), "http://portal")

	require.NoError(t, d.CardDecided(context.Background(), &models.MoveInCard{ID: uuid.New(), UserID: uuid.New(), Status: models.CardRejected}))
	assert.Empty(t, queue.tasks)
}

func TestEnqueueFailureIsReported(t *testing.T) {
	queue := &fakeQueue{err: errors.New("redis down")}
	d := NewDispatcher(queue, newFakePusher(), "http://portal")

	err := d.VerificationRequested(context.Background(), "a@example.com", "A", "http://portal/verify?token=x")
	assert.Error(t, err)
}

func TestNoticePublishedBroadcasts(t *testing.T) {
	pusher := newFakePusher()
	d := NewDispatcher(&fakeQueue{}, pusher, "http://portal")

	require.NoError(t, d.NoticePublished(context.Background(), &models.Notice{ID: uuid.New(), Title: "Water outage"}))
	require.Len(t, pusher.broadcast, 1)
	assert.Equal(t, websocket.MessageTypeNoticePublished, pusher.broadcast[0].Type)
}

func TestComplaintAnsweredQueuesEmailToSubmitter(t *testing.T) {
	queue := &fakeQueue{}
	pusher := newFakePusher()
	d := NewDispatcher(queue, pusher, "http://portal")

	complaint := &models.Complaint{ID: uuid.New(), UserID: uuid.New(), Title: "Noisy fan", Status: models.ComplaintResolved}
	recipient := &models.Profile{ID: complaint.UserID, Email: "owner@example.com"}
	require.NoError(t, d.ComplaintAnswered(context.Background(), complaint, recipient))

	assert.Len(t, pusher.direct[complaint.UserID], 1)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, "owner@example.com", decodeTask(t, queue.tasks[0]).To)
}

func TestEmailTaskHandler(t *testing.T) {
	sender := &fakeSender{}
	h := &EmailTaskHandler{Sender: sender}

	task, err := NewEmailDeliveryTask(EmailPayload{To: "x@example.com", Subject: "s", Body: "b"})
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "x@example.com", sender.sent[0].To)

	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeEmailDelivery, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	sender.err = errors.New("smtp timeout")
	err = h.ProcessTask(context.Background(), task)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

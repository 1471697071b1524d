package notifications

import (
	"context"
	"fmt"
	"html"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/websocket"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier tells people about things that happened to their records.
type Notifier interface {
	VerificationRequested(ctx context.Context, email, name, link string) error
	CardDecided(ctx context.Context, card *models.MoveInCard) error
	ComplaintAnswered(ctx context.Context, complaint *models.Complaint, recipient *models.Profile) error
	NoticePublished(ctx context.Context, notice *models.Notice) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Pusher is satisfied by *websocket.Hub.
type Pusher interface {
	SendToUser(userID uuid.UUID, message websocket.WebSocketMessage) int
	Broadcast(message websocket.WebSocketMessage)
}

// Dispatcher pushes real-time events and queues emails for the worker.
type Dispatcher struct {
	Queue       TaskEnqueuer
	Pusher      Pusher
	FrontendURL string
}

func NewDispatcher(queue TaskEnqueuer, pusher Pusher, frontendURL string) *Dispatcher {
	return &Dispatcher{Queue: queue, Pusher: pusher, FrontendURL: frontendURL}
}

func (d *Dispatcher) enqueueEmail(ctx context.Context, p EmailPayload) error {
	task, err := NewEmailDeliveryTask(p)
	if err != nil {
		return err
	}
	info, err := d.Queue.EnqueueContext(ctx, task)
	if err != nil {
		config.Logger.Error("Failed to enqueue email", zap.String("to_email", p.To), zap.Error(err))
		return fmt.Errorf("enqueue email: %w", err)
	}
	config.Logger.Info("Email queued", zap.String("task_id", info.ID), zap.String("to_email", p.To))
	return nil
}

func (d *Dispatcher) VerificationRequested(ctx context.Context, email, name, link string) error {
	body := fmt.Sprintf(
		`<p>Hello %s,</p><p>Please confirm your email address for the 26 Center tenant portal.</p><p><a href="%s">Confirm email</a></p>`,
		html.EscapeString(name), html.EscapeString(link),
	)
	return d.enqueueEmail(ctx, EmailPayload{To: email, Subject: "[26 Center] Confirm your email", Body: body})
}

func (d *Dispatcher) CardDecided(ctx context.Context, card *models.MoveInCard) error {
	d.Pusher.SendToUser(card.UserID, websocket.NewMessage(websocket.MessageTypeCardDecided, map[string]interface{}{
		"card_id":     card.ID,
		"status":      card.Status,
		"admin_notes": card.AdminNotes,
	}))

	if card.ContactEmail == "" {
		return nil
	}
	notes := ""
	if card.AdminNotes != nil {
		notes = fmt.Sprintf("<p>Note from management: %s</p>", html.EscapeString(*card.AdminNotes))
	}
	body := fmt.Sprintf(
		`<p>Your move-in card for %s (floor %s, room %s) was %s.</p>%s<p><a href="%s/move-in-card/%s">View card</a></p>`,
		html.EscapeString(card.CompanyName), html.EscapeString(card.FloorNumber), html.EscapeString(card.RoomNumber),
		card.Status, notes, d.FrontendURL, card.ID,
	)
	return d.enqueueEmail(ctx, EmailPayload{
		To:      card.ContactEmail,
		Subject: fmt.Sprintf("[26 Center] Move-in card %s", card.Status),
		Body:    body,
	})
}

func (d *Dispatcher) ComplaintAnswered(ctx context.Context, complaint *models.Complaint, recipient *models.Profile) error {
	d.Pusher.SendToUser(complaint.UserID, websocket.NewMessage(websocket.MessageTypeComplaintAnswered, map[string]interface{}{
		"complaint_id": complaint.ID,
		"status":       complaint.Status,
	}))

	if recipient == nil || recipient.Email == "" {
		return nil
	}
	body := fmt.Sprintf(
		`<p>Your complaint "%s" is now %s.</p><p><a href="%s/complaints/%s">View complaint</a></p>`,
		html.EscapeString(complaint.Title), complaint.Status, d.FrontendURL, complaint.ID,
	)
	return d.enqueueEmail(ctx, EmailPayload{To: recipient.Email, Subject: "[26 Center] Complaint updated", Body: body})
}

func (d *Dispatcher) NoticePublished(ctx context.Context, notice *models.Notice) error {
	d.Pusher.Broadcast(websocket.NewMessage(websocket.MessageTypeNoticePublished, map[string]interface{}{
		"notice_id":    notice.ID,
		"title":        notice.Title,
		"is_important": notice.IsImportant,
	}))
	return nil
}

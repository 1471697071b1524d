package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"movein-backend/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeEmailDelivery = "email:deliver"

type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewEmailDeliveryTask(p EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, data, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// EmailTaskHandler is the worker side of TypeEmailDelivery.
type EmailTaskHandler struct {
	Sender EmailSender
}

func (h *EmailTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p EmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode email payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.To == "" {
		return fmt.Errorf("email task without recipient: %w", asynq.SkipRetry)
	}

	if err := h.Sender.Send(p.To, p.Subject, p.Body); err != nil {
		config.Logger.Warn("Email delivery attempt failed", zap.String("to_email", p.To), zap.Error(err))
		return err
	}
	return nil
}

// NewWorker builds the background server and its routing for notification tasks.
func NewWorker(redisOpt asynq.RedisClientOpt, handler *EmailTaskHandler) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.Handle(TypeEmailDelivery, handler)
	return srv, mux
}

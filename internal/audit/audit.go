package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/repository"
)

// Event is the write-only record appended on every engine transition. The
// engine never reads audit data back.
type Event struct {
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Action      string    `json:"action"`
	ActorRef    string    `json:"actor_ref,omitempty"`
	BeforeState string    `json:"before_state"`
	AfterState  string    `json:"after_state"`
	Timestamp   time.Time `json:"timestamp"`
}

type OutboxRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

// Recorder appends events to the transactional outbox so they commit or roll
// back together with the transition that produced them.
type Recorder struct {
	outbox OutboxRepository
	topic  string
}

func NewRecorder(outbox OutboxRepository, topic string) *Recorder {
	return &Recorder{outbox: outbox, topic: topic}
}

func (r *Recorder) Record(ctx context.Context, tx db.Tx, event Event) error {
	if event.ActorRef == "" {
		event.ActorRef = ActorFromContext(ctx)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	task := &repository.OutboxTask{
		Topic:   r.topic,
		Payload: payload,
	}
	if err := r.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue audit event: %w", err)
	}
	return nil
}

type actorKey struct{}

// WithActor annotates the context with the caller identity recorded as
// actor_ref on subsequent events.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

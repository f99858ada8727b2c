// Package messaging publishes the outcome of a solve call as a fire-and-
// forget domain event over internal/shared/infrastructure/eventbus. It is a
// thin downstream notification, not a dependency the solving core takes on:
// the core returns a Result and moves on whether or not anything is
// listening.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/shiftsched/internal/shared/infrastructure/eventbus"
)

// Routing keys for the two outcomes a solve call can publish, matching the
// "schedule.solved" / "schedule.infeasible" naming in SPEC_FULL.md §3.6.
const (
	RoutingKeySolved     = "schedule.solved"
	RoutingKeyInfeasible = "schedule.infeasible"
)

// ScheduleSolvedEvent is the payload published after an orchestrator run.
type ScheduleSolvedEvent struct {
	PeriodID         uuid.UUID              `json:"period_id"`
	Status           domain.Status          `json:"status"`
	Message          string                 `json:"message"`
	AssignmentCount  int                    `json:"assignment_count"`
	DiagnosticTags   []domain.ConstraintTag `json:"diagnostic_tags,omitempty"`
}

// EventPublisher emits schedule solve outcomes onto the shared event bus.
type EventPublisher struct {
	bus eventbus.Publisher
}

// NewEventPublisher wraps an existing eventbus.Publisher (typically an
// eventbus.RabbitMQPublisher connected to RabbitMQURL from pkg/config).
func NewEventPublisher(bus eventbus.Publisher) *EventPublisher {
	return &EventPublisher{bus: bus}
}

// PublishOutcome publishes a schedule.solved or schedule.infeasible event
// for periodID based on result.Status. Timeout is reported as infeasible
// from the perspective of a downstream consumer: either way nothing was
// published for staff to see.
func (p *EventPublisher) PublishOutcome(ctx context.Context, periodID uuid.UUID, result domain.Result) error {
	routingKey := RoutingKeyInfeasible
	if result.Status == domain.StatusOptimal {
		routingKey = RoutingKeySolved
	}

	tags := make([]domain.ConstraintTag, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		tags = append(tags, d.ConstraintTag)
	}

	event := ScheduleSolvedEvent{
		PeriodID:        periodID,
		Status:          result.Status,
		Message:         result.Message,
		AssignmentCount: len(result.Assignments),
		DiagnosticTags:  tags,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal schedule event: %w", err)
	}

	if err := p.bus.Publish(ctx, routingKey, payload); err != nil {
		return fmt.Errorf("publish schedule event: %w", err)
	}
	return nil
}

// Close releases the underlying bus connection.
func (p *EventPublisher) Close() error {
	return p.bus.Close()
}

package messaging_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/messaging"
)

type fakeBus struct {
	routingKey string
	payload    []byte
	closed     bool
}

func (f *fakeBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	f.routingKey = routingKey
	f.payload = payload
	return nil
}

func (f *fakeBus) Close() error {
	f.closed = true
	return nil
}

func TestPublishOutcomeSolvedUsesSolvedRoutingKey(t *testing.T) {
	bus := &fakeBus{}
	pub := messaging.NewEventPublisher(bus)
	periodID := uuid.New()

	result := domain.Result{
		Status:      domain.StatusOptimal,
		Message:     "solved",
		Assignments: []domain.Assignment{{StaffID: uuid.New(), Date: domain.NewDate(2026, 8, 3), ShiftSlotID: uuid.New()}},
	}

	require.NoError(t, pub.PublishOutcome(context.Background(), periodID, result))

	assert.Equal(t, messaging.RoutingKeySolved, bus.routingKey)

	var event messaging.ScheduleSolvedEvent
	require.NoError(t, json.Unmarshal(bus.payload, &event))
	assert.Equal(t, periodID, event.PeriodID)
	assert.Equal(t, 1, event.AssignmentCount)
}

func TestPublishOutcomeInfeasibleUsesInfeasibleRoutingKey(t *testing.T) {
	bus := &fakeBus{}
	pub := messaging.NewEventPublisher(bus)
	periodID := uuid.New()

	result := domain.Result{
		Status:  domain.StatusInfeasible,
		Message: "no feasible assignment",
		Diagnostics: []domain.DiagnosticItem{
			{ConstraintTag: domain.TagStaffing, Severity: domain.SeverityError, Message: "understaffed"},
		},
	}

	require.NoError(t, pub.PublishOutcome(context.Background(), periodID, result))

	assert.Equal(t, messaging.RoutingKeyInfeasible, bus.routingKey)

	var event messaging.ScheduleSolvedEvent
	require.NoError(t, json.Unmarshal(bus.payload, &event))
	require.Len(t, event.DiagnosticTags, 1)
	assert.Equal(t, domain.TagStaffing, event.DiagnosticTags[0])
}

func TestPublishOutcomeTimeoutTreatedAsInfeasibleRoutingKey(t *testing.T) {
	bus := &fakeBus{}
	pub := messaging.NewEventPublisher(bus)

	result := domain.Result{Status: domain.StatusTimeout, Message: "time limit reached"}
	require.NoError(t, pub.PublishOutcome(context.Background(), uuid.New(), result))

	assert.Equal(t, messaging.RoutingKeyInfeasible, bus.routingKey)
}

func TestCloseDelegatesToBus(t *testing.T) {
	bus := &fakeBus{}
	pub := messaging.NewEventPublisher(bus)

	require.NoError(t, pub.Close())
	assert.True(t, bus.closed)
}

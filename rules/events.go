package rules

import (
	"context"
	"fmt"
	"strings"

	"campus-events/metrics"
	"campus-events/models"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultRecentLimit = 5
	MaxListLimit       = 100
)

// ProposeEvent validates and stores a new event in the proposed state, then
// credits the proposer. It returns the event and the points awarded.
func (e *Engine) ProposeEvent(ctx context.Context, req models.CreateEventRequest) (models.Event, int, error) {
	ev := models.Event{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		Status:         models.StatusProposed,
		ProposerID:     req.ProposerID,
		BudgetEstimate: req.BudgetEstimate,
		TargetFunds:    req.TargetFunds,
		EventDate:      req.EventDate,
		Location:       strings.TrimSpace(req.Location),
	}
	if err := validateEvent(ev); err != nil {
		return models.Event{}, 0, err
	}
	if _, err := e.GetUser(ctx, req.ProposerID); err != nil {
		return models.Event{}, 0, err
	}

	id, err := e.store.CreateEvent(ctx, ev)
	if err != nil {
		return models.Event{}, 0, fmt.Errorf("failed to create event: %w", err)
	}
	created, err := e.GetEvent(ctx, id)
	if err != nil {
		return models.Event{}, 0, err
	}

	metrics.RecordProposal()
	log.WithFields(log.Fields{"event_id": id, "proposer_id": req.ProposerID}).Info("Event proposed")
	return created, e.award(ctx, req.ProposerID, ActionProposal), nil
}

func validateEvent(ev models.Event) error {
	switch {
	case ev.Title == "":
		return invalid("title", "title is required")
	case ev.Description == "":
		return invalid("description", "description is required")
	case ev.Category == "":
		return invalid("category", "category is required")
	case ev.Location == "":
		return invalid("location", "location is required")
	case ev.EventDate.IsZero():
		return invalid("event_date", "event date is required")
	case ev.BudgetEstimate < 0:
		return invalid("budget_estimate", "budget estimate must not be negative")
	case ev.TargetFunds < 0:
		return invalid("target_funds", "target funds must not be negative")
	}
	return nil
}

// GetEvent returns one event with its vote and comment counts.
func (e *Engine) GetEvent(ctx context.Context, id int64) (models.Event, error) {
	ev, ok, err := e.store.GetEvent(ctx, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	if !ok {
		return models.Event{}, notFound("event", id)
	}
	return ev, nil
}

// ListEvents returns the events matching f, newest first.
func (e *Engine) ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown event status %q", f.Status))
	}
	if f.Limit < 0 || f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	events, err := e.store.ListEvents(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RecentEvents returns the newest limit events.
func (e *Engine) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return e.ListEvents(ctx, models.EventFilter{Limit: limit})
}

// PendingEvents is the approval queue: every event still proposed.
func (e *Engine) PendingEvents(ctx context.Context) ([]models.Event, error) {
	return e.ListEvents(ctx, models.EventFilter{Status: models.StatusProposed})
}

// SetEventStatus moves an event to status on behalf of an admin. Transitions
// outside the lifecycle order are written anyway when the admin override flag
// is on, and rejected with ErrInvalidTransition when it is off.
func (e *Engine) SetEventStatus(ctx context.Context, actorID, eventID int64, status models.EventStatus) (bool, error) {
	if !status.Valid() {
		return false, invalid("status", fmt.Sprintf("unknown event status %q", status))
	}
	if _, err := e.requireAdmin(ctx, actorID); err != nil {
		return false, err
	}
	ev, err := e.GetEvent(ctx, eventID)
	if err != nil {
		return false, err
	}

	override := false
	if !ev.CanTransitionTo(status) {
		if !e.rules.Flags.AdminStatusOverride {
			return false, fmt.Errorf("event %d: %s -> %s: %w", eventID, ev.Status, status, ErrInvalidTransition)
		}
		override = true
		log.WithFields(log.Fields{
			"event_id": eventID, "actor_id": actorID, "from": ev.Status, "to": status,
		}).Warn("Admin override of event lifecycle")
	}

	ok, err := e.store.UpdateEventStatus(ctx, eventID, status)
	if err != nil {
		return false, fmt.Errorf("failed to update event status: %w", err)
	}
	if !ok {
		return false, nil
	}

	metrics.RecordStatusChange(status.String(), override)
	if ev.ProposerID != actorID {
		e.notify(ctx, models.Notification{
			UserID:    ev.ProposerID,
			Type:      models.NotifyStatusChanged,
			Title:     "Event status changed",
			Message:   fmt.Sprintf("%q is now %s", ev.Title, status),
			RelatedID: &eventID,
			ActorID:   &actorID,
		})
	}
	return true, nil
}

func (e *Engine) ApproveEvent(ctx context.Context, actorID, eventID int64) (bool, error) {
	return e.SetEventStatus(ctx, actorID, eventID, models.StatusApproved)
}

// FundEvent marks an approved event funded. It does not require the target to be met.
func (e *Engine) FundEvent(ctx context.Context, actorID, eventID int64) (bool, error) {
	return e.SetEventStatus(ctx, actorID, eventID, models.StatusFunded)
}

func (e *Engine) ScheduleEvent(ctx context.Context, actorID, eventID int64) (bool, error) {
	return e.SetEventStatus(ctx, actorID, eventID, models.StatusScheduled)
}

func (e *Engine) CompleteEvent(ctx context.Context, actorID, eventID int64) (bool, error) {
	return e.SetEventStatus(ctx, actorID, eventID, models.StatusCompleted)
}

func (e *Engine) CancelEvent(ctx context.Context, actorID, eventID int64) (bool, error) {
	return e.SetEventStatus(ctx, actorID, eventID, models.StatusCancelled)
}

// UpdateEventFunding overwrites an event's raised total. Admin only.
func (e *Engine) UpdateEventFunding(ctx context.Context, actorID, eventID int64, total float64) (bool, error) {
	if total < 0 {
		return false, invalid("total_funds", "total funds must not be negative")
	}
	if _, err := e.requireAdmin(ctx, actorID); err != nil {
		return false, err
	}
	if _, err := e.GetEvent(ctx, eventID); err != nil {
		return false, err
	}
	ok, err := e.store.UpdateEventFunding(ctx, eventID, total)
	if err != nil {
		return false, fmt.Errorf("failed to update event funding: %w", err)
	}
	return ok, nil
}

// CategoryCounts is the per-category event distribution. Admin only.
func (e *Engine) CategoryCounts(ctx context.Context, actorID int64) ([]models.CategoryCount, error) {
	if _, err := e.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	counts, err := e.store.CountEventsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by category: %w", err)
	}
	return counts, nil
}

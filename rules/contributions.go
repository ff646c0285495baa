package rules

import (
	"context"
	"fmt"
	"strings"

	"campus-events/models"

	log "github.com/sirupsen/logrus"
)

// AddContribution records a pending pledge and credits the contributor. Fund
// pledges need a positive amount; the amount of other pledges is stored as 0.
func (e *Engine) AddContribution(ctx context.Context, eventID, userID int64, typ, details string, amount float64) (models.Contribution, int, error) {
	t, err := models.ParseContributionType(typ)
	if err != nil {
		return models.Contribution{}, 0, invalid("type", err.Error())
	}
	if t == models.ContributionFund {
		if amount <= 0 {
			return models.Contribution{}, 0, invalid("amount", "fund contributions need a positive amount")
		}
	} else {
		amount = 0
	}
	ev, err := e.GetEvent(ctx, eventID)
	if err != nil {
		return models.Contribution{}, 0, err
	}

	id, err := e.store.CreateContribution(ctx, models.Contribution{
		EventID: eventID,
		UserID:  userID,
		Type:    t,
		Details: strings.TrimSpace(details),
		Amount:  amount,
		Status:  models.ContributionPending,
	})
	if err != nil {
		return models.Contribution{}, 0, fmt.Errorf("failed to create contribution: %w", err)
	}
	c, err := e.getContribution(ctx, id)
	if err != nil {
		return models.Contribution{}, 0, err
	}

	points := e.award(ctx, userID, ActionContribution)
	if ev.ProposerID != userID {
		e.notify(ctx, models.Notification{
			UserID:    ev.ProposerID,
			Type:      models.NotifyEventContribution,
			Title:     "New contribution",
			Message:   fmt.Sprintf("%s offered a %s contribution to %q", c.UserName, c.Type, ev.Title),
			RelatedID: &eventID,
			ActorID:   &userID,
		})
	}
	return c, points, nil
}

func (e *Engine) getContribution(ctx context.Context, id int64) (models.Contribution, error) {
	c, ok, err := e.store.GetContribution(ctx, id)
	if err != nil {
		return models.Contribution{}, fmt.Errorf("failed to get contribution: %w", err)
	}
	if !ok {
		return models.Contribution{}, notFound("contribution", id)
	}
	return c, nil
}

// SetContributionStatus records an admin's review of a pledge. Points are not
// touched. With fund-on-approval on, reviewing a fund pledge recomputes the
// event's total from its approved fund pledges.
func (e *Engine) SetContributionStatus(ctx context.Context, actorID, contributionID int64, status string) (bool, error) {
	st, err := models.ParseContributionStatus(status)
	if err != nil {
		return false, invalid("status", err.Error())
	}
	if _, err := e.requireAdmin(ctx, actorID); err != nil {
		return false, err
	}
	c, err := e.getContribution(ctx, contributionID)
	if err != nil {
		return false, err
	}

	ok, err := e.store.UpdateContributionStatus(ctx, contributionID, st)
	if err != nil {
		return false, fmt.Errorf("failed to update contribution status: %w", err)
	}
	if !ok {
		return false, nil
	}

	if e.rules.Flags.FundOnApproval && c.IsFund() {
		if err := e.refreshFunding(ctx, c.EventID); err != nil {
			return true, err
		}
	}

	if c.UserID != actorID {
		e.notify(ctx, models.Notification{
			UserID:    c.UserID,
			Type:      models.NotifyContributionReviewed,
			Title:     "Contribution " + st.String(),
			Message:   fmt.Sprintf("Your %s contribution to %q was %s", c.Type, c.EventTitle, st),
			RelatedID: &contributionID,
			ActorID:   &actorID,
		})
	}
	return true, nil
}

// refreshFunding sets an event's total to the sum of its approved fund pledges.
func (e *Engine) refreshFunding(ctx context.Context, eventID int64) error {
	total, err := e.store.SumApprovedFunds(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to sum approved funds: %w", err)
	}
	if _, err := e.store.UpdateEventFunding(ctx, eventID, total); err != nil {
		return fmt.Errorf("failed to update event funding: %w", err)
	}
	log.WithFields(log.Fields{"event_id": eventID, "total_funds": total}).Info("Event funding recomputed")
	return nil
}

// ListContributions returns an event's pledges, newest first.
func (e *Engine) ListContributions(ctx context.Context, eventID int64) ([]models.Contribution, error) {
	if _, err := e.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	list, err := e.store.ListContributionsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	return list, nil
}

// UserContributions returns a user's pledges across all events, newest first.
func (e *Engine) UserContributions(ctx context.Context, userID int64) ([]models.Contribution, error) {
	list, err := e.store.ListContributionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	return list, nil
}

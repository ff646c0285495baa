package rules

import (
	"testing"

	"campus-events/config"
	"campus-events/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContribution(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	bob := f.register(t, "Bob", "bob@x.edu", models.RoleStudent)
	ev := f.propose(t, alice.ID, "Hack Night", 500)

	c, points, err := f.engine.AddContribution(f.ctx, ev.ID, bob.ID, "Skill", " Photography ", 99)
	require.NoError(t, err)
	assert.Equal(t, 10, points)
	assert.True(t, c.IsSkill())
	assert.True(t, c.IsPending())
	assert.Equal(t, "Photography", c.Details)
	assert.Zero(t, c.Amount, "only fund pledges carry an amount")
	assert.Equal(t, 10, f.points(t, bob.ID))

	_, _, err = f.engine.AddContribution(f.ctx, ev.ID, bob.ID, "fund", "", 0)
	assertValidation(t, err, "amount")

	_, _, err = f.engine.AddContribution(f.ctx, ev.ID, bob.ID, "favour", "", 0)
	assertValidation(t, err, "type")

	_, _, err = f.engine.AddContribution(f.ctx, 404, bob.ID, "skill", "", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	notes, err := f.engine.Notifications(f.ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotifyEventContribution, notes[0].Type)

	mine, err := f.engine.UserContributions(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	stats, err := f.engine.UserStats(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{UserID: bob.ID, Points: 10, Contributions: 1}, stats)
}

func TestSetContributionStatus(t *testing.T) {
	setup := func(t *testing.T, fundOnApproval bool) (*fixture, models.User, models.Event, []models.Contribution) {
		f := newFixture(t, func(r *config.Rules) { r.Flags.FundOnApproval = fundOnApproval })
		admin := f.register(t, "Admin", "admin@x.edu", models.RoleAdmin)
		bob := f.register(t, "Bob", "bob@x.edu", models.RoleStudent)
		ev := f.propose(t, admin.ID, "Hack Night", 100)

		var pledges []models.Contribution
		for _, amount := range []float64{60, 90} {
			c, _, err := f.engine.AddContribution(f.ctx, ev.ID, bob.ID, "fund", "cash", amount)
			require.NoError(t, err)
			pledges = append(pledges, c)
		}
		return f, admin, ev, pledges
	}

	t.Run("manual funding by default", func(t *testing.T) {
		f, admin, ev, pledges := setup(t, false)
		bobPoints := f.points(t, pledges[0].UserID)

		ok, err := f.engine.SetContributionStatus(f.ctx, admin.ID, pledges[0].ID, "approved")
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := f.engine.GetEvent(f.ctx, ev.ID)
		require.NoError(t, err)
		assert.Zero(t, got.TotalFunds)
		assert.Equal(t, bobPoints, f.points(t, pledges[0].UserID), "reviews do not change points")

		notes, err := f.engine.Notifications(f.ctx, pledges[0].UserID, 0)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, models.NotifyContributionReviewed, notes[0].Type)
		assert.Equal(t, "Contribution approved", notes[0].Title)
		assert.Equal(t, `Your fund contribution to "Hack Night" was approved`, notes[0].Message)
	})

	t.Run("fund on approval", func(t *testing.T) {
		f, admin, ev, pledges := setup(t, true)
		for _, c := range pledges {
			_, err := f.engine.SetContributionStatus(f.ctx, admin.ID, c.ID, "approved")
			require.NoError(t, err)
		}
		got, err := f.engine.GetEvent(f.ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 150.0, got.TotalFunds)
		assert.True(t, got.IsFullyFunded())

		_, err = f.engine.SetContributionStatus(f.ctx, admin.ID, pledges[1].ID, "rejected")
		require.NoError(t, err)
		got, err = f.engine.GetEvent(f.ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 60.0, got.TotalFunds)
	})

	t.Run("guards", func(t *testing.T) {
		f, admin, _, pledges := setup(t, false)

		_, err := f.engine.SetContributionStatus(f.ctx, pledges[0].UserID, pledges[0].ID, "approved")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.engine.SetContributionStatus(f.ctx, admin.ID, pledges[0].ID, "maybe")
		assertValidation(t, err, "status")

		_, err = f.engine.SetContributionStatus(f.ctx, admin.ID, 404, "approved")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

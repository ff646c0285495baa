package rules

import (
	"context"
	"errors"
	"testing"

	"campus-events/config"
	"campus-events/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleVoteScenario(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	hack := f.propose(t, alice.ID, "Hack Night", 500)
	start := f.points(t, alice.ID)

	res, err := f.engine.ToggleVote(f.ctx, hack.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteResult{EventID: hack.ID, Voted: true, VoteCount: 1, PointsAwarded: 5}, res)
	assert.Equal(t, start+5, f.points(t, alice.ID))

	res, err = f.engine.ToggleVote(f.ctx, hack.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteResult{EventID: hack.ID, Voted: false, VoteCount: 0, PointsAwarded: 5}, res)
	assert.Equal(t, start+10, f.points(t, alice.ID), "removal earns points while the flag is on")

	updates := f.pub.ofType(MsgEventVoteUpdated)
	require.Len(t, updates, 2)
	assert.Equal(t, VoteUpdate{EventID: hack.ID, UserID: alice.ID, Voted: false, VoteCount: 0}, updates[1].payload)

	awards := f.pub.ofType(MsgPointsUpdated)
	require.NotEmpty(t, awards)
	assert.Equal(t, alice.ID, awards[len(awards)-1].userID)
}

func TestToggleVoteWithoutRemovalPoints(t *testing.T) {
	f := newFixture(t, func(r *config.Rules) { r.Flags.AwardVoteRemoval = false })
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	hack := f.propose(t, alice.ID, "Hack Night", 500)
	start := f.points(t, alice.ID)

	_, err := f.engine.ToggleVote(f.ctx, hack.ID, alice.ID)
	require.NoError(t, err)
	res, err := f.engine.ToggleVote(f.ctx, hack.ID, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, res.PointsAwarded)
	assert.Equal(t, start+5, f.points(t, alice.ID))
}

func TestToggleVoteIsItsOwnInverse(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	bob := f.register(t, "Bob", "bob@x.edu", models.RoleStudent)
	ev := f.propose(t, alice.ID, "Hack Night", 500)

	_, err := f.engine.ToggleVote(f.ctx, ev.ID, bob.ID)
	require.NoError(t, err)

	before, err := f.engine.GetEvent(f.ctx, ev.ID)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := f.engine.ToggleVote(f.ctx, ev.ID, alice.ID)
		require.NoError(t, err)
	}
	after, err := f.engine.GetEvent(f.ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, before.VoteCount, after.VoteCount)
	assert.Equal(t, 1, after.VoteCount)
}

func TestToggleVoteUnknownEvent(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	_, err := f.engine.ToggleVote(f.ctx, 404, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// staleVoteCheck misses the existing vote on its first lookup, as a
// concurrent request would.
type staleVoteCheck struct {
	Store
	missed bool
}

func (s *staleVoteCheck) HasVoted(ctx context.Context, eventID, userID int64) (bool, error) {
	if !s.missed {
		s.missed = true
		return false, nil
	}
	return s.Store.HasVoted(ctx, eventID, userID)
}

func TestToggleVoteDuplicateInsert(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	ev := f.propose(t, alice.ID, "Hack Night", 500)
	_, err := f.gw.AddVote(f.ctx, ev.ID, alice.ID)
	require.NoError(t, err)
	start := f.points(t, alice.ID)

	engine := New(&staleVoteCheck{Store: f.gw}, config.DefaultRules(), nil)
	res, err := engine.ToggleVote(f.ctx, ev.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Voted)
	assert.Equal(t, 1, res.VoteCount)
	assert.Zero(t, res.PointsAwarded)
	assert.Equal(t, start, f.points(t, alice.ID))
}

type failingPoints struct{ Store }

func (failingPoints) AddPoints(context.Context, int64, int) (bool, error) {
	return false, errors.New("points ledger unavailable")
}

func TestPointAwardFailureKeepsVote(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@x.edu", models.RoleStudent)
	ev := f.propose(t, alice.ID, "Hack Night", 500)
	start := f.points(t, alice.ID)

	engine := New(failingPoints{Store: f.gw}, config.DefaultRules(), nil)
	res, err := engine.ToggleVote(f.ctx, ev.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Voted)
	assert.Equal(t, 1, res.VoteCount)
	assert.Zero(t, res.PointsAwarded)
	assert.Equal(t, start, f.points(t, alice.ID))
}

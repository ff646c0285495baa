package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"campus-events/models"
	"campus-events/pkg/db/sqlite"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := Open(sqlite.MemoryDSN(uuid.NewString()), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func seedUser(t *testing.T, g *Gateway, name, email string, role models.Role) int64 {
	t.Helper()
	id, err := g.CreateUser(context.Background(), models.User{
		Name: name, Email: email, PasswordHash: "x", Role: role,
	})
	require.NoError(t, err)
	return id
}

func seedEvent(t *testing.T, g *Gateway, proposerID int64, title, category string) int64 {
	t.Helper()
	id, err := g.CreateEvent(context.Background(), models.Event{
		Title:       title,
		Description: title + " description",
		Category:    category,
		ProposerID:  proposerID,
		TargetFunds: 500,
		EventDate:   time.Date(2026, 11, 20, 18, 0, 0, 0, time.UTC),
		Location:    "Main Hall",
	})
	require.NoError(t, err)
	return id
}

func TestOpenAppliesSchema(t *testing.T) {
	g := newTestGateway(t)
	require.NoError(t, g.Ping(context.Background()))

	n, err := g.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReconnectAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	g, err := Open(path, time.Second)
	require.NoError(t, err)
	defer g.Close()

	ctx := context.Background()
	seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	require.NoError(t, g.Close())

	n, err := g.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLostConnectionWithoutDataSource(t *testing.T) {
	raw, err := sqlite.Open(sqlite.MemoryDSN(uuid.NewString()))
	require.NoError(t, err)
	g := NewWithDB(sqlx.NewDb(raw, sqlite.DriverName), time.Second)
	raw.Close()

	_, err = g.CountUsers(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "count users", se.Op)
}

func TestUsers(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	bob := seedUser(t, g, "Bob", "bob@x.edu", models.RoleFaculty)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := g.CreateUser(ctx, models.User{Name: "Other", Email: "alice@x.edu", PasswordHash: "x", Role: models.RoleStudent})
		require.Error(t, err)
		assert.True(t, IsConstraint(err))

		n, err := g.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("lookup", func(t *testing.T) {
		u, ok, err := g.GetUserByEmail(ctx, "bob@x.edu")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, bob, u.ID)
		assert.Equal(t, models.RoleFaculty, u.Role)
		assert.False(t, u.CreatedAt.IsZero())

		_, ok, err = g.GetUserByEmail(ctx, "nobody@x.edu")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = g.GetUserByID(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("points and leaderboard", func(t *testing.T) {
		ok, err := g.AddPoints(ctx, bob, 7)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.AddPoints(ctx, 9999, 7)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = g.AddPoints(ctx, alice, -1)
		assert.True(t, IsConstraint(err), "points may not go negative")

		users, err := g.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, bob, users[0].ID)
		assert.Equal(t, 7, users[0].Points)
		assert.Equal(t, alice, users[1].ID)
	})

	t.Run("ties keep id order", func(t *testing.T) {
		carol := seedUser(t, g, "Carol", "carol@x.edu", models.RoleStudent)
		users, err := g.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []int64{bob, alice, carol}, []int64{users[0].ID, users[1].ID, users[2].ID})
	})
}

func TestEvents(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	bob := seedUser(t, g, "Bob", "bob@x.edu", models.RoleStudent)
	hack := seedEvent(t, g, alice, "Hack Night", "tech")
	concert := seedEvent(t, g, bob, "Spring Concert", "music")
	talk := seedEvent(t, g, alice, "AI Talk", "tech")

	e, ok, err := g.GetEvent(ctx, hack)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.StatusProposed, e.Status)
	assert.Equal(t, "Alice", e.ProposerName)
	assert.Equal(t, 500.0, e.TargetFunds)
	assert.True(t, e.EventDate.Equal(time.Date(2026, 11, 20, 18, 0, 0, 0, time.UTC)))

	_, ok, err = g.GetEvent(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("newest first", func(t *testing.T) {
		events, err := g.ListEvents(ctx, models.EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, []int64{talk, concert, hack}, []int64{events[0].ID, events[1].ID, events[2].ID})
	})

	t.Run("filters", func(t *testing.T) {
		events, err := g.ListEvents(ctx, models.EventFilter{Category: "tech"})
		require.NoError(t, err)
		assert.Len(t, events, 2)

		events, err = g.ListEvents(ctx, models.EventFilter{ProposerID: bob})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, concert, events[0].ID)

		events, err = g.ListEvents(ctx, models.EventFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, talk, events[0].ID)
	})

	t.Run("partial update", func(t *testing.T) {
		ok, err := g.UpdateEventStatus(ctx, concert, models.StatusApproved)
		require.NoError(t, err)
		assert.True(t, ok)

		loc := "Stadium"
		ok, err = g.UpdateEvent(ctx, concert, models.EventPatch{Location: &loc})
		require.NoError(t, err)
		assert.True(t, ok)

		e, _, err := g.GetEvent(ctx, concert)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, e.Status)
		assert.Equal(t, "Stadium", e.Location)
		assert.Equal(t, "Spring Concert", e.Title)

		approved, err := g.ListEvents(ctx, models.EventFilter{Status: models.StatusApproved})
		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, concert, approved[0].ID)

		ok, err = g.UpdateEvent(ctx, concert, models.EventPatch{})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = g.UpdateEventFunding(ctx, 9999, 10)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store checks", func(t *testing.T) {
		_, err := g.UpdateEventStatus(ctx, hack, models.EventStatus("archived"))
		assert.True(t, IsConstraint(err))

		_, err = g.UpdateEventFunding(ctx, hack, -5)
		assert.True(t, IsConstraint(err))

		_, err = g.CreateEvent(ctx, models.Event{Title: "x", Description: "x", Category: "x", ProposerID: 9999, Location: "x"})
		assert.True(t, IsConstraint(err), "unknown proposer")
	})

	t.Run("category counts", func(t *testing.T) {
		counts, err := g.CountEventsByCategory(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.CategoryCount{{Category: "tech", Count: 2}, {Category: "music", Count: 1}}, counts)
	})
}

func TestVotes(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	event := seedEvent(t, g, alice, "Hack Night", "tech")

	voted, err := g.HasVoted(ctx, event, alice)
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = g.AddVote(ctx, event, alice)
	require.NoError(t, err)

	_, err = g.AddVote(ctx, event, alice)
	assert.True(t, IsConstraint(err), "second vote must hit the unique constraint")

	voted, err = g.HasVoted(ctx, event, alice)
	require.NoError(t, err)
	assert.True(t, voted)

	n, err := g.CountVotes(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, _, err := g.GetEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 1, e.VoteCount)

	removed, err := g.RemoveVote(ctx, event, alice)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = g.RemoveVote(ctx, event, alice)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestComments(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	event := seedEvent(t, g, alice, "Hack Night", "tech")

	first, err := g.CreateComment(ctx, models.Comment{EventID: event, UserID: alice, Comment: "Count me in"})
	require.NoError(t, err)
	second, err := g.CreateComment(ctx, models.Comment{EventID: event, UserID: alice, Comment: "Bring snacks"})
	require.NoError(t, err)

	_, err = g.CreateComment(ctx, models.Comment{EventID: event, UserID: alice, Comment: "   "})
	assert.True(t, IsConstraint(err))

	c, ok, err := g.GetComment(ctx, first)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", c.UserName)
	assert.Equal(t, "Hack Night", c.EventTitle)

	list, err := g.ListComments(ctx, event)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)

	e, _, err := g.GetEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 2, e.CommentCount)
}

func TestContributions(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	bob := seedUser(t, g, "Bob", "bob@x.edu", models.RoleStudent)
	event := seedEvent(t, g, alice, "Hack Night", "tech")

	fund1, err := g.CreateContribution(ctx, models.Contribution{EventID: event, UserID: bob, Type: models.ContributionFund, Amount: 120})
	require.NoError(t, err)
	fund2, err := g.CreateContribution(ctx, models.Contribution{EventID: event, UserID: bob, Type: models.ContributionFund, Amount: 30})
	require.NoError(t, err)
	skill, err := g.CreateContribution(ctx, models.Contribution{EventID: event, UserID: alice, Type: models.ContributionSkill, Details: "DJ set"})
	require.NoError(t, err)

	c, ok, err := g.GetContribution(ctx, fund1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, c.IsPending())
	assert.Empty(t, c.Details)
	assert.Equal(t, "Bob", c.UserName)

	_, err = g.CreateContribution(ctx, models.Contribution{EventID: event, UserID: bob, Type: "bribe"})
	assert.True(t, IsConstraint(err))

	for _, id := range []int64{fund1, skill} {
		ok, err := g.UpdateContributionStatus(ctx, id, models.ContributionApproved)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err = g.UpdateContributionStatus(ctx, fund2, models.ContributionRejected)
	require.NoError(t, err)
	assert.True(t, ok)

	total, err := g.SumApprovedFunds(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 120.0, total)

	byEvent, err := g.ListContributionsByEvent(ctx, event)
	require.NoError(t, err)
	require.Len(t, byEvent, 3)
	assert.Equal(t, skill, byEvent[0].ID)
	assert.Equal(t, "DJ set", byEvent[0].Details)

	byUser, err := g.ListContributionsByUser(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	stats, ok, err := g.GetUserStats(ctx, alice)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.UserStats{UserID: alice, ProposedEvents: 1, Contributions: 1}, stats)
}

func TestFeedback(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	bob := seedUser(t, g, "Bob", "bob@x.edu", models.RoleStudent)
	event := seedEvent(t, g, alice, "Hack Night", "tech")

	avg, n, err := g.AverageRating(ctx, event)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, n)

	_, err = g.CreateFeedback(ctx, models.Feedback{EventID: event, UserID: bob, Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	// Not unique per user.
	id, err := g.CreateFeedback(ctx, models.Feedback{EventID: event, UserID: bob, Rating: 2})
	require.NoError(t, err)

	_, err = g.CreateFeedback(ctx, models.Feedback{EventID: event, UserID: bob, Rating: 6})
	assert.True(t, IsConstraint(err))

	f, ok, err := g.GetFeedback(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, f.Comment)

	avg, n, err = g.AverageRating(ctx, event)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 1e-9)
	assert.Equal(t, 2, n)

	list, err := g.ListFeedback(ctx, event)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "Bob", list[0].UserName)
}

func TestNotifications(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	alice := seedUser(t, g, "Alice", "alice@x.edu", models.RoleStudent)
	bob := seedUser(t, g, "Bob", "bob@x.edu", models.RoleStudent)
	event := seedEvent(t, g, alice, "Hack Night", "tech")

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := g.CreateNotification(ctx, models.Notification{
			UserID: alice, Type: models.NotifyEventComment, Title: "New comment",
			Message: "Bob commented on Hack Night", RelatedID: &event, ActorID: &bob,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := g.ListNotifications(ctx, alice, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	require.NotNil(t, list[0].RelatedID)
	assert.Equal(t, event, *list[0].RelatedID)
	assert.False(t, list[0].IsRead)

	n, err := g.CountUnreadNotifications(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := g.MarkNotificationRead(ctx, ids[0], bob)
	require.NoError(t, err)
	assert.False(t, ok, "bob cannot read alice's notifications")

	ok, err = g.MarkNotificationRead(ctx, ids[0], alice)
	require.NoError(t, err)
	assert.True(t, ok)

	changed, err := g.MarkAllNotificationsRead(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	n, err = g.CountUnreadNotifications(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func newMockGateway(t *testing.T, timeout time.Duration) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "sqlmock"), timeout), mock
}

func TestErrorClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("constraint", func(t *testing.T) {
		g, mock := newMockGateway(t, time.Second)
		mock.ExpectExec("INSERT INTO votes").WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint})

		_, err := g.AddVote(ctx, 1, 1)
		assert.ErrorIs(t, err, ErrConstraint)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("busy", func(t *testing.T) {
		g, mock := newMockGateway(t, time.Second)
		mock.ExpectQuery("SELECT COUNT").WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})

		_, err := g.CountUsers(ctx)
		assert.ErrorIs(t, err, ErrConnectivity)
	})

	t.Run("other", func(t *testing.T) {
		g, mock := newMockGateway(t, time.Second)
		mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("disk image is malformed"))

		_, err := g.CountUsers(ctx)
		assert.ErrorIs(t, err, ErrStorage)
		assert.NotErrorIs(t, err, ErrConnectivity)
	})

	t.Run("timeout", func(t *testing.T) {
		g, mock := newMockGateway(t, 20*time.Millisecond)
		mock.ExpectQuery("SELECT COUNT").
			WillDelayFor(time.Second).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		start := time.Now()
		_, err := g.CountUsers(ctx)
		assert.ErrorIs(t, err, ErrConnectivity)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("absence is not an error", func(t *testing.T) {
		g, mock := newMockGateway(t, time.Second)
		mock.ExpectQuery("FROM users WHERE user_id").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, ok, err := g.GetUserByID(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

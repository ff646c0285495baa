package rules

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus-events/config"
	"campus-events/database"
	"campus-events/models"
	"campus-events/pkg/db/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	userID  int64 // 0 for broadcasts
	msgType string
	payload interface{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []message
}

func (p *recordingPublisher) Broadcast(msgType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, message{msgType: msgType, payload: payload})
}

func (p *recordingPublisher) SendToUser(userID int64, msgType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, message{userID: userID, msgType: msgType, payload: payload})
}

func (p *recordingPublisher) ofType(msgType string) []message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []message
	for _, m := range p.sent {
		if m.msgType == msgType {
			out = append(out, m)
		}
	}
	return out
}

type fixture struct {
	ctx    context.Context
	gw     *database.Gateway
	engine *Engine
	pub    *recordingPublisher
}

func newFixture(t *testing.T, mutate ...func(*config.Rules)) *fixture {
	t.Helper()
	gw, err := database.Open(sqlite.MemoryDSN(uuid.NewString()), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })

	r := config.DefaultRules()
	for _, m := range mutate {
		m(&r)
	}
	pub := &recordingPublisher{}
	return &fixture{ctx: context.Background(), gw: gw, engine: New(gw, r, pub), pub: pub}
}

func (f *fixture) register(t *testing.T, name, email string, role models.Role) models.User {
	t.Helper()
	if role == models.RoleAdmin {
		u, err := f.engine.CreateAdmin(f.ctx, name, email, "secret123")
		require.NoError(t, err)
		return u
	}
	u, err := f.engine.Register(f.ctx, models.RegisterRequest{
		Name: name, Email: email, Password: "secret123", ConfirmPassword: "secret123", Role: string(role),
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) propose(t *testing.T, proposerID int64, title string, target float64) models.Event {
	t.Helper()
	ev, _, err := f.engine.ProposeEvent(f.ctx, models.CreateEventRequest{
		Title:       title,
		Description: "An evening of building things",
		Category:    "tech",
		ProposerID:  proposerID,
		TargetFunds: target,
		EventDate:   time.Date(2026, 11, 20, 18, 0, 0, 0, time.UTC),
		Location:    "Lab 3",
	})
	require.NoError(t, err)
	return ev
}

func (f *fixture) points(t *testing.T, userID int64) int {
	t.Helper()
	u, err := f.engine.GetUser(f.ctx, userID)
	require.NoError(t, err)
	return u.Points
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	assert.Equal(t, field, ve.Field)
}

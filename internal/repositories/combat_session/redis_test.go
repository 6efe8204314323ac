package combatsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
	"github.com/guildworks/combat-api/internal/pkg/clock"
	redisclient "github.com/guildworks/combat-api/internal/redis"
	combatsession "github.com/guildworks/combat-api/internal/repositories/combat_session"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    redisclient.Client
	repo      combatsession.Repository
	ctx       context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.miniRedis = mr

	client, err := redisclient.NewClient(mr.Addr(), nil)
	s.Require().NoError(err)
	s.client = client

	repo, err := combatsession.NewRedisRepository(&combatsession.Config{
		Client: s.client,
		Clock:  clock.New(),
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.miniRedis.Close()
}

func (s *RedisRepositoryTestSuite) newSession(id string, heroIDs ...string) *entities.CombatSession {
	return &entities.CombatSession{
		ID:             id,
		AccountID:      "acct_1",
		QuestID:        "quest_goblin_warrens",
		HeroIDs:        heroIDs,
		GroupBonus:     -(len(heroIDs) - 1),
		Status:         entities.StatusInProgress,
		CurrentEnemyID: "enemy_goblin",
		StartedAt:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	session := s.newSession("sess_1", "hero_a", "hero_b")

	out, err := s.repo.Create(s.ctx, combatsession.CreateInput{Session: session})
	s.Require().NoError(err)
	s.Equal(int64(1), out.Session.Version)

	s.True(s.miniRedis.Exists("combat_session:sess_1"))
	s.True(s.miniRedis.Exists("combat_hero_lock:hero_a"))
	s.True(s.miniRedis.Exists("combat_hero_lock:hero_b"))

	got, err := s.repo.Get(s.ctx, combatsession.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Equal("sess_1", got.Session.ID)
	s.Equal([]string{"hero_a", "hero_b"}, got.Session.HeroIDs)
	s.Equal(entities.StatusInProgress, got.Session.Status)
	s.Equal(int64(1), got.Session.Version)
}

func (s *RedisRepositoryTestSuite) TestCreateRejectsLockedHero() {
	_, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a", "hero_b"),
	})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_2", "hero_c", "hero_b"),
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
	s.Contains(err.Error(), "hero_b")

	// The failed attempt must not have claimed its other hero
	s.False(s.miniRedis.Exists("combat_hero_lock:hero_c"))
	s.False(s.miniRedis.Exists("combat_session:sess_2"))
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicateSession() {
	_, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a"),
	})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_z"),
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, combatsession.GetInput{SessionID: "sess_missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateBumpsVersion() {
	created, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a"),
	})
	s.Require().NoError(err)

	session := created.Session
	session.Turns = append(session.Turns, entities.TurnRecord{
		DieType:      entities.DieD10,
		Roll:         7,
		RequiredRoll: 9,
		Success:      false,
	})

	updated, err := s.repo.Update(s.ctx, combatsession.UpdateInput{Session: session})
	s.Require().NoError(err)
	s.Equal(int64(2), updated.Session.Version)

	got, err := s.repo.Get(s.ctx, combatsession.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Len(got.Session.Turns, 1)
	s.Equal(int64(2), got.Session.Version)

	// In-progress update keeps the hero lock
	s.True(s.miniRedis.Exists("combat_hero_lock:hero_a"))
}

func (s *RedisRepositoryTestSuite) TestUpdateVersionConflict() {
	created, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a"),
	})
	s.Require().NoError(err)

	stale := *created.Session

	// A first writer lands its update
	_, err = s.repo.Update(s.ctx, combatsession.UpdateInput{Session: created.Session})
	s.Require().NoError(err)

	// The stale copy must be rejected, not silently clobber the winner
	_, err = s.repo.Update(s.ctx, combatsession.UpdateInput{Session: &stale})
	s.Require().Error(err)
	s.True(errors.IsAborted(err))
}

func (s *RedisRepositoryTestSuite) TestTerminalUpdateReleasesHeroLocks() {
	created, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a", "hero_b"),
	})
	s.Require().NoError(err)

	session := created.Session
	session.Status = entities.StatusFled
	now := time.Date(2026, 3, 14, 12, 5, 0, 0, time.UTC)
	session.EndedAt = &now

	_, err = s.repo.Update(s.ctx, combatsession.UpdateInput{Session: session})
	s.Require().NoError(err)

	s.False(s.miniRedis.Exists("combat_hero_lock:hero_a"))
	s.False(s.miniRedis.Exists("combat_hero_lock:hero_b"))

	// Freed heroes can start a new session immediately
	_, err = s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_2", "hero_a"),
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestSecondTerminalUpdateKeepsSuccessorLock() {
	created, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a"),
	})
	s.Require().NoError(err)

	// Victory releases the lock, so the hero can start a new session
	session := created.Session
	session.Status = entities.StatusVictory
	updated, err := s.repo.Update(s.ctx, combatsession.UpdateInput{Session: session})
	s.Require().NoError(err)
	s.False(s.miniRedis.Exists("combat_hero_lock:hero_a"))

	_, err = s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_2", "hero_a"),
	})
	s.Require().NoError(err)

	// The old session's second terminal write (Victory -> Completed) must not
	// delete the lock the new session now owns
	session = updated.Session
	session.Status = entities.StatusCompleted
	_, err = s.repo.Update(s.ctx, combatsession.UpdateInput{Session: session})
	s.Require().NoError(err)
	s.True(s.miniRedis.Exists("combat_hero_lock:hero_a"))
	owner, err := s.miniRedis.Get("combat_hero_lock:hero_a")
	s.Require().NoError(err)
	s.Equal("sess_2", owner)

	_, err = s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_3", "hero_a"),
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestSessionExpires() {
	_, err := s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: s.newSession("sess_1", "hero_a"),
	})
	s.Require().NoError(err)

	s.miniRedis.FastForward(25 * time.Hour)

	_, err = s.repo.Get(s.ctx, combatsession.GetInput{SessionID: "sess_1"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	// The hero lock expires with the session
	s.False(s.miniRedis.Exists("combat_hero_lock:hero_a"))
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	_, err := s.repo.Create(s.ctx, combatsession.CreateInput{Session: nil})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, combatsession.CreateInput{
		Session: &entities.CombatSession{ID: "sess_1"},
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, combatsession.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

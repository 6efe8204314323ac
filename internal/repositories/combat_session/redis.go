package combatsession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
	"github.com/guildworks/combat-api/internal/pkg/clock"
	redisclient "github.com/guildworks/combat-api/internal/redis"
)

const (
	// Key patterns: combat_session:{session_id}, combat_hero_lock:{hero_id}
	sessionKeyPrefix  = "combat_session:"
	heroLockKeyPrefix = "combat_hero_lock:"

	// Sessions and their hero locks share one TTL so an abandoned session
	// never strands its party
	defaultTTL = 24 * time.Hour

	errSessionNil    = "session cannot be nil"
	errSessionIDReq  = "session ID cannot be empty"
	errPartyEmptyReq = "session must have at least one hero"
)

// createScript claims every hero lock and stores the session in one atomic
// step. KEYS[1] is the session key, KEYS[2..] the hero lock keys. ARGV[1] is
// the session JSON, ARGV[2] the session ID, ARGV[3] the TTL in milliseconds.
// Returns 0 on success, -1 if the session already exists, or the 1-based
// party index of the first hero whose lock is held elsewhere.
var createScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return -1
end
for i = 2, #KEYS do
  if redis.call("EXISTS", KEYS[i]) == 1 then
    return i - 1
  end
end
redis.call("HSET", KEYS[1], "data", ARGV[1], "version", 1)
redis.call("PEXPIRE", KEYS[1], ARGV[3])
for i = 2, #KEYS do
  redis.call("SET", KEYS[i], ARGV[2], "PX", ARGV[3])
end
return 0
`)

// updateScript replaces the session body iff the stored version matches
// ARGV[1], then releases any hero lock keys passed in KEYS[2..] that this
// session still owns (lock value == ARGV[4], the session ID). The ownership
// check keeps a later terminal write from deleting a lock the hero has since
// re-claimed for a new session. Returns the new version, -1 on a version
// conflict, or -2 if the session is gone.
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -2
end
local v = tonumber(redis.call("HGET", KEYS[1], "version"))
if v ~= tonumber(ARGV[1]) then
  return -1
end
redis.call("HSET", KEYS[1], "data", ARGV[2], "version", v + 1)
redis.call("PEXPIRE", KEYS[1], ARGV[3])
for i = 2, #KEYS do
  if redis.call("GET", KEYS[i]) == ARGV[4] then
    redis.call("DEL", KEYS[i])
  end
end
return v + 1
`)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	TTL    time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for combat sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new session and claims its party's hero locks atomically
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	session := input.Session
	if session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDReq)
	}
	if len(session.HeroIDs) == 0 {
		return nil, errors.InvalidArgument(errPartyEmptyReq)
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	keys := make([]string, 0, len(session.HeroIDs)+1)
	keys = append(keys, r.sessionKey(session.ID))
	for _, heroID := range session.HeroIDs {
		keys = append(keys, r.heroLockKey(heroID))
	}

	result, err := createScript.Run(ctx, r.client, keys,
		string(sessionJSON), session.ID, r.ttl.Milliseconds()).Int()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create session in Redis")
	}

	switch {
	case result == -1:
		return nil, errors.AlreadyExistsf("combat session %s already exists", session.ID)
	case result > 0:
		heroID := session.HeroIDs[result-1]
		return nil, errors.AlreadyExistsf(
			"hero %s is already in an active combat session", heroID).
			WithMeta("hero_id", heroID)
	}

	session.Version = 1
	return &CreateOutput{Session: session}, nil
}

// Get retrieves a combat session by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDReq)
	}

	values, err := r.client.HMGet(ctx, r.sessionKey(input.SessionID), "data", "version").Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	data, ok := values[0].(string)
	if !ok || data == "" {
		return nil, errors.NotFoundf("combat session %s not found", input.SessionID)
	}

	var session entities.CombatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	versionStr, ok := values[1].(string)
	if !ok {
		return nil, errors.Internalf("combat session %s has no version field", input.SessionID)
	}
	if _, err := fmt.Sscanf(versionStr, "%d", &session.Version); err != nil {
		return nil, errors.Wrapf(err, "failed to parse session version")
	}

	return &GetOutput{Session: &session}, nil
}

// Update replaces a session guarded by its version and, once the session is
// terminal, releases whichever hero locks it still owns
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	session := input.Session
	if session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDReq)
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	keys := []string{r.sessionKey(session.ID)}
	if session.Status.Terminal() {
		for _, heroID := range session.HeroIDs {
			keys = append(keys, r.heroLockKey(heroID))
		}
	}

	result, err := updateScript.Run(ctx, r.client, keys,
		session.Version, string(sessionJSON), r.ttl.Milliseconds(), session.ID).Int()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update session in Redis")
	}

	switch result {
	case -2:
		return nil, errors.NotFoundf("combat session %s not found", session.ID)
	case -1:
		return nil, errors.Abortedf(
			"combat session %s was modified concurrently", session.ID)
	}

	session.Version = int64(result)
	return &UpdateOutput{Session: session}, nil
}

func (r *redisRepository) sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *redisRepository) heroLockKey(heroID string) string {
	return heroLockKeyPrefix + heroID
}

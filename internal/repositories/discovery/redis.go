package discovery

import (
	"context"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
	"github.com/guildworks/combat-api/internal/pkg/clock"
	redisclient "github.com/guildworks/combat-api/internal/redis"
)

const (
	// Key patterns: combo_discovery:{account_id}:{enemy_id}:{combo_id} for
	// the record hash, combo_discoveries:{account_id} for the account index
	recordKeyPrefix = "combo_discovery:"
	indexKeyPrefix  = "combo_discoveries:"

	errAccountIDEmpty = "account ID cannot be empty"
	errEnemyIDEmpty   = "enemy ID cannot be empty"
	errComboIDEmpty   = "combo ID cannot be empty"
)

// registerScript stamps the discovery time at most once and bumps the
// counters in the same atomic step. KEYS[1] is the record hash, KEYS[2] the
// account index. ARGV[1] is the discovery timestamp (RFC 3339), ARGV[2] is
// "1" on a win, ARGV[3] the index member. Returns 1 when this call made the
// discovery, 0 on replays.
var registerScript = redis.NewScript(`
local created = redis.call("HSETNX", KEYS[1], "first_discovered_at", ARGV[1])
redis.call("HINCRBY", KEYS[1], "uses", 1)
if ARGV[2] == "1" then
  redis.call("HINCRBY", KEYS[1], "wins", 1)
end
redis.call("SADD", KEYS[2], ARGV[3])
return created
`)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
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
}

// NewRedisRepository creates a new Redis repository for combo discoveries
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Register records one use of a combo against a boss
func (r *redisRepository) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	if err := validateTriple(input.AccountID, input.EnemyID, input.ComboID); err != nil {
		return nil, err
	}

	won := "0"
	if input.Won {
		won = "1"
	}

	keys := []string{
		r.recordKey(input.AccountID, input.EnemyID, input.ComboID),
		r.indexKey(input.AccountID),
	}
	member := input.EnemyID + ":" + input.ComboID

	created, err := registerScript.Run(ctx, r.client, keys,
		r.clock.Now().UTC().Format(time.RFC3339Nano), won, member).Int()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to register discovery in Redis")
	}

	return &RegisterOutput{NewDiscovery: created == 1}, nil
}

// Get reads one discovery record
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateTriple(input.AccountID, input.EnemyID, input.ComboID); err != nil {
		return nil, err
	}

	fields, err := r.client.HGetAll(ctx,
		r.recordKey(input.AccountID, input.EnemyID, input.ComboID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get discovery from Redis")
	}
	if len(fields) == 0 {
		return nil, errors.NotFoundf("no discovery of combo %s against enemy %s",
			input.ComboID, input.EnemyID)
	}

	record, err := parseRecord(input.AccountID, input.EnemyID, input.ComboID, fields)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Discovery: record}, nil
}

// List returns every discovery an account has made
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.AccountID == "" {
		return nil, errors.InvalidArgument(errAccountIDEmpty)
	}

	members, err := r.client.SMembers(ctx, r.indexKey(input.AccountID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list discoveries from Redis")
	}

	discoveries := make([]*entities.ComboDiscovery, 0, len(members))
	for _, member := range members {
		enemyID, comboID, ok := strings.Cut(member, ":")
		if !ok {
			return nil, errors.Internalf("malformed discovery index member %q", member)
		}

		fields, err := r.client.HGetAll(ctx,
			r.recordKey(input.AccountID, enemyID, comboID)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get discovery from Redis")
		}
		if len(fields) == 0 {
			// Index member outlived its record; skip it
			continue
		}

		record, err := parseRecord(input.AccountID, enemyID, comboID, fields)
		if err != nil {
			return nil, err
		}
		discoveries = append(discoveries, record)
	}

	return &ListOutput{Discoveries: discoveries}, nil
}

func parseRecord(accountID, enemyID, comboID string, fields map[string]string) (*entities.ComboDiscovery, error) {
	discoveredAt, err := time.Parse(time.RFC3339Nano, fields["first_discovered_at"])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse discovery timestamp")
	}

	uses, err := strconv.ParseInt(fields["uses"], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse discovery use count")
	}

	var wins int64
	if raw, ok := fields["wins"]; ok {
		wins, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse discovery win count")
		}
	}

	return &entities.ComboDiscovery{
		AccountID:         accountID,
		EnemyID:           enemyID,
		ComboID:           comboID,
		FirstDiscoveredAt: discoveredAt,
		Uses:              uses,
		Wins:              wins,
	}, nil
}

func validateTriple(accountID, enemyID, comboID string) error {
	if accountID == "" {
		return errors.InvalidArgument(errAccountIDEmpty)
	}
	if enemyID == "" {
		return errors.InvalidArgument(errEnemyIDEmpty)
	}
	if comboID == "" {
		return errors.InvalidArgument(errComboIDEmpty)
	}
	return nil
}

func (r *redisRepository) recordKey(accountID, enemyID, comboID string) string {
	return recordKeyPrefix + accountID + ":" + enemyID + ":" + comboID
}

func (r *redisRepository) indexKey(accountID string) string {
	return indexKeyPrefix + accountID
}

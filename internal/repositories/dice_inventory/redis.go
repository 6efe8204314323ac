package diceinventory

import (
	"context"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
	redisclient "github.com/guildworks/combat-api/internal/redis"
)

const (
	// Key pattern: dice_inventory:{account_id}, one hash field per die type
	inventoryKeyPrefix = "dice_inventory:"

	errAccountIDEmpty = "account ID cannot be empty"
	errDieTypeInvalid = "die type is invalid"
)

// debitScript decrements a die balance only while it is positive, so
// concurrent debits can never spend a die that isn't there. Returns the new
// balance, or -1 when the balance was already zero.
var debitScript = redis.NewScript(`
local n = tonumber(redis.call("HGET", KEYS[1], ARGV[1]) or "0")
if n <= 0 then
  return -1
end
return redis.call("HINCRBY", KEYS[1], ARGV[1], -1)
`)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for dice inventories
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Get reads all dice balances for an account
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.AccountID == "" {
		return nil, errors.InvalidArgument(errAccountIDEmpty)
	}

	fields, err := r.client.HGetAll(ctx, r.buildKey(input.AccountID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get dice inventory from Redis")
	}

	balances := make(map[entities.DieType]int64, len(fields))
	for field, value := range fields {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse balance for %s", field)
		}
		if count > 0 {
			balances[entities.DieType(field)] = count
		}
	}

	return &GetOutput{Balances: balances}, nil
}

// Grant adds dice to an account's balance
func (r *redisRepository) Grant(ctx context.Context, input GrantInput) (*GrantOutput, error) {
	if input.AccountID == "" {
		return nil, errors.InvalidArgument(errAccountIDEmpty)
	}
	if !input.DieType.Valid() {
		return nil, errors.InvalidArgument(errDieTypeInvalid)
	}
	if input.Count < 1 {
		return nil, errors.InvalidArgument("grant count must be positive")
	}

	balance, err := r.client.HIncrBy(ctx,
		r.buildKey(input.AccountID), string(input.DieType), input.Count).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to grant dice in Redis")
	}

	return &GrantOutput{Balance: balance}, nil
}

// Debit consumes exactly one die of the given type
func (r *redisRepository) Debit(ctx context.Context, input DebitInput) (*DebitOutput, error) {
	if input.AccountID == "" {
		return nil, errors.InvalidArgument(errAccountIDEmpty)
	}
	if !input.DieType.Valid() {
		return nil, errors.InvalidArgument(errDieTypeInvalid)
	}

	balance, err := debitScript.Run(ctx, r.client,
		[]string{r.buildKey(input.AccountID)}, string(input.DieType)).Int64()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to debit die in Redis")
	}

	if balance < 0 {
		return nil, errors.ResourceExhaustedf(
			"no %s dice remaining", input.DieType).
			WithMeta("die_type", string(input.DieType))
	}

	return &DebitOutput{Balance: balance}, nil
}

func (r *redisRepository) buildKey(accountID string) string {
	return inventoryKeyPrefix + accountID
}

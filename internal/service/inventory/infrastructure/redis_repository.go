// internal/service/inventory/infrastructure/redis_repository.go
package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"autohub/internal/pkg/redis"
	"autohub/internal/service/inventory/domain"

	"github.com/pkg/errors"
)

const (
	createScriptName  = "inventory_create"
	reserveScriptName = "inventory_reserve"
	releaseScriptName = "inventory_release"
	resizeScriptName  = "inventory_resize"

	// all keys share the {inventory} hash tag so scripts stay in one slot
	itemKeyPrefix = "{inventory}:item:"
	itemIndexKey  = "{inventory}:items"
)

// script result codes
const (
	codeNotFound = -1
	codeRejected = 0
	codeOK       = 1
	codeExists   = 2
)

// RedisRepository stores each item as a hash. Every mutation is one Lua script,
// so the check and the write cannot interleave with another client.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRepository loads the ledger scripts into the server.
func NewRedisRepository(ctx context.Context, client *redis.Client) (*RedisRepository, error) {
	scripts := map[string]string{
		createScriptName:  createScript,
		reserveScriptName: reserveScript,
		releaseScriptName: releaseScript,
		resizeScriptName:  resizeScript,
	}
	for name, src := range scripts {
		if err := client.LoadScriptFromContent(ctx, name, src); err != nil {
			return nil, err
		}
	}
	return &RedisRepository{client: client, now: time.Now}, nil
}

func itemKey(itemID string) string {
	return itemKeyPrefix + itemID
}

func (r *RedisRepository) Create(ctx context.Context, item *domain.Item) error {
	res, err := r.client.RunScript(ctx, createScriptName, []string{itemKey(item.ItemID), itemIndexKey},
		item.ItemID, item.ID, item.AvailableUnits, item.ReservedUnits, item.Location, item.Version, formatTime(item.LastUpdated))
	if err != nil {
		return errors.Wrap(err, "create inventory script")
	}
	code, _, err := parseScriptResult(res)
	if err != nil {
		return err
	}
	if code == codeExists {
		return errors.WithStack(domain.ErrItemExists)
	}
	return nil
}

func (r *RedisRepository) FindByItemID(ctx context.Context, itemID string) (*domain.Item, error) {
	fields, err := r.client.GetClient().HGetAll(ctx, itemKey(itemID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "hgetall inventory")
	}
	if len(fields) == 0 {
		return nil, errors.WithStack(domain.ErrItemNotFound)
	}
	return itemFromHash(fields)
}

func (r *RedisRepository) List(ctx context.Context) ([]*domain.Item, error) {
	ids, err := r.client.GetClient().SMembers(ctx, itemIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "smembers inventory index")
	}
	sort.Strings(ids)
	out := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		item, err := r.FindByItemID(ctx, id)
		if errors.Is(err, domain.ErrItemNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RedisRepository) Reserve(ctx context.Context, itemID string, units int) (*domain.Item, error) {
	if units < 1 {
		return nil, errors.WithStack(domain.ErrInvalidUnits)
	}
	return r.run(ctx, reserveScriptName, itemID, domain.ErrInsufficientStock, units, formatTime(r.now()))
}

func (r *RedisRepository) Release(ctx context.Context, itemID string, units int) (*domain.Item, error) {
	if units < 1 {
		return nil, errors.WithStack(domain.ErrInvalidUnits)
	}
	return r.run(ctx, releaseScriptName, itemID, domain.ErrInvalidRelease, units, formatTime(r.now()))
}

func (r *RedisRepository) Resize(ctx context.Context, itemID string, available int, location string) (*domain.Item, error) {
	if available < 0 {
		return nil, errors.WithStack(domain.ErrNegativeStock)
	}
	return r.run(ctx, resizeScriptName, itemID, domain.ErrNegativeStock, available, formatTime(r.now()), location)
}

// run executes a mutation script; rejected is returned when its precondition fails.
func (r *RedisRepository) run(ctx context.Context, script, itemID string, rejected error, args ...any) (*domain.Item, error) {
	res, err := r.client.RunScript(ctx, script, []string{itemKey(itemID)}, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", script)
	}
	code, fields, err := parseScriptResult(res)
	if err != nil {
		return nil, err
	}
	switch code {
	case codeOK:
		return itemFromHash(fields)
	case codeNotFound:
		return nil, errors.WithStack(domain.ErrItemNotFound)
	case codeRejected:
		return nil, errors.WithStack(rejected)
	default:
		return nil, errors.Errorf("unknown result code %d from %s", code, script)
	}
}

// parseScriptResult decodes the {code, HGETALL} reply shared by the scripts.
func parseScriptResult(res any) (int64, map[string]string, error) {
	parts, ok := res.([]any)
	if !ok || len(parts) == 0 {
		return 0, nil, errors.Errorf("unexpected script reply %T", res)
	}
	code, ok := parts[0].(int64)
	if !ok {
		return 0, nil, errors.Errorf("unexpected script code %T", parts[0])
	}
	fields := map[string]string{}
	if len(parts) > 1 {
		flat, _ := parts[1].([]any)
		for i := 0; i+1 < len(flat); i += 2 {
			fields[fmt.Sprint(flat[i])] = fmt.Sprint(flat[i+1])
		}
	}
	return code, fields, nil
}

func itemFromHash(h map[string]string) (*domain.Item, error) {
	available, err := strconv.Atoi(h["available"])
	if err != nil {
		return nil, errors.Wrap(err, "parse available")
	}
	reserved, err := strconv.Atoi(h["reserved"])
	if err != nil {
		return nil, errors.Wrap(err, "parse reserved")
	}
	version, _ := strconv.ParseInt(h["version"], 10, 64)
	updated, _ := time.Parse(time.RFC3339Nano, h["updated"])
	return &domain.Item{
		ID:             h["id"],
		ItemID:         h["item_id"],
		AvailableUnits: available,
		ReservedUnits:  reserved,
		Location:       h["location"],
		Version:        version,
		LastUpdated:    updated,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// KEYS[1] item hash, KEYS[2] index set
// ARGV item_id, id, available, reserved, location, version, updated
const createScript = `
if redis.call('EXISTS', KEYS[1]) == 1 then
    return {2}
end
redis.call('HSET', KEYS[1],
    'item_id', ARGV[1], 'id', ARGV[2], 'available', ARGV[3], 'reserved', ARGV[4],
    'location', ARGV[5], 'version', ARGV[6], 'updated', ARGV[7])
redis.call('SADD', KEYS[2], ARGV[1])
return {1, redis.call('HGETALL', KEYS[1])}
`

// ARGV units, updated
const reserveScript = `
local available = redis.call('HGET', KEYS[1], 'available')
if not available then
    return {-1}
end
local units = tonumber(ARGV[1])
if tonumber(available) < units then
    return {0}
end
redis.call('HINCRBY', KEYS[1], 'available', -units)
redis.call('HINCRBY', KEYS[1], 'reserved', units)
redis.call('HINCRBY', KEYS[1], 'version', 1)
redis.call('HSET', KEYS[1], 'updated', ARGV[2])
return {1, redis.call('HGETALL', KEYS[1])}
`

// ARGV units, updated
const releaseScript = `
local reserved = redis.call('HGET', KEYS[1], 'reserved')
if not reserved then
    return {-1}
end
local units = tonumber(ARGV[1])
if tonumber(reserved) < units then
    return {0}
end
redis.call('HINCRBY', KEYS[1], 'reserved', -units)
redis.call('HINCRBY', KEYS[1], 'available', units)
redis.call('HINCRBY', KEYS[1], 'version', 1)
redis.call('HSET', KEYS[1], 'updated', ARGV[2])
return {1, redis.call('HGETALL', KEYS[1])}
`

// ARGV available, updated, location
const resizeScript = `
if redis.call('EXISTS', KEYS[1]) == 0 then
    return {-1}
end
if tonumber(ARGV[1]) < 0 then
    return {0}
end
redis.call('HSET', KEYS[1], 'available', ARGV[1], 'updated', ARGV[2])
if ARGV[3] ~= '' then
    redis.call('HSET', KEYS[1], 'location', ARGV[3])
end
redis.call('HINCRBY', KEYS[1], 'version', 1)
return {1, redis.call('HGETALL', KEYS[1])}
`

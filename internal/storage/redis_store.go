package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/forem/forem-sub028/internal/feed"
	"github.com/forem/forem-sub028/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the production ContentRepository: items live as JSON blobs
// keyed by id, with recency and hotness ZSETs (global and per tag) for
// ordered fetches, a pinned pointer key, and per-viewer follow-graph
// sets. Hotness scores and counters are written out-of-band by whoever
// maintains them; the engine only reads.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func itemKey(id string) string {
	return fmt.Sprintf("content:item:%s", id)
}

func recentZKey(tag string) string {
	if tag == "" {
		return "content:z:recent"
	}
	return fmt.Sprintf("content:tag:%s:recent", tag)
}

func hotZKey(tag string) string {
	if tag == "" {
		return "content:z:hot"
	}
	return fmt.Sprintf("content:tag:%s:hot", tag)
}

func followKey(viewerID, kind string) string {
	return fmt.Sprintf("viewer:%s:%s", viewerID, kind)
}

const pinnedKey = "content:pinned"

// fetchOverscan compensates for client-side filtering (published flag,
// cutoff against a hotness-ordered set, min-hotness against a
// recency-ordered set).
const fetchOverscan = 4

// FetchPublished returns up to sort.Limit published items matching the
// filter, ordered by the requested axis.
func (s *RedisStore) FetchPublished(ctx context.Context, filter feed.FetchFilter, sort feed.FetchSort) ([]model.ContentItem, error) {
	if sort.Limit <= 0 {
		return nil, nil
	}

	var key string
	switch sort.By {
	case feed.SortHotness:
		key = hotZKey(filter.Tag)
	default:
		key = recentZKey(filter.Tag)
	}

	scan := int64(sort.Limit * fetchOverscan)
	var ids []string
	var err error
	if sort.By == feed.SortRecency && !filter.Cutoff.IsZero() {
		// Recency ZSET scores are publication epochs, so the cutoff maps
		// straight to a score range.
		ids, err = s.rdb.ZRevRangeByScore(ctx, key, &redis.ZRangeBy{
			Min:   strconv.FormatInt(filter.Cutoff.Unix(), 10),
			Max:   "+inf",
			Count: scan,
		}).Result()
	} else {
		ids, err = s.rdb.ZRevRange(ctx, key, 0, scan-1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("fetch ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.ContentItem, 0, sort.Limit)
	for _, it := range items {
		if !it.Published {
			continue
		}
		if !filter.Cutoff.IsZero() && it.PublishedAt.Before(filter.Cutoff) {
			continue
		}
		if filter.MinHotness > 0 && it.Hotness < filter.MinHotness {
			continue
		}
		out = append(out, it)
		if len(out) == sort.Limit {
			break
		}
	}
	return out, nil
}

func (s *RedisStore) loadItems(ctx context.Context, ids []string) ([]model.ContentItem, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	items := make([]model.ContentItem, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok { // id in the ZSET but blob evicted; skip
			continue
		}
		var it model.ContentItem
		if err := json.Unmarshal([]byte(str), &it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// ResolveFollowGraph loads the viewer's follow sets and tag weights.
func (s *RedisStore) ResolveFollowGraph(ctx context.Context, viewerID string) (model.FollowGraph, error) {
	var g model.FollowGraph
	users, err := s.rdb.SMembers(ctx, followKey(viewerID, "follows:users")).Result()
	if err != nil {
		return g, fmt.Errorf("follow graph users: %w", err)
	}
	orgs, err := s.rdb.SMembers(ctx, followKey(viewerID, "follows:orgs")).Result()
	if err != nil {
		return g, fmt.Errorf("follow graph orgs: %w", err)
	}
	blocked, err := s.rdb.SMembers(ctx, followKey(viewerID, "blocked")).Result()
	if err != nil {
		return g, fmt.Errorf("follow graph blocked: %w", err)
	}
	tags, err := s.rdb.HGetAll(ctx, followKey(viewerID, "follows:tags")).Result()
	if err != nil {
		return g, fmt.Errorf("follow graph tags: %w", err)
	}
	g.FollowedUsers = users
	g.FollowedOrgs = orgs
	g.BlockedAuthors = blocked
	g.FollowedTags = make(map[string]float64, len(tags))
	for tag, raw := range tags {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			w = 1.0
		}
		g.FollowedTags[tag] = w
	}
	return g, nil
}

// GetPinned returns the currently pinned item, or nil when none is set or
// the pointed-to item is gone.
func (s *RedisStore) GetPinned(ctx context.Context) (*model.ContentItem, error) {
	id, err := s.rdb.Get(ctx, pinnedKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pinned id: %w", err)
	}
	b, err := s.rdb.Get(ctx, itemKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pinned item: %w", err)
	}
	var it model.ContentItem
	if err := json.Unmarshal(b, &it); err != nil {
		return nil, fmt.Errorf("pinned item: %w", err)
	}
	return &it, nil
}

// UpsertItem stores an item blob and indexes it in the global and per-tag
// ZSETs. Used by the seed command; production content flows arrive the
// same way from the ingestion side.
func (s *RedisStore) UpsertItem(ctx context.Context, it model.ContentItem) error {
	b, err := json.Marshal(it)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, itemKey(it.ID), b, 0).Err(); err != nil {
		return err
	}
	epoch := redis.Z{Score: float64(it.PublishedAt.Unix()), Member: it.ID}
	hot := redis.Z{Score: it.Hotness, Member: it.ID}
	if err := s.rdb.ZAdd(ctx, recentZKey(""), epoch).Err(); err != nil {
		return err
	}
	if err := s.rdb.ZAdd(ctx, hotZKey(""), hot).Err(); err != nil {
		return err
	}
	for _, tag := range it.Tags {
		if err := s.rdb.ZAdd(ctx, recentZKey(tag), epoch).Err(); err != nil {
			return err
		}
		if err := s.rdb.ZAdd(ctx, hotZKey(tag), hot).Err(); err != nil {
			return err
		}
	}
	return nil
}

// SetPinned points the pinned key at an item id; empty id clears it.
func (s *RedisStore) SetPinned(ctx context.Context, id string) error {
	if id == "" {
		return s.rdb.Del(ctx, pinnedKey).Err()
	}
	return s.rdb.Set(ctx, pinnedKey, id, 0).Err()
}

// SaveFollowGraph replaces a viewer's follow sets.
func (s *RedisStore) SaveFollowGraph(ctx context.Context, viewerID string, g model.FollowGraph) error {
	keys := []string{
		followKey(viewerID, "follows:users"),
		followKey(viewerID, "follows:orgs"),
		followKey(viewerID, "blocked"),
		followKey(viewerID, "follows:tags"),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	if len(g.FollowedUsers) > 0 {
		if err := s.rdb.SAdd(ctx, keys[0], toAny(g.FollowedUsers)...).Err(); err != nil {
			return err
		}
	}
	if len(g.FollowedOrgs) > 0 {
		if err := s.rdb.SAdd(ctx, keys[1], toAny(g.FollowedOrgs)...).Err(); err != nil {
			return err
		}
	}
	if len(g.BlockedAuthors) > 0 {
		if err := s.rdb.SAdd(ctx, keys[2], toAny(g.BlockedAuthors)...).Err(); err != nil {
			return err
		}
	}
	for tag, w := range g.FollowedTags {
		if err := s.rdb.HSet(ctx, keys[3], tag, strconv.FormatFloat(w, 'f', -1, 64)).Err(); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

var _ feed.ContentRepository = (*RedisStore)(nil)

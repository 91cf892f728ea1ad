// Package presence tracks which users hold a live session in a room.
// A room is a team; membership decays unless refreshed by heartbeats.
package presence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrUnknownSession = errors.New("unknown presence session")

// Entry is one user's state in a room snapshot.
type Entry struct {
	UserID   int64     `json:"user_id"`
	Online   bool      `json:"online"`
	LastSeen time.Time `json:"last_seen"`
}

type Service interface {
	Heartbeat(ctx context.Context, room string, userID int64, sessionID string, interval time.Duration) (string, error)
	List(ctx context.Context, room string) ([]Entry, error)
	OnlineUserIDs(ctx context.Context, room string) (map[int64]bool, error)
	Disconnect(ctx context.Context, sessionToken string) error
}

type redisService struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisService(client *redis.Client, ttl time.Duration) Service {
	return newRedisService(client, ttl, time.Now)
}

func newRedisService(client *redis.Client, ttl time.Duration, now func() time.Time) *redisService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisService{client: client, ttl: ttl, now: now}
}

func roomKey(room string) string {
	return "presence:room:" + room
}

func sessionKey(token string) string {
	return "presence:session:" + token
}

func member(userID int64, sessionID string) string {
	return strconv.FormatInt(userID, 10) + ":" + sessionID
}

func parseMember(m string) (int64, bool) {
	uid, _, ok := strings.Cut(m, ":")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Heartbeat marks the session alive for twice the client interval (never
// less than the configured TTL). An empty sessionID starts a new session.
// It returns the session token to pass to Disconnect.
func (s *redisService) Heartbeat(ctx context.Context, room string, userID int64, sessionID string, interval time.Duration) (string, error) {
	if room == "" {
		return "", fmt.Errorf("heartbeat: empty room")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	window := max(2*interval, s.ttl)
	expiresAt := s.now().Add(window)

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, roomKey(room), redis.Z{
		Score:  float64(expiresAt.UnixMilli()),
		Member: member(userID, sessionID),
	})
	pipe.HSet(ctx, sessionKey(sessionID), "room", room, "user_id", userID)
	pipe.Expire(ctx, sessionKey(sessionID), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("heartbeat: %w", err)
	}
	return sessionID, nil
}

// List prunes expired sessions and returns one entry per user currently
// holding at least one session in room.
func (s *redisService) List(ctx context.Context, room string) ([]Entry, error) {
	key := roomKey(room)
	nowMs := s.now().UnixMilli()

	if err := s.client.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(nowMs, 10)).Err(); err != nil {
		return nil, fmt.Errorf("prune presence: %w", err)
	}
	members, err := s.client.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	byUser := make(map[int64]int)
	var entries []Entry
	for _, z := range members {
		raw, _ := z.Member.(string)
		uid, ok := parseMember(raw)
		if !ok {
			slog.WarnContext(ctx, "skipping malformed presence member", "room", room, "member", raw)
			continue
		}
		lastSeen := time.UnixMilli(int64(z.Score)).Add(-s.ttl)
		if i, seen := byUser[uid]; seen {
			if lastSeen.After(entries[i].LastSeen) {
				entries[i].LastSeen = lastSeen
			}
			continue
		}
		byUser[uid] = len(entries)
		entries = append(entries, Entry{UserID: uid, Online: true, LastSeen: lastSeen})
	}
	return entries, nil
}

func (s *redisService) OnlineUserIDs(ctx context.Context, room string) (map[int64]bool, error) {
	entries, err := s.List(ctx, room)
	if err != nil {
		return nil, err
	}
	online := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if e.Online {
			online[e.UserID] = true
		}
	}
	return online, nil
}

func (s *redisService) Disconnect(ctx context.Context, sessionToken string) error {
	vals, err := s.client.HGetAll(ctx, sessionKey(sessionToken)).Result()
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	room, uid := vals["room"], vals["user_id"]
	if room == "" || uid == "" {
		return ErrUnknownSession
	}

	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, roomKey(room), uid+":"+sessionToken)
	pipe.Del(ctx, sessionKey(sessionToken))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

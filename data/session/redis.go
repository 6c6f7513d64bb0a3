package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/utils"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "stocknity:session:"

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (r *RedisSession) GetSession(ctx context.Context, key string) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetSession start", slog.String("rqID", rqID), slog.String("key", key))

	res, err := r.redis.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{BackendCookies: model.BackendCookies{}}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{BackendCookies: model.BackendCookies{}}, err
	}

	sess := model.Session{}
	err = json.Unmarshal([]byte(res), &sess)
	if err != nil {
		slog.Error("can't unmarshall session", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{BackendCookies: model.BackendCookies{}}, errors.New("can't unmarshall session")
	}

	if sess.BackendCookies == nil {
		sess.BackendCookies = model.BackendCookies{}
	}

	slog.Debug("GetSession finished", slog.String("rqID", rqID), slog.String("key", key))

	return sess, nil
}

func (r *RedisSession) SetSession(ctx context.Context, key string, sess model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetSession start", slog.String("rqID", rqID), slog.String("key", key))

	sessJson, err := json.Marshal(sess)
	if err != nil {
		slog.Error("can't marshall session", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall session")
	}

	err = r.redis.Set(ctx, keyPrefix+key, sessJson, r.cfg.Session.Expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	slog.Debug("SetSession finished", slog.String("rqID", rqID), slog.String("key", key))

	return nil
}

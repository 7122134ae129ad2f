package service

import (
	"context"
	log "log/slog"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/redis"

	"github.com/goccy/go-json"
)

// ConfigStore 领域配置的持久化抽象，生产环境落在 redis
type ConfigStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, raw string) error
}

type redisConfigStore struct{}

func NewRedisConfigStore() ConfigStore {
	return &redisConfigStore{}
}

func (s *redisConfigStore) Load(ctx context.Context) (string, error) {
	return redis.GetValue(ctx, consts.NicheConfigKey)
}

func (s *redisConfigStore) Save(ctx context.Context, raw string) error {
	return redis.SetValue(ctx, consts.NicheConfigKey, raw)
}

type ConfigService interface {
	Get(ctx context.Context) (*model.NicheConfig, error)
	Update(ctx context.Context, cfg *model.NicheConfig) (*model.NicheConfig, error)
}

type configServiceImpl struct {
	store ConfigStore
}

func NewConfigService(store ConfigStore) ConfigService {
	return &configServiceImpl{store: store}
}

// Get 读取领域配置，不存在或损坏时回退默认配置
func (s *configServiceImpl) Get(ctx context.Context) (*model.NicheConfig, error) {
	raw, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return model.DefaultNicheConfig(), nil
	}

	var cfg model.NicheConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		log.WarnContext(ctx, "领域配置反序列化失败，回退默认配置", "err", err)
		return model.DefaultNicheConfig(), nil
	}
	return &cfg, nil
}

// Update 校验后整体覆盖写入
func (s *configServiceImpl) Update(ctx context.Context, cfg *model.NicheConfig) (*model.NicheConfig, error) {
	if cfg == nil || cfg.Niche == "" {
		return nil, ErrNicheConfigInvalid
	}
	for platform, freq := range cfg.Frequencies {
		if !model.IsKnownPlatform(platform) {
			return nil, ErrNicheConfigInvalid
		}
		if freq < 0 || freq > 24 {
			return nil, ErrNicheConfigInvalid
		}
	}

	cfg.UpdatedAt = time.Now()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, string(raw)); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "领域配置已更新", "niche", cfg.Niche)
	return cfg, nil
}

package app

import (
	"context"

	"hiring-service/internal/config"
	"hiring-service/internal/db"
	"hiring-service/internal/discord"
	"hiring-service/internal/logger"
	"hiring-service/internal/redis"

	"github.com/bwmarrin/discordgo"
	_ "github.com/lib/pq"
)

// Infra holds the process-wide clients. Each is created once here and
// closed by App.Shutdown.
type Infra struct {
	DB      *db.DB
	Discord *discordgo.Session
	Redis   *redis.Client // nil unless the login flow is configured
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, "postgres", cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigration(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("database ready", map[string]any{
		"max_conns": cfg.DBMaxConns,
	})

	bot, err := discord.NewBotSession(cfg.DiscordBotToken)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	infra := &Infra{
		DB:      database,
		Discord: bot,
	}

	if cfg.OAuthEnabled() {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Redis = redisClient
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var firstErr error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if i.Discord != nil {
		// Only the REST client was used; Close is a no-op without a gateway.
		_ = i.Discord.Close()
	}
	if err := i.DB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

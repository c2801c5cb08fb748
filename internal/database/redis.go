package database

import (
	"github.com/go-redis/redis"

	"github.com/liuwen-dev/vocana/internal/config"
)

func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		return nil, err
	}
	return client, nil
}

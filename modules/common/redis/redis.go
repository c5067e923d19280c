package redis

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"swapmock-server/modules/common/config"
)

// 연결 확인용 ping 제한시간
const pingTimeout = 10 * time.Second

// Connect - mockup job queue용 Redis 연결 생성
// enqueue 핸들러와 BRPOP worker만 쓰므로 pool은 작게 유지
func Connect(cfg *config.Config) *redis.Client {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	// 관리형 Redis는 TLS 필요, 로컬은 REDIS_USE_TLS=false
	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true,
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:      cfg.GetRedisAddr(),
		Username:  cfg.RedisUsername,
		Password:  cfg.RedisPassword,
		TLSConfig: tlsConfig,
		DB:        0,

		PoolSize:     4,
		MinIdleConns: 1,

		DialTimeout: 10 * time.Second,
		// worker가 BRPOP(timeout 0)으로 무기한 블로킹 - 읽기 제한시간 없음
		ReadTimeout:  -1,
		WriteTimeout: 30 * time.Second,
	})

	// 연결 테스트
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil
	}

	log.Println("✅ Redis connected successfully")
	return rdb
}

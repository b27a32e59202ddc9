package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/malik111110/student-bot/config"
)

// ErrLockHeld 锁已被其他实例持有
var ErrLockHeld = errors.New("redis 锁已被持有")

// Client Redis 客户端封装
// 用于通知投递的分布式锁与当前学年缓存
type Client struct {
	rdb    goredis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return newClient(rdb, cfg.CurrentPeriodTTL, logger), nil
}

func newClient(rdb goredis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Client {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Client{rdb: rdb, ttl: ttl, logger: logger}
}

// ── 分布式锁 ──

const lockPrefix = "lock:"

// 仅当持有者 token 匹配时删除
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 以 SET NX 获取锁，返回用于释放的 token；锁已被持有时返回 ErrLockHeld
func (c *Client) Lock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("获取锁 %s 失败: %w", key, err)
	}
	if !ok {
		return "", ErrLockHeld
	}
	return token, nil
}

// Unlock 释放锁（锁已过期或被他人持有时不做任何事）
func (c *Client) Unlock(ctx context.Context, key, token string) error {
	if err := unlockScript.Run(ctx, c.rdb, []string{lockPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("释放锁 %s 失败: %w", key, err)
	}
	return nil
}

// ── 限流 ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit 固定窗口计数：窗口内第 limit+1 次起返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateLimitPrefix + key
	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("限流计数失败: %w", err)
	}
	if n == 1 {
		// 窗口内首次请求负责设置过期
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("限流计数失败: %w", err)
		}
	}
	return n <= int64(limit), nil
}

// ── 当前学年缓存 ──
// 失效时递增代数；未命中的读者只在代数未变时回填，避免把失效前读到的旧值写回

const (
	currentPeriodKey    = "period:current"
	currentPeriodGenKey = "period:current:gen"
)

// CachedPeriod 缓存中的当前学年快照
type CachedPeriod struct {
	PeriodID  string    `json:"period_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

var fillScript = goredis.NewScript(`
if (redis.call("GET", KEYS[2]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

var invalidateScript = goredis.NewScript(`
redis.call("INCR", KEYS[2])
return redis.call("DEL", KEYS[1])
`)

// GetCurrentPeriod 读取缓存；未命中返回 nil 与当前代数，供 FillCurrentPeriod 比较
func (c *Client) GetCurrentPeriod(ctx context.Context) (*CachedPeriod, int64, error) {
	vals, err := c.rdb.MGet(ctx, currentPeriodKey, currentPeriodGenKey).Result()
	if err != nil {
		return nil, 0, err
	}
	var gen int64
	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("当前学年缓存代数无效: %w", err)
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var p CachedPeriod
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// 损坏的缓存视为未命中，由回填覆盖
		c.logger.Warn("当前学年缓存无法解析，已忽略", zap.Error(err))
		return nil, gen, nil
	}
	return &p, gen, nil
}

// FillCurrentPeriod 代数仍为 gen 时写入缓存（TTL 兜底），返回是否写入
func (c *Client) FillCurrentPeriod(ctx context.Context, p *CachedPeriod, gen int64) (bool, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return false, err
	}
	n, err := fillScript.Run(ctx, c.rdb,
		[]string{currentPeriodKey, currentPeriodGenKey},
		strconv.FormatInt(gen, 10), string(raw), c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InvalidateCurrentPeriod 递增代数并删除缓存，下一次读取回源数据库
func (c *Client) InvalidateCurrentPeriod(ctx context.Context) error {
	return invalidateScript.Run(ctx, c.rdb, []string{currentPeriodKey, currentPeriodGenKey}).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

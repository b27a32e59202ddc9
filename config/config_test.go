package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Isolation: "serializable"},
		Auth:     AuthConfig{JWTSecret: "0123456789abcdef"},
		Grading: GradingConfig{
			MinGrade: 0,
			MaxGrade: 20,
			PassMark: 10,
			Letters: []LetterThreshold{
				{Min: 10, Letter: "D"},
				{Min: 18, Letter: "A+"},
				{Min: 0, Letter: "F"},
			},
		},
		Notification: NotificationConfig{
			SweepInterval: time.Second,
			BatchSize:     10,
			LockTTL:       25 * time.Second,
			ClaimTimeout:  5 * time.Minute,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("期望校验通过，实际: %v", err)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望 jwt_secret 过短时校验失败")
	}
}

func TestValidate_BadIsolation(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Isolation = "snapshot"
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望无效隔离级别时校验失败")
	}
}

func TestValidate_NotificationLockTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Notification.LockTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望 lock_ttl 为 0 时校验失败")
	}
}

func TestValidate_NotificationClaimTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Notification.ClaimTimeout = cfg.Notification.LockTTL
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望 claim_timeout 不大于 lock_ttl 时校验失败")
	}
}

func TestGradingValidate_DuplicateThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.Grading.Letters = append(cfg.Grading.Letters, LetterThreshold{Min: 10, Letter: "E"})
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望重复阈值时校验失败")
	}
}

func TestGradingValidate_OutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Grading.Letters = append(cfg.Grading.Letters, LetterThreshold{Min: 25, Letter: "S"})
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望阈值超出区间时校验失败")
	}
}

func TestSortedLetters_Descending(t *testing.T) {
	cfg := validConfig()
	sorted := cfg.Grading.SortedLetters()
	if sorted[0].Letter != "A+" || sorted[2].Letter != "F" {
		t.Errorf("期望降序排列，实际: %+v", sorted)
	}
	// 原切片不应被修改
	if cfg.Grading.Letters[0].Letter != "D" {
		t.Error("SortedLetters 不应修改原配置")
	}
}

func TestDSN_StatementTimeout(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 5432, User: "u", Name: "d", SSLMode: "disable", Timezone: "UTC", StatementTimeout: 2 * time.Second}
	want := "host=h port=5432 user=u password= dbname=d sslmode=disable TimeZone=UTC statement_timeout=2000"
	if got := c.DSN(); got != want {
		t.Errorf("DSN 不符合预期:\n got=%s\nwant=%s", got, want)
	}
}

func TestLoad_DefaultsWithEnvOverride(t *testing.T) {
	t.Setenv("CAMPUS_AUTH_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("CAMPUS_REACTIONS_WARNING_THRESHOLD", "5")
	t.Setenv("CAMPUS_DB_ISOLATION", "read_committed")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("期望加载成功，实际: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret-0123456789" {
		t.Errorf("环境变量未生效: %q", cfg.Auth.JWTSecret)
	}
	if cfg.Reactions.WarningThreshold != 5 {
		t.Errorf("期望阈值 5，实际 %d", cfg.Reactions.WarningThreshold)
	}
	if cfg.Database.Isolation != "read_committed" {
		t.Errorf("期望 read_committed，实际 %s", cfg.Database.Isolation)
	}
	if cfg.Notification.SweepInterval != 30*time.Second {
		t.Errorf("期望默认投递间隔 30s，实际 %v", cfg.Notification.SweepInterval)
	}
	if cfg.Notification.ClaimTimeout != 5*time.Minute {
		t.Errorf("期望默认认领超时 5m，实际 %v", cfg.Notification.ClaimTimeout)
	}
	if len(cfg.Grading.Letters) != 6 || cfg.Grading.SortedLetters()[0].Letter != "A+" {
		t.Errorf("默认字母阶梯异常: %+v", cfg.Grading.Letters)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CAMPUS_AUTH_JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatal("期望缺少 jwt_secret 时加载失败")
	}
}

package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObserved(level string) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func TestParseGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"info":    gormlogger.Info,
		"warn":    gormlogger.Warn,
		"unknown": gormlogger.Warn,
	}
	for in, want := range cases {
		if got := ParseGormLevel(in); got != want {
			t.Errorf("ParseGormLevel(%q)=%v，期望 %v", in, got, want)
		}
	}
}

func TestGormLogger_TraceError(t *testing.T) {
	l, logs := newObserved("error")
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	if logs.Len() != 1 || logs.All()[0].Message != "SQL 执行失败" {
		t.Fatalf("期望记录一条错误日志，实际: %d", logs.Len())
	}
}

func TestGormLogger_RecordNotFoundIgnored(t *testing.T) {
	l, logs := newObserved("error")
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	if logs.Len() != 0 {
		t.Fatalf("记录不存在不应记录错误日志，实际: %d", logs.Len())
	}
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, logs := newObserved("warn")
	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT pg_sleep(1)", 1 }, nil)
	if logs.Len() != 1 || logs.All()[0].Message != "慢查询" {
		t.Fatalf("期望记录慢查询，实际: %d", logs.Len())
	}
}

func TestGormLogger_Silent(t *testing.T) {
	l, logs := newObserved("silent")
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	if logs.Len() != 0 {
		t.Fatal("silent 模式不应输出日志")
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/model"
	"github.com/malik111110/student-bot/pkg/redis"
)

func createPeriod(t *testing.T, svc *Service, name, start, end string, current bool) *model.AcademicPeriod {
	t.Helper()
	p, err := svc.Period.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: name, StartDate: start, EndDate: end, IsCurrent: current,
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreatePeriod 应成功: %v", err)
	}
	return p
}

func countCurrentPeriods(s *memStore) int {
	return s.count(func(s *memStore) int {
		n := 0
		for _, p := range s.periods {
			if p.IsCurrent {
				n++
			}
		}
		return n
	})
}

// ── CreatePeriod 测试 ──

func TestPeriodService_CreatePeriod_InvalidDate(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Period.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: "2025-2026", StartDate: "2026-07-01", EndDate: "2025-09-01",
	}, "admin-001")
	if !errors.Is(err, ErrPeriodDateInvalid) {
		t.Errorf("期望 ErrPeriodDateInvalid，实际: %v", err)
	}

	_, err = svc.Period.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: "2025-2026", StartDate: "2025/09/01", EndDate: "2026-07-01",
	}, "admin-001")
	if !errors.Is(err, errDateFormat) {
		t.Errorf("期望日期格式错误，实际: %v", err)
	}
}

func TestPeriodService_CreatePeriod_CurrentDemotesOthers(t *testing.T) {
	svc, store := setupTestService(t)

	first := createPeriod(t, svc, "2024-2025", "2024-09-01", "2025-07-15", true)
	second := createPeriod(t, svc, "2025-2026", "2025-09-01", "2026-07-15", true)

	if n := countCurrentPeriods(store); n != 1 {
		t.Fatalf("期望恰好 1 个当前学年，实际 %d", n)
	}
	current, err := svc.Period.GetCurrentPeriod(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentPeriod 应成功: %v", err)
	}
	if current.PeriodID != second.PeriodID {
		t.Errorf("期望当前学年为 %s，实际 %s", second.PeriodID, current.PeriodID)
	}
	if !store.wasTouched(model.EntityAcademicPeriod, first.PeriodID) {
		t.Error("被降级的学年应刷新 updated_at")
	}
}

// ── SetCurrentPeriod 测试 ──

func TestPeriodService_SetCurrentPeriod_Singleton(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	a := createPeriod(t, svc, "A", "2023-09-01", "2024-07-15", true)
	b := createPeriod(t, svc, "B", "2024-09-01", "2025-07-15", false)
	c := createPeriod(t, svc, "C", "2025-09-01", "2026-07-15", false)

	for _, id := range []string{b.PeriodID, c.PeriodID, a.PeriodID, a.PeriodID} {
		if err := svc.Period.SetCurrentPeriod(ctx, id, "admin-001"); err != nil {
			t.Fatalf("SetCurrentPeriod(%s) 应成功: %v", id, err)
		}
		if n := countCurrentPeriods(store); n != 1 {
			t.Fatalf("任意时刻最多一个当前学年，实际 %d", n)
		}
	}
	current, _ := svc.Period.GetCurrentPeriod(ctx)
	if current.PeriodID != a.PeriodID {
		t.Errorf("期望当前学年为 A，实际 %s", current.Name)
	}
}

func TestPeriodService_SetCurrentPeriod_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)

	err := svc.Period.SetCurrentPeriod(context.Background(), "00000000-0000-0000-0000-000000000000", "admin-001")
	if !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("期望 ErrPeriodNotFound，实际: %v", err)
	}
}

func TestPeriodService_GetCurrentPeriod_None(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Period.GetCurrentPeriod(context.Background())
	if !errors.Is(err, ErrNoCurrentPeriod) {
		t.Errorf("期望 ErrNoCurrentPeriod，实际: %v", err)
	}
}

// ── 学期 ──

func TestPeriodService_CreateSemester_OrdinalRules(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	p := createPeriod(t, svc, "2025-2026", "2025-09-01", "2026-07-15", false)

	_, err := svc.Period.CreateSemester(ctx, &dto.CreateSemesterRequest{
		PeriodID: p.PeriodID, Ordinal: 3, Name: "S3", StartDate: "2026-02-01", EndDate: "2026-06-30",
	}, "admin-001")
	if !errors.Is(err, ErrSemesterOrdinalInvalid) {
		t.Errorf("期望 ErrSemesterOrdinalInvalid，实际: %v", err)
	}

	req := &dto.CreateSemesterRequest{
		PeriodID: p.PeriodID, Ordinal: 1, Name: "S1", StartDate: "2025-09-01", EndDate: "2026-01-31",
	}
	if _, err := svc.Period.CreateSemester(ctx, req, "admin-001"); err != nil {
		t.Fatalf("CreateSemester 应成功: %v", err)
	}
	_, err = svc.Period.CreateSemester(ctx, req, "admin-001")
	if !errors.Is(err, ErrSemesterOrdinalTaken) {
		t.Errorf("期望 ErrSemesterOrdinalTaken，实际: %v", err)
	}
}

func TestPeriodService_SetCurrentSemester_PerPeriod(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	p := createPeriod(t, svc, "2025-2026", "2025-09-01", "2026-07-15", true)

	s1, err := svc.Period.CreateSemester(ctx, &dto.CreateSemesterRequest{
		PeriodID: p.PeriodID, Ordinal: 1, Name: "S1", StartDate: "2025-09-01", EndDate: "2026-01-31", IsCurrent: true,
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateSemester 应成功: %v", err)
	}
	s2, err := svc.Period.CreateSemester(ctx, &dto.CreateSemesterRequest{
		PeriodID: p.PeriodID, Ordinal: 2, Name: "S2", StartDate: "2026-02-01", EndDate: "2026-06-30",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateSemester 应成功: %v", err)
	}

	if err := svc.Period.SetCurrentSemester(ctx, s2.SemesterID, "admin-001"); err != nil {
		t.Fatalf("SetCurrentSemester 应成功: %v", err)
	}
	list, _ := svc.Period.ListSemesters(ctx, p.PeriodID)
	current := 0
	for _, s := range list {
		if s.IsCurrent {
			current++
			if s.SemesterID != s2.SemesterID {
				t.Errorf("期望当前学期为 S2，实际 %s", s.Name)
			}
		}
	}
	if current != 1 {
		t.Errorf("同一学年内应恰好一个当前学期，实际 %d", current)
	}
	if _, err := svc.Period.GetCurrentSemester(ctx, p.PeriodID); err != nil {
		t.Errorf("GetCurrentSemester 应成功: %v", err)
	}
	for _, s := range list {
		if s.SemesterID == s1.SemesterID && s.IsCurrent {
			t.Error("S1 的当前标记应被清除")
		}
	}
}

// ── 缓存 ──

type fakePeriodCache struct {
	value       *redis.CachedPeriod
	gen         int64
	invalidated int
	// beforeFill 在回填比较代数前执行一次，用于模拟回源期间的切换
	beforeFill func()
}

func (f *fakePeriodCache) GetCurrentPeriod(context.Context) (*redis.CachedPeriod, int64, error) {
	return f.value, f.gen, nil
}

func (f *fakePeriodCache) FillCurrentPeriod(_ context.Context, p *redis.CachedPeriod, gen int64) (bool, error) {
	if hook := f.beforeFill; hook != nil {
		f.beforeFill = nil
		hook()
	}
	if gen != f.gen {
		return false, nil
	}
	f.value = p
	return true, nil
}

func (f *fakePeriodCache) InvalidateCurrentPeriod(context.Context) error {
	f.value = nil
	f.gen++
	f.invalidated++
	return nil
}

func TestPeriodService_CacheInvalidatedOnSwitch(t *testing.T) {
	repo, _ := newMockRepository()
	svc, err := NewService(testConfig(), repo, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService 应成功: %v", err)
	}
	cache := &fakePeriodCache{}
	periods := NewPeriodService(repo, svc.Dispatcher, cache, zap.NewNop())
	ctx := context.Background()

	a, _ := periods.CreatePeriod(ctx, &dto.CreatePeriodRequest{Name: "A", StartDate: "2024-09-01", EndDate: "2025-07-01", IsCurrent: true}, "")
	b, _ := periods.CreatePeriod(ctx, &dto.CreatePeriodRequest{Name: "B", StartDate: "2025-09-01", EndDate: "2026-07-01"}, "")

	got, _ := periods.GetCurrentPeriod(ctx)
	if got.PeriodID != a.PeriodID || cache.value == nil {
		t.Fatal("首次读取应回源并写入缓存")
	}
	if !cache.value.StartDate.Equal(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("缓存快照日期错误: %v", cache.value.StartDate)
	}

	if err := periods.SetCurrentPeriod(ctx, b.PeriodID, ""); err != nil {
		t.Fatalf("SetCurrentPeriod 应成功: %v", err)
	}
	if cache.value != nil {
		t.Error("切换当前学年后缓存应被失效")
	}
	got, _ = periods.GetCurrentPeriod(ctx)
	if got.PeriodID != b.PeriodID {
		t.Errorf("失效后应读到新的当前学年，实际 %s", got.Name)
	}
}

func TestPeriodService_CacheFillSkippedAfterConcurrentSwitch(t *testing.T) {
	repo, _ := newMockRepository()
	svc, err := NewService(testConfig(), repo, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService 应成功: %v", err)
	}
	cache := &fakePeriodCache{}
	periods := NewPeriodService(repo, svc.Dispatcher, cache, zap.NewNop())
	ctx := context.Background()

	a, _ := periods.CreatePeriod(ctx, &dto.CreatePeriodRequest{Name: "A", StartDate: "2024-09-01", EndDate: "2025-07-01", IsCurrent: true}, "")
	b, _ := periods.CreatePeriod(ctx, &dto.CreatePeriodRequest{Name: "B", StartDate: "2025-09-01", EndDate: "2026-07-01"}, "")

	// 读者已从数据库读到 A，回填前另一请求把当前学年切到 B
	cache.beforeFill = func() {
		if err := periods.SetCurrentPeriod(ctx, b.PeriodID, ""); err != nil {
			t.Fatalf("SetCurrentPeriod 应成功: %v", err)
		}
	}
	got, err := periods.GetCurrentPeriod(ctx)
	if err != nil {
		t.Fatalf("GetCurrentPeriod 应成功: %v", err)
	}
	if got.PeriodID != a.PeriodID {
		t.Fatalf("本次读取应返回切换前的 A，实际 %s", got.Name)
	}
	if cache.value != nil {
		t.Fatalf("切换后旧值不应写回缓存，实际 %s", cache.value.Name)
	}

	got, _ = periods.GetCurrentPeriod(ctx)
	if got.PeriodID != b.PeriodID || cache.value == nil || cache.value.PeriodID != b.PeriodID {
		t.Errorf("下一次读取应回源得到 B 并写入缓存，实际 %s", got.Name)
	}
}

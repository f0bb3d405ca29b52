package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/logger"
	"github.com/vitalog/internal/scoring"
)

func TestRollupSingleUserFirstDay(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	metrics := NewMetricsService(gdb)
	ctx := context.Background()

	// 2026-08-26 是周三：无周末加成、缺省画像无压力日
	if _, err := metrics.Ingest(ctx, seedMetrics("user-1", "2026-08-26")); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	svc := NewRollupService(gdb, logger.NewNop())
	result, err := svc.Run(ctx, "2026-08-26")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Processed != 1 || result.Total != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, err := NewScoreService(gdb).ForDate(ctx, "user-1", "2026-08-26")
	if err != nil {
		t.Fatalf("ForDate returned error: %v", err)
	}

	// 8h/质量5 → 100；8000步+30分钟 → 封顶100；心情4/压力2/精力4 → 75
	// 0.35*100 + 0.30*100 + 0.35*75 = 91.25，周三昼夜因子 1.0
	if stored.SleepScore != 100 || stored.ActivityScore != 100 || stored.MentalScore != 75 {
		t.Fatalf("unexpected sub-scores: %+v", stored)
	}
	if stored.Score != 91 {
		t.Fatalf("expected overall 91, got %d", stored.Score)
	}
	if stored.CircadianFactor != 1.0 {
		t.Fatalf("expected neutral circadian factor, got %v", stored.CircadianFactor)
	}
	if stored.Trend3d != 0 || stored.Trend7d != 0 {
		t.Fatalf("expected zero trends without history, got %+v", stored)
	}
	if stored.Prediction3d != 75 || stored.Prediction7d != 75 {
		t.Fatalf("expected fallback predictions, got %+v", stored)
	}
	if stored.AnomalyScore != 0 {
		t.Fatalf("expected zero anomaly without history, got %v", stored.AnomalyScore)
	}
	if stored.PersonalBaseline != 70 {
		t.Fatalf("expected population baseline 70, got %v", stored.PersonalBaseline)
	}
	if math.Abs(stored.ConfidenceLevel-1.0/30.0) > 1e-9 {
		t.Fatalf("expected confidence 1/30 on first day, got %v", stored.ConfidenceLevel)
	}
	if len(stored.Flags.Data()) != 0 {
		t.Fatalf("expected no flags for a balanced day, got %v", stored.Flags.Data())
	}
	reasons := []string(stored.Reasons)
	if len(reasons) != 1 || reasons[0] != "balanced day" {
		t.Fatalf("expected balanced day reason, got %v", reasons)
	}
	if len(stored.ImprovementSuggestions) != 0 {
		t.Fatalf("expected no suggestions, got %v", stored.ImprovementSuggestions)
	}
}

func TestRollupIsIdempotent(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	metrics := NewMetricsService(gdb)
	ctx := context.Background()

	if _, err := metrics.Ingest(ctx, seedMetrics("user-1", "2026-08-26")); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	svc := NewRollupService(gdb, logger.NewNop())
	for i := 0; i < 2; i++ {
		if _, err := svc.Run(ctx, "2026-08-26"); err != nil {
			t.Fatalf("Run %d returned error: %v", i, err)
		}
	}

	var count int64
	gdb.Model(&db.LifeScore{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected single score row after re-run, got %d", count)
	}

	stored, err := NewScoreService(gdb).ForDate(ctx, "user-1", "2026-08-26")
	if err != nil {
		t.Fatalf("ForDate returned error: %v", err)
	}
	if stored.Score != 91 {
		t.Fatalf("expected stable score across runs, got %d", stored.Score)
	}
}

func TestRollupBurnoutScenario(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	metrics := NewMetricsService(gdb)
	scores := NewScoreService(gdb)
	ctx := context.Background()

	// 14 天平稳历史，满足画像学习的数据量门槛
	for day := 12; day <= 25; day++ {
		date := fmt.Sprintf("2026-08-%02d", day)
		if _, err := metrics.Ingest(ctx, seedMetrics("user-1", date)); err != nil {
			t.Fatalf("Ingest %s returned error: %v", date, err)
		}
	}
	// 此前一周都是高分，今天的崩盘会触发下行趋势
	for day := 19; day <= 25; day++ {
		record := &db.LifeScore{UserID: "user-1", Date: fmt.Sprintf("2026-08-%02d", day), Score: 90}
		if err := scores.UpsertScore(ctx, record); err != nil {
			t.Fatalf("seed score returned error: %v", err)
		}
	}

	bad := seedMetrics("user-1", "2026-08-26")
	bad.SleepHours = 4
	bad.SleepQuality = 2
	bad.Steps = 2000
	bad.ActiveMinutes = 0
	bad.Mood = 2
	bad.Stress = 5
	bad.Energy = 2
	if _, err := metrics.Ingest(ctx, bad); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	svc := NewRollupService(gdb, logger.NewNop())
	result, err := svc.Run(ctx, "2026-08-26")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Processed != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, err := scores.ForDate(ctx, "user-1", "2026-08-26")
	if err != nil {
		t.Fatalf("ForDate returned error: %v", err)
	}

	flags := stored.Flags.Data()
	for _, want := range []string{
		scoring.FlagLowSleep,
		scoring.FlagHighStress,
		scoring.FlagLowActivity,
		scoring.FlagDecliningTrend,
		scoring.FlagBurnoutRisk,
	} {
		if !flags[want] {
			t.Fatalf("expected flag %s, got %v", want, flags)
		}
	}
	if stored.Trend7d > -15 {
		t.Fatalf("expected strong downward trend, got %d", stored.Trend7d)
	}
	// 7 条恒定 90 分历史：斜率 0，预测回到基线
	if stored.Prediction3d != 90 || stored.Prediction7d != 90 {
		t.Fatalf("expected flat predictions at 90, got %+v", stored)
	}
	if math.Abs(stored.ConfidenceLevel-0.5) > 1e-9 {
		t.Fatalf("expected confidence 0.5 with 15 data points, got %v", stored.ConfidenceLevel)
	}

	// 睡眠缺口、活动缺口、减压各一条，第四条被上限裁掉
	rows, err := scores.SuggestionsForDate(ctx, "user-1", "2026-08-26")
	if err != nil {
		t.Fatalf("SuggestionsForDate returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(rows))
	}
	if rows[0].SuggestionKey != scoring.SuggestionSleepDeficit ||
		rows[1].SuggestionKey != scoring.SuggestionActivityDeficit ||
		rows[2].SuggestionKey != scoring.SuggestionStressRelief {
		t.Fatalf("unexpected suggestion order: %v", rows)
	}

	// 15 个数据点满足学习条件，画像被重新校准并盖章
	profile, err := NewProfileService(gdb).Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get profile returned error: %v", err)
	}
	if profile.LastLearningDate != "2026-08-26" {
		t.Fatalf("expected learning stamp, got %q", profile.LastLearningDate)
	}
	if profile.DataPointsCount != 15 {
		t.Fatalf("expected 15 data points, got %d", profile.DataPointsCount)
	}
}

func TestRollupBatchCountsAndValidation(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	metrics := NewMetricsService(gdb)
	ctx := context.Background()

	for _, user := range []string{"user-a", "user-b", "user-c"} {
		if _, err := metrics.Ingest(ctx, seedMetrics(user, "2026-08-26")); err != nil {
			t.Fatalf("Ingest returned error: %v", err)
		}
	}

	// 共享内存库对并发写敏感，批次测试用串行模式
	svc := NewRollupService(gdb, logger.NewNop()).WithWorkers(1)
	result, err := svc.Run(ctx, "2026-08-26")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Processed != 3 || result.Total != 3 || len(result.Errors) != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}

	var count int64
	gdb.Model(&db.LifeScore{}).Count(&count)
	if count != 3 {
		t.Fatalf("expected a score per user, got %d", count)
	}

	// 没有数据的日期是空批次，不是错误
	empty, err := svc.Run(ctx, "2026-08-27")
	if err != nil {
		t.Fatalf("Run on empty day returned error: %v", err)
	}
	if empty.Total != 0 || empty.Processed != 0 {
		t.Fatalf("expected empty batch, got %+v", empty)
	}

	if _, err := svc.Run(ctx, "26-08-2026"); err == nil {
		t.Fatal("expected error for malformed target date")
	}
}

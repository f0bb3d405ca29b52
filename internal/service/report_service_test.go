package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vitalog/internal/db"
	"gorm.io/datatypes"
)

func TestWeeklyReportNoData(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewReportService(gdb)
	if _, err := svc.Weekly(context.Background(), "user-1", "2026-08-26"); !errors.Is(err, ErrReportNoData) {
		t.Fatalf("expected ErrReportNoData, got %v", err)
	}
}

func TestWeeklyReportRendersSanitizedHTML(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	metrics := NewMetricsService(gdb)
	scores := NewScoreService(gdb)
	ctx := context.Background()

	for day := 20; day <= 26; day++ {
		date := fmt.Sprintf("2026-08-%02d", day)
		if _, err := metrics.Ingest(ctx, seedMetrics("user-1", date)); err != nil {
			t.Fatalf("Ingest %s returned error: %v", date, err)
		}
		record := &db.LifeScore{
			UserID:  "user-1",
			Date:    date,
			Score:   80 + day - 20,
			Trend7d: 6,
			Reasons: datatypes.NewJSONSlice([]string{"balanced day"}),
		}
		if err := scores.UpsertScore(ctx, record); err != nil {
			t.Fatalf("UpsertScore %s returned error: %v", date, err)
		}
	}

	report, err := NewReportService(gdb).Weekly(ctx, "user-1", "2026-08-26")
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}

	if report.StartDate != "2026-08-20" || report.EndDate != "2026-08-26" {
		t.Fatalf("unexpected window: %+v", report)
	}

	html := string(report.HTML)
	if !strings.Contains(html, "<h1>") || !strings.Contains(html, "Weekly Wellness Report") {
		t.Fatalf("expected rendered heading, got %q", html)
	}
	// 80..86 平均 83，最佳一天是 26 号
	if !strings.Contains(html, "<strong>83</strong>") {
		t.Fatalf("expected average score in report, got %q", html)
	}
	if !strings.Contains(html, "2026-08-26") || !strings.Contains(html, "(86)") {
		t.Fatalf("expected best day in report, got %q", html)
	}
	if !strings.Contains(html, "improving") {
		t.Fatalf("expected trend word in report, got %q", html)
	}
	if !strings.Contains(html, "Habits") || !strings.Contains(html, "8.0h") {
		t.Fatalf("expected habits section, got %q", html)
	}
	if !strings.Contains(html, "balanced day") {
		t.Fatalf("expected highlights from latest reasons, got %q", html)
	}
}

func TestBuildWeeklyMarkdownSanitization(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(gdb)
	ctx := context.Background()

	record := &db.LifeScore{
		UserID:  "user-1",
		Date:    "2026-08-26",
		Score:   70,
		Reasons: datatypes.NewJSONSlice([]string{`<script>alert("x")</script>`}),
	}
	if err := scores.UpsertScore(ctx, record); err != nil {
		t.Fatalf("UpsertScore returned error: %v", err)
	}

	report, err := NewReportService(gdb).Weekly(ctx, "user-1", "2026-08-26")
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}
	if strings.Contains(string(report.HTML), "<script>") {
		t.Fatalf("expected script tags stripped, got %q", report.HTML)
	}
}

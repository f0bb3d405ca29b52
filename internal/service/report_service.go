package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/scoring"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	reportMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	reportSanitizer = bluemonday.UGCPolicy()
)

// ErrReportNoData 在统计窗口内没有任何得分时返回
var ErrReportNoData = errors.New("no scores in report window")

// ReportService 把一周的得分与指标汇编成 Markdown 周报，
// 渲染为经过净化的 HTML 供客户端内嵌展示。
type ReportService struct {
	db       *gorm.DB
	metrics  *MetricsService
	scores   *ScoreService
	profiles *ProfileService
}

// WeeklyReport 是渲染完成的周报。
type WeeklyReport struct {
	UserID    string
	StartDate string
	EndDate   string
	HTML      template.HTML
}

// NewReportService 构造 ReportService
func NewReportService(gdb *gorm.DB) *ReportService {
	return &ReportService{
		db:       gdb,
		metrics:  NewMetricsService(gdb),
		scores:   NewScoreService(gdb),
		profiles: NewProfileService(gdb),
	}
}

// Weekly 生成截至 endDate（含）过去 7 天的周报。
func (s *ReportService) Weekly(ctx context.Context, userID, endDate string) (*WeeklyReport, error) {
	scores, err := s.scores.Range(ctx, userID, endDate, 7)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, ErrReportNoData
	}

	metrics, err := s.metrics.Range(ctx, userID, endDate, 7)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	markdown := buildWeeklyMarkdown(scores, metrics, profile)

	var buf bytes.Buffer
	if err := reportMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	safe := reportSanitizer.SanitizeBytes(buf.Bytes())

	return &WeeklyReport{
		UserID:    userID,
		StartDate: scores[0].Date,
		EndDate:   scores[len(scores)-1].Date,
		HTML:      template.HTML(safe),
	}, nil
}

// buildWeeklyMarkdown 汇编周报正文。纯函数，便于测试。
func buildWeeklyMarkdown(scores []db.LifeScore, metrics []db.HealthMetrics, profile *db.UserProfile) string {
	var b strings.Builder

	b.WriteString("# Weekly Wellness Report\n\n")
	fmt.Fprintf(&b, "%s — %s\n\n", scores[0].Date, scores[len(scores)-1].Date)

	var sum, best int
	bestDate := scores[0].Date
	for _, s := range scores {
		sum += s.Score
		if s.Score > best {
			best = s.Score
			bestDate = s.Date
		}
	}
	avg := float64(sum) / float64(len(scores))

	fmt.Fprintf(&b, "- average score: **%.0f**\n", avg)
	fmt.Fprintf(&b, "- best day: **%s** (%d)\n", bestDate, best)

	latest := scores[len(scores)-1]
	trendWord := "steady"
	if latest.Trend7d >= 5 {
		trendWord = "improving"
	} else if latest.Trend7d <= -5 {
		trendWord = "declining"
	}
	fmt.Fprintf(&b, "- weekly trend: %s (%+d)\n\n", trendWord, latest.Trend7d)

	if len(metrics) > 0 {
		sp := ToScoringProfile(profile)
		var moodRatio, sleep float64
		for _, m := range metrics {
			n := scoring.Normalize(scoring.Metrics{
				SleepHours: m.SleepHours,
				Steps:      float64(m.Steps),
				Mood:       m.Mood,
				Energy:     m.EnergyLevel(),
			}, sp)
			moodRatio += n.MoodRatio
			sleep += m.SleepHours
		}
		count := float64(len(metrics))

		b.WriteString("## Habits\n\n")
		fmt.Fprintf(&b, "- average sleep: %.1fh (optimal %.1f–%.1fh)\n", sleep/count, profile.OptimalSleepMin, profile.OptimalSleepMax)
		fmt.Fprintf(&b, "- mood vs personal baseline: %.0f%%\n\n", moodRatio/count*100)
	}

	if reasons := latest.Reasons; len(reasons) > 0 {
		b.WriteString("## Highlights\n\n")
		for _, reason := range reasons {
			fmt.Fprintf(&b, "- %s\n", reason)
		}
	}

	return b.String()
}

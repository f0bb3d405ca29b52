package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/logger"
	"github.com/vitalog/internal/scoring"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultRollupWorkers     = 4
	defaultRollupHistoryDays = 30
	defaultRollupRatePerSec  = 50
	// scoreHistoryDays 覆盖预测所需的最长回看窗口
	scoreHistoryDays = 14
)

// RollupResult 是一次批量汇总的聚合结果，调度方据此判断成败。
type RollupResult struct {
	Date      string   `json:"date"`
	Processed int      `json:"processed_count"`
	Total     int      `json:"total_count"`
	Errors    []string `json:"errors"`
}

// RollupService 驱动每日生活评分流水线：逐用户读取画像与历史、
// 归一化、加权评分、昼夜调整、离群检测、趋势预测、标志与建议生成，
// 最终以幂等 upsert 落库。单用户失败只记录，不中断批次。
type RollupService struct {
	metrics  *MetricsService
	profiles *ProfileService
	scores   *ScoreService
	log      *logger.Logger

	workers     int
	historyDays int
	limiter     *rate.Limiter
}

// NewRollupService 构造 RollupService，默认 4 个工作协程、30 天历史窗口。
func NewRollupService(gdb *gorm.DB, log *logger.Logger) *RollupService {
	if log == nil {
		log = logger.NewNop()
	}
	return &RollupService{
		metrics:     NewMetricsService(gdb),
		profiles:    NewProfileService(gdb),
		scores:      NewScoreService(gdb),
		log:         log,
		workers:     defaultRollupWorkers,
		historyDays: defaultRollupHistoryDays,
		limiter:     rate.NewLimiter(rate.Limit(defaultRollupRatePerSec), defaultRollupWorkers),
	}
}

// WithWorkers 调整并发度；1 即严格串行。
func (s *RollupService) WithWorkers(n int) *RollupService {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithHistoryDays 调整指标历史回看窗口。
func (s *RollupService) WithHistoryDays(days int) *RollupService {
	if days > 0 {
		s.historyDays = days
	}
	return s
}

// WithRateLimit 调整每秒派发的用户数上限，保护底层数据库。
func (s *RollupService) WithRateLimit(perSec float64) *RollupService {
	if perSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(perSec), s.workers)
	}
	return s
}

// Run 对目标日期执行批量汇总；targetDate 为空时取当天。
// 返回的 RollupResult 含处理数、总数与逐用户错误列表。
func (s *RollupService) Run(ctx context.Context, targetDate string) (*RollupResult, error) {
	date := strings.TrimSpace(targetDate)
	if date == "" {
		date = time.Now().Format(db.DateLayout)
	}
	if _, err := time.Parse(db.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid target date %q: %w", targetDate, err)
	}

	batch, err := s.metrics.ForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load rollup batch: %w", err)
	}

	result := &RollupResult{Date: date, Total: len(batch), Errors: []string{}}
	log := s.log.With("run_id", uuid.NewString(), "date", date)
	log.Info("rollup started", "users", len(batch), "workers", s.workers)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, row := range batch {
		if err := s.limiter.Wait(gctx); err != nil {
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", row.UserID, err))
			mu.Unlock()
			continue
		}

		row := row
		g.Go(func() error {
			if err := s.processUser(gctx, row, date); err != nil {
				log.Warn("user rollup failed", "user_id", row.UserID, "error", err.Error())
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", row.UserID, err))
				mu.Unlock()
				// 单用户失败不取消批次
				return nil
			}
			mu.Lock()
			result.Processed++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	log.Info("rollup finished",
		"processed", result.Processed, "total", result.Total, "failed", len(result.Errors))
	return result, nil
}

// processUser 执行单用户的完整评分流水线并持久化结果。
func (s *RollupService) processUser(ctx context.Context, today db.HealthMetrics, date string) error {
	var (
		profile        *db.UserProfile
		metricsHistory []db.HealthMetrics
		scoreHistory   []db.LifeScore
	)

	// 画像与两份历史并行读取，读完才进入纯计算
	reads, rctx := errgroup.WithContext(ctx)
	reads.Go(func() error {
		p, err := s.profiles.GetOrCreate(rctx, today.UserID)
		profile = p
		return err
	})
	reads.Go(func() error {
		h, err := s.metrics.History(rctx, today.UserID, date, s.historyDays)
		metricsHistory = h
		return err
	})
	reads.Go(func() error {
		h, err := s.scores.History(rctx, today.UserID, date, scoreHistoryDays)
		scoreHistory = h
		return err
	})
	if err := reads.Wait(); err != nil {
		return err
	}

	sp := ToScoringProfile(profile)
	m := toScoringMetrics(today)
	norm := scoring.Normalize(m, sp)

	weights := scoring.ComputeWeights(sp, len(metricsHistory))
	sleepScore := scoring.SleepScore(norm.Metrics)
	activityScore := scoring.ActivityScore(norm.Metrics)
	mentalScore := scoring.MentalScore(norm.Metrics)

	parsedDate, err := time.Parse(db.DateLayout, date)
	if err != nil {
		return fmt.Errorf("parse rollup date: %w", err)
	}
	factor := scoring.CircadianFactor(parsedDate, sp)
	anomaly := scoring.AnomalyScore(m, toScoringHistory(metricsHistory))

	overall := scoring.Overall(sleepScore, activityScore, mentalScore, weights, factor)

	scoreSeries := make([]float64, 0, len(scoreHistory))
	for _, prev := range scoreHistory {
		scoreSeries = append(scoreSeries, float64(prev.Score))
	}
	trend3 := scoring.TrendDelta(float64(overall), scoreSeries, 3)
	trend7 := scoring.TrendDelta(float64(overall), scoreSeries, 7)
	pred3, pred7 := scoring.Predict(scoreSeries)

	flags := scoring.EvaluateFlags(m, anomaly, trend7)
	reasons := scoring.Reasons(m, flags)
	suggestions := scoring.Suggestions(m, sp, flags)

	texts := make([]string, 0, len(suggestions))
	for _, item := range suggestions {
		texts = append(texts, item.Text)
	}

	record := &db.LifeScore{
		UserID:                 today.UserID,
		Date:                   date,
		Score:                  overall,
		SleepScore:             int(math.Round(sleepScore)),
		ActivityScore:          int(math.Round(activityScore)),
		MentalScore:            int(math.Round(mentalScore)),
		Trend3d:                trend3,
		Trend7d:                trend7,
		Flags:                  datatypes.NewJSONType(flags),
		Reasons:                datatypes.NewJSONSlice(reasons),
		ConfidenceLevel:        scoring.Confidence(len(metricsHistory) + 1),
		Prediction3d:           pred3,
		Prediction7d:           pred7,
		AnomalyScore:           anomaly,
		CircadianFactor:        factor,
		PersonalBaseline:       scoring.PersonalBaseline(sp),
		ImprovementSuggestions: datatypes.NewJSONSlice(texts),
	}

	if err := s.scores.UpsertScore(ctx, record); err != nil {
		return err
	}
	if err := s.scores.UpsertSuggestions(ctx, today.UserID, date, suggestions); err != nil {
		return err
	}

	// 画像学习在评分落库之后进行，失败同样算作该用户的错误
	fullHistory := append(metricsHistory, today)
	if _, err := s.profiles.Relearn(ctx, profile, fullHistory, date); err != nil {
		return err
	}
	return nil
}

// toScoringMetrics 在进入纯计算层前完成精力缺省回退。
func toScoringMetrics(m db.HealthMetrics) scoring.Metrics {
	return scoring.Metrics{
		Date:          m.Date,
		Steps:         float64(m.Steps),
		ActiveMinutes: float64(m.ActiveMinutes),
		SleepHours:    m.SleepHours,
		SleepQuality:  float64(m.SleepQuality),
		HeartRateAvg:  float64(m.HeartRateAvg),
		Mood:          m.Mood,
		Stress:        m.Stress,
		Energy:        m.EnergyLevel(),
	}
}

func toScoringHistory(history []db.HealthMetrics) []scoring.Metrics {
	out := make([]scoring.Metrics, 0, len(history))
	for _, m := range history {
		out = append(out, toScoringMetrics(m))
	}
	return out
}

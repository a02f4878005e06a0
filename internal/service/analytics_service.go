package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/cache"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

const (
	AnalyticsCacheTTL = 900 * time.Second

	adminAnalyticsKey      = "analytics:admin"
	userAnalyticsKeyPrefix = "analytics:user:"
)

var hundred = decimal.NewFromInt(100)

// AnalyticsService aggregates transactions into totals. GetAnalytics is
// cache-aside: snapshots are kept for AnalyticsCacheTTL and never invalidated
// by writes.
type AnalyticsService struct {
	storage *storage.Storage
	cache   cache.Cache
	logger  *logrus.Logger
	now     func() time.Time
}

func NewAnalyticsService(store *storage.Storage, c cache.Cache, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		storage: store,
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
}

// GetAnalytics returns the snapshot for the caller's scope. All admins share
// one cache entry; every other caller has their own.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, identity auth.Identity) (Snapshot, error) {
	filter, err := s.scopeFilter(identity)
	if err != nil {
		return Snapshot{}, err
	}

	key := adminAnalyticsKey
	if filter.UserID != nil {
		key = userAnalyticsKeyPrefix + filter.UserID.String()
	}
	logData := logging.GetLogData(ctx)

	if snapshot, ok := s.cachedSnapshot(ctx, logData, key); ok {
		if logData != nil {
			logData.AddData("analyticsCache", "hit")
		}
		return snapshot, nil
	}
	if logData != nil {
		logData.AddData("analyticsCache", "miss")
	}

	snapshot, err := s.computeSnapshot(ctx, filter)
	if err != nil {
		return Snapshot{}, err
	}

	encoded, err := json.Marshal(snapshot)
	if err == nil {
		stopTimer := cacheTimer(logData)
		err = s.cache.Set(ctx, key, encoded, AnalyticsCacheTTL)
		stopTimer()
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("AnalyticsService.GetAnalytics.cache set failed")
	}

	return snapshot, nil
}

// cacheTimer accumulates the time spent in cache calls of one request.
func cacheTimer(logData *logging.LogData) func() {
	if logData == nil {
		return func() {}
	}
	return logData.AddToExistingTiming("analyticsCacheMs")
}

// cachedSnapshot treats read errors and undecodable entries as misses.
func (s *AnalyticsService) cachedSnapshot(ctx context.Context, logData *logging.LogData, key string) (Snapshot, bool) {
	stopTimer := cacheTimer(logData)
	raw, err := s.cache.Get(ctx, key)
	stopTimer()
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.WithError(err).WithField("key", key).Warn("AnalyticsService.GetAnalytics.cache get failed")
		}
		return Snapshot{}, false
	}

	var snapshot Snapshot
	if err = json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("AnalyticsService.GetAnalytics.cache entry undecodable")
		return Snapshot{}, false
	}
	return snapshot, true
}

func (s *AnalyticsService) computeSnapshot(ctx context.Context, scope sqlconfig.AggregateFilter) (Snapshot, error) {
	incomeFilter := scope
	incomeFilter.Type = sqlconfig.TransactionTypeIncome
	income, err := s.storage.Transactions.SumAmount(ctx, &incomeFilter)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sum income: %w", err)
	}

	expenseFilter := scope
	expenseFilter.Type = sqlconfig.TransactionTypeExpense
	expense, err := s.storage.Transactions.SumAmount(ctx, &expenseFilter)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sum expense: %w", err)
	}

	rows, err := s.storage.Transactions.SumByCategory(ctx, &expenseFilter)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sum expense by category: %w", err)
	}
	breakdown, err := categoryBreakdown(rows)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		TotalIncome:       income,
		TotalExpense:      expense,
		NetBalance:        income.Sub(expense),
		CategoryBreakdown: breakdown,
	}, nil
}

// categoryBreakdown converts per-category rows into a map. Each category
// must appear once.
func categoryBreakdown(rows []*sqlconfig.CategoryTotal) (map[string]decimal.Decimal, error) {
	breakdown := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		if _, ok := breakdown[row.Category]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, row.Category)
		}
		breakdown[row.Category] = row.Total
	}
	return breakdown, nil
}

// GetMonthlyTrends returns twelve entries for year, one per month.
func (s *AnalyticsService) GetMonthlyTrends(ctx context.Context, identity auth.Identity, year int) ([]MonthlyTrend, error) {
	filter, err := s.scopeFilter(identity)
	if err != nil {
		return nil, err
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	filter.From = &from
	filter.To = &to

	rows, err := s.storage.Transactions.MonthlyTotals(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	trends := make([]MonthlyTrend, 12)
	for i := range trends {
		trends[i] = MonthlyTrend{
			Month:    fmt.Sprintf("%04d-%02d", year, i+1),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
	}
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		trend := &trends[row.Month-1]
		switch row.Type {
		case sqlconfig.TransactionTypeIncome:
			trend.Income = trend.Income.Add(row.Total)
		case sqlconfig.TransactionTypeExpense:
			trend.Expenses = trend.Expenses.Add(row.Total)
		}
	}
	for i := range trends {
		trends[i].Net = trends[i].Income.Sub(trends[i].Expenses)
	}

	return trends, nil
}

// GetCategoryBreakdown returns per-category totals of both types inside
// the period with each category's share of its type total.
func (s *AnalyticsService) GetCategoryBreakdown(ctx context.Context, identity auth.Identity, period BreakdownPeriod) ([]CategoryShare, error) {
	filter, err := s.scopeFilter(identity)
	if err != nil {
		return nil, err
	}
	from, to, err := s.periodBounds(period)
	if err != nil {
		return nil, err
	}
	filter.From = &from
	filter.To = &to

	rows, err := s.storage.Transactions.SumByCategory(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}

	typeTotals := make(map[sqlconfig.TransactionType]decimal.Decimal, 2)
	for _, row := range rows {
		typeTotals[row.Type] = typeTotals[row.Type].Add(row.Total)
	}

	shares := make([]CategoryShare, len(rows))
	for i, row := range rows {
		percentage := decimal.Zero
		if total := typeTotals[row.Type]; !total.IsZero() {
			percentage = row.Total.Mul(hundred).Div(total).Round(2)
		}
		shares[i] = CategoryShare{
			Category:   row.Category,
			Type:       TransactionType(row.Type),
			Amount:     row.Total,
			Percentage: percentage,
		}
	}
	return shares, nil
}

// GetIncomeVsExpense returns income, expenses and net for every day of the
// period that has at least one transaction, oldest day first.
func (s *AnalyticsService) GetIncomeVsExpense(ctx context.Context, identity auth.Identity, period BreakdownPeriod) ([]DailyComparison, error) {
	filter, err := s.scopeFilter(identity)
	if err != nil {
		return nil, err
	}
	from, to, err := s.periodBounds(period)
	if err != nil {
		return nil, err
	}
	filter.From = &from
	filter.To = &to

	rows, err := s.storage.Transactions.DailyTotals(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	var comparison []DailyComparison
	for _, row := range rows {
		day := row.Day.UTC()
		if len(comparison) == 0 || !comparison[len(comparison)-1].Date.Equal(day) {
			comparison = append(comparison, DailyComparison{
				Date:     day,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
			})
		}
		entry := &comparison[len(comparison)-1]
		switch row.Type {
		case sqlconfig.TransactionTypeIncome:
			entry.Income = entry.Income.Add(row.Total)
		case sqlconfig.TransactionTypeExpense:
			entry.Expenses = entry.Expenses.Add(row.Total)
		}
	}
	for i := range comparison {
		comparison[i].Net = comparison[i].Income.Sub(comparison[i].Expenses)
	}

	return comparison, nil
}

// periodBounds returns the inclusive start and the exclusive end of the
// period. The week period ends with today.
func (s *AnalyticsService) periodBounds(period BreakdownPeriod) (time.Time, time.Time, error) {
	switch period.Period {
	case PeriodWeek:
		now := s.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return today.AddDate(0, 0, -7), today.AddDate(0, 0, 1), nil
	case PeriodMonth:
		if period.Month < 1 || period.Month > 12 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, period.Month)
		}
		from := time.Date(period.Year, time.Month(period.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), nil
	case PeriodYear:
		from := time.Date(period.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period.Period)
	}
}

func (s *AnalyticsService) scopeFilter(identity auth.Identity) (sqlconfig.AggregateFilter, error) {
	userID, err := ownerScope(identity)
	if err != nil {
		return sqlconfig.AggregateFilter{}, err
	}
	return sqlconfig.AggregateFilter{UserID: userID}, nil
}

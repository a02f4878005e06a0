package sqlconfig

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

const transactionsTableName = "transactions"

var transactionColumns = []any{
	"id", "user_id", "type", "category", "amount",
	"description", "transaction_date", "created_at", "updated_at",
}

var _ ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable provides access to the transactions table.
type TransactionsTable struct {
	exec bob.Executor
}

// NewTransactionsTable binds the table to a database handle or an open transaction.
func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves a transaction by primary key. With forUpdate the row
// stays locked until the surrounding transaction ends.
func (t *TransactionsTable) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// Insert creates a new transaction and returns its generated ID.
func (t *TransactionsTable) Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	q := psql.Insert(
		im.Into(transactionsTableName, "id", "user_id", "type", "category", "amount", "description", "transaction_date"),
		im.Values(psql.Arg(
			id,
			create.UserID,
			create.Type,
			create.Category,
			create.Amount,
			create.Description,
			create.TransactionDate,
		)),
	)
	if _, err = q.Exec(ctx, t.exec); err != nil {
		return uuid.Nil, translateError(err)
	}
	return id, nil
}

// Update writes the set fields of update and bumps updated_at.
func (t *TransactionsTable) Update(ctx context.Context, id uuid.UUID, update *TransactionUpdate) error {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(transactionsTableName),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if v, ok := update.Type.Get(); ok {
		queryMods = append(queryMods, um.SetCol("type").ToArg(v))
	}
	if v, ok := update.Category.Get(); ok {
		queryMods = append(queryMods, um.SetCol("category").ToArg(v))
	}
	if v, ok := update.Amount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("amount").ToArg(v))
	}
	if v, ok := update.Description.Get(); ok {
		queryMods = append(queryMods, um.SetCol("description").ToArg(v))
	}
	if v, ok := update.TransactionDate.Get(); ok {
		queryMods = append(queryMods, um.SetCol("transaction_date").ToArg(v))
	}

	result, err := psql.Update(queryMods...).Exec(ctx, t.exec)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(result)
}

// Delete removes a transaction by primary key.
func (t *TransactionsTable) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := psql.Delete(
		dm.From(transactionsTableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	).Exec(ctx, t.exec)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(result)
}

// List returns transactions matching the filter, newest first. A positive
// limit fetches one extra row so callers can detect a following page.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
	}
	if filter != nil {
		if filter.UserID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("transaction_date")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}
	return toPointers(rows), nil
}

// SumAmount returns the total amount of the matching rows, zero when none match.
func (t *TransactionsTable) SumAmount(ctx context.Context, filter *AggregateFilter) (decimal.Decimal, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw("COALESCE(SUM(amount), 0)")),
		sm.From(transactionsTableName),
	}, aggregateWhere(filter)...)

	total, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SumByCategory returns one row per (type, category) pair among the matching rows.
func (t *TransactionsTable) SumByCategory(ctx context.Context, filter *AggregateFilter) ([]*CategoryTotal, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(
			psql.Quote("type"),
			psql.Quote("category"),
			psql.Raw("COALESCE(SUM(amount), 0) AS total"),
		),
		sm.From(transactionsTableName),
	}, aggregateWhere(filter)...)
	queryMods = append(queryMods,
		sm.GroupBy(psql.Quote("type")),
		sm.GroupBy(psql.Quote("category")),
		sm.OrderBy(psql.Quote("type")).Asc(),
		sm.OrderBy(psql.Raw("total")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[CategoryTotal]())
	if err != nil {
		return nil, err
	}
	return toPointers(rows), nil
}

// MonthlyTotals returns the per-month, per-type sums among the matching rows.
func (t *TransactionsTable) MonthlyTotals(ctx context.Context, filter *AggregateFilter) ([]*MonthlyTotal, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(
			psql.Raw("EXTRACT(MONTH FROM transaction_date)::int AS month"),
			psql.Quote("type"),
			psql.Raw("COALESCE(SUM(amount), 0) AS total"),
		),
		sm.From(transactionsTableName),
	}, aggregateWhere(filter)...)
	queryMods = append(queryMods,
		sm.GroupBy(psql.Raw("month")),
		sm.GroupBy(psql.Quote("type")),
		sm.OrderBy(psql.Raw("month")).Asc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[MonthlyTotal]())
	if err != nil {
		return nil, err
	}
	return toPointers(rows), nil
}

// DailyTotals returns the per-day, per-type sums among the matching rows,
// oldest day first.
func (t *TransactionsTable) DailyTotals(ctx context.Context, filter *AggregateFilter) ([]*DailyTotal, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(
			psql.Raw("transaction_date AS day"),
			psql.Quote("type"),
			psql.Raw("COALESCE(SUM(amount), 0) AS total"),
		),
		sm.From(transactionsTableName),
	}, aggregateWhere(filter)...)
	queryMods = append(queryMods,
		sm.GroupBy(psql.Quote("transaction_date")),
		sm.GroupBy(psql.Quote("type")),
		sm.OrderBy(psql.Quote("transaction_date")).Asc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[DailyTotal]())
	if err != nil {
		return nil, err
	}
	return toPointers(rows), nil
}

func aggregateWhere(filter *AggregateFilter) []bob.Mod[*dialect.SelectQuery] {
	if filter == nil {
		return nil
	}

	var queryMods []bob.Mod[*dialect.SelectQuery]
	if filter.UserID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
	}
	if filter.Type != "" {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(filter.Type))))
	}
	if filter.From != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("transaction_date").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("transaction_date").LT(psql.Arg(*filter.To))))
	}
	return queryMods
}

func toPointers[T any](rows []T) []*T {
	result := make([]*T, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(result rowsAffecter) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Package storage persists profiles, categories, expenses, and monthly
// salary overrides in SQLite. The repository is a thin layer over plain SQL;
// all budgeting arithmetic lives in internal/budget.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paisa/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how instants are stored; RFC3339 strings compare correctly
// lexicographically, which the date-range queries rely on.
const dateLayout = time.RFC3339

// Repository is the SQLite-backed store. Safe for the single-writer usage
// this deployment assumes; there is deliberately no optimistic locking.
type Repository struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations, and returns a
// ready repository.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetProfile returns the singleton profile row.
func (r *Repository) GetProfile(ctx context.Context) (core.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, currency, total_salary_cents, personal_budget_cents,
		       salary_day, daily_food_budget_cents, privacy_mode
		FROM profiles
		ORDER BY id
		LIMIT 1`)

	var p core.Profile
	var privacy int
	err := row.Scan(&p.ID, &p.Currency, &p.TotalSalary.Cents, &p.PersonalBudget.Cents,
		&p.SalaryDay, &p.DailyFoodBudget.Cents, &privacy)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, core.ErrProfileNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.PrivacyMode = privacy != 0
	return p, nil
}

// UpdateProfile writes the settings back. Last write wins; there is exactly
// one user.
func (r *Repository) UpdateProfile(ctx context.Context, p core.Profile) error {
	privacy := 0
	if p.PrivacyMode {
		privacy = 1
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET currency = ?, total_salary_cents = ?, personal_budget_cents = ?,
		    salary_day = ?, daily_food_budget_cents = ?, privacy_mode = ?
		WHERE id = ?`,
		p.Currency, p.TotalSalary.Cents, p.PersonalBudget.Cents,
		p.SalaryDay, p.DailyFoodBudget.Cents, privacy, p.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, budget_cents, subcategories
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		var subs string
		if err := rows.Scan(&c.ID, &c.Name, &c.Budget.Cents, &subs); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if subs != "" {
			c.Subcategories = strings.Split(subs, ",")
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateExpense inserts an expense, resolving the category by name. Unknown
// category names store a NULL category id and read back as Other.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	var categoryID sql.NullInt64
	row := r.db.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, e.Category)
	if err := row.Scan(&categoryID.Int64); err == nil {
		categoryID.Valid = true
	}

	profileID, err := r.profileID(ctx)
	if err != nil {
		return 0, err
	}

	var display sql.NullString
	if e.IsFake {
		display = sql.NullString{String: e.Description, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (profile_id, category_id, amount_cents, description,
		                      expense_date, tags, is_fake, display_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profileID, categoryID, e.Amount.Cents, e.Description,
		e.Date.UTC().Format(dateLayout), strings.Join(e.Tags, ","), boolToInt(e.IsFake), display)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return id, nil
}

// UpdateExpense rewrites an expense row by id.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	var categoryID sql.NullInt64
	row := r.db.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, e.Category)
	if err := row.Scan(&categoryID.Int64); err == nil {
		categoryID.Valid = true
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET category_id = ?, amount_cents = ?, description = ?, expense_date = ?,
		    tags = ?, is_fake = ?
		WHERE id = ?`,
		categoryID, e.Amount.Cents, e.Description, e.Date.UTC().Format(dateLayout),
		strings.Join(e.Tags, ","), boolToInt(e.IsFake), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}

// DeleteExpense removes an expense by id.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrExpenseNotFound
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// ListExpenses returns expenses dated within [from, to], newest first.
func (r *Repository) ListExpenses(ctx context.Context, from, to time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.amount_cents, COALESCE(c.name, 'Other'), e.description,
		       e.expense_date, e.tags, e.is_fake
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.expense_date >= ? AND e.expense_date <= ?
		ORDER BY e.expense_date DESC`,
		from.UTC().Format(dateLayout), to.UTC().Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// LastExpense returns the most recently dated expense, or ErrExpenseNotFound
// when none exist.
func (r *Repository) LastExpense(ctx context.Context) (core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.amount_cents, COALESCE(c.name, 'Other'), e.description,
		       e.expense_date, e.tags, e.is_fake
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		ORDER BY e.expense_date DESC, e.id DESC
		LIMIT 1`)
	if err != nil {
		return core.Expense{}, fmt.Errorf("last expense: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return core.Expense{}, err
	}
	if len(expenses) == 0 {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	return expenses[0], nil
}

// GetMonthlySalary returns the override for the month containing t, or
// sql.ErrNoRows wrapped as a nil result.
func (r *Repository) GetMonthlySalary(ctx context.Context, t time.Time) (*core.MonthlySalary, error) {
	key := core.MonthKey(t).Format(dateLayout)
	row := r.db.QueryRowContext(ctx, `
		SELECT id, month, total_salary_cents, personal_budget_cents, notes
		FROM monthly_salaries
		WHERE month = ?`, key)

	var ms core.MonthlySalary
	var month string
	err := row.Scan(&ms.ID, &month, &ms.TotalSalary.Cents, &ms.PersonalBudget.Cents, &ms.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get monthly salary: %w", err)
	}
	ms.Month, err = time.Parse(dateLayout, month)
	if err != nil {
		return nil, fmt.Errorf("parse salary month: %w", err)
	}
	return &ms, nil
}

// UpsertMonthlySalary writes an override for its month key.
func (r *Repository) UpsertMonthlySalary(ctx context.Context, ms core.MonthlySalary) error {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return err
	}
	key := core.MonthKey(ms.Month).Format(dateLayout)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO monthly_salaries (profile_id, month, total_salary_cents, personal_budget_cents, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (profile_id, month) DO UPDATE SET
		    total_salary_cents = excluded.total_salary_cents,
		    personal_budget_cents = excluded.personal_budget_cents,
		    notes = excluded.notes`,
		profileID, key, ms.TotalSalary.Cents, ms.PersonalBudget.Cents, ms.Notes)
	if err != nil {
		return fmt.Errorf("upsert monthly salary: %w", err)
	}
	return nil
}

// EnsureMonthlySalary returns the current month's override, materializing
// one from the profile defaults when absent. The reminder path relies on
// this so the month always has concrete figures.
func (r *Repository) EnsureMonthlySalary(ctx context.Context, t time.Time, p core.Profile) (core.MonthlySalary, error) {
	existing, err := r.GetMonthlySalary(ctx, t)
	if err != nil {
		return core.MonthlySalary{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	ms := core.MonthlySalary{
		Month:          core.MonthKey(t),
		TotalSalary:    p.TotalSalary,
		PersonalBudget: p.PersonalBudget,
		Notes:          "auto-created from profile defaults",
	}
	if err := r.UpsertMonthlySalary(ctx, ms); err != nil {
		return core.MonthlySalary{}, err
	}
	slog.InfoContext(ctx, "Monthly salary materialized from defaults",
		"month", ms.Month.Format("2006-01"))
	return ms, nil
}

// ListMonthlySalaries returns all overrides, newest month first.
func (r *Repository) ListMonthlySalaries(ctx context.Context) ([]core.MonthlySalary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, month, total_salary_cents, personal_budget_cents, notes
		FROM monthly_salaries
		ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("list monthly salaries: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlySalary
	for rows.Next() {
		var ms core.MonthlySalary
		var month string
		if err := rows.Scan(&ms.ID, &month, &ms.TotalSalary.Cents, &ms.PersonalBudget.Cents, &ms.Notes); err != nil {
			return nil, fmt.Errorf("scan monthly salary: %w", err)
		}
		ms.Month, err = time.Parse(dateLayout, month)
		if err != nil {
			return nil, fmt.Errorf("parse salary month: %w", err)
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}

func (r *Repository) profileID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM profiles ORDER BY id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrProfileNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("profile id: %w", err)
	}
	return id, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var date, tags string
		var fake int
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &e.Category, &e.Description, &date, &tags, &fake); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date: %w", err)
		}
		e.Date = parsed
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		e.IsFake = fake != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

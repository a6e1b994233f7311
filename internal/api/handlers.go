package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"paisa/internal/budget"
	"paisa/internal/chat"
	"paisa/internal/core"
)

const dayLayout = "2006-01-02"

type expenseResponse struct {
	ID          int64    `json:"id"`
	AmountCents int64    `json:"amount_cents"`
	Amount      string   `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags,omitempty"`
	IsFake      bool     `json:"is_fake"`
}

type expenseRequest struct {
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Tags        []string    `json:"tags"`
	IsFake      bool        `json:"is_fake"`
}

// toExpense validates and converts a request body. An empty category is
// classified from the description; an empty date means now.
func (req expenseRequest) toExpense(now time.Time) (core.Expense, error) {
	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.Expense{}, err
	}

	date := now
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			date, err = time.Parse(dayLayout, req.Date)
			if err != nil {
				return core.Expense{}, errors.New("invalid date: use RFC3339 or YYYY-MM-DD")
			}
		}
	}

	category := req.Category
	if category == "" {
		category = chat.Classify(req.Description)
	}

	e := core.Expense{
		Amount:      amount,
		Category:    category,
		Description: req.Description,
		Date:        date,
		Tags:        req.Tags,
		IsFake:      req.IsFake,
	}
	return e, e.Validate()
}

func expenseView(e core.Expense, profile core.Profile) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Amount:      e.Amount.Format(profile.Currency),
		Category:    e.Category,
		Description: e.DisplayDescription(profile.PrivacyMode),
		Date:        e.Date.UTC().Format(time.RFC3339),
		Tags:        e.Tags,
		IsFake:      e.IsFake,
	}
}

// handleListExpenses returns expenses in [from, to]; the bounds default to
// the current fiscal period.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		s.internalError(w, r, "load profile", err)
		return
	}

	period, err := budget.Resolve(time.Now(), profile.SalaryDay)
	if err != nil {
		s.internalError(w, r, "resolve period", err)
		return
	}
	window := budget.PeriodWindow(period)
	from, to := window.Start, window.End

	if q := r.URL.Query().Get("from"); q != "" {
		if from, err = time.Parse(dayLayout, q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'from': use YYYY-MM-DD")
			return
		}
	}
	if q := r.URL.Query().Get("to"); q != "" {
		day, err := time.Parse(dayLayout, q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'to': use YYYY-MM-DD")
			return
		}
		to = day.Add(24*time.Hour - time.Nanosecond)
	}

	expenses, err := s.store.ListExpenses(ctx, from, to)
	if err != nil {
		s.internalError(w, r, "list expenses", err)
		return
	}

	views := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, expenseView(e, profile))
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": views})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := req.toExpense(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		s.internalError(w, r, "create expense", err)
		return
	}
	e.ID = id
	s.overview.invalidate()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		s.internalError(w, r, "load profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseView(e, profile))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := req.toExpense(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e.ID = id

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.internalError(w, r, "update expense", err)
		return
	}
	s.overview.invalidate()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		s.internalError(w, r, "load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, expenseView(e, profile))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.internalError(w, r, "delete expense", err)
		return
	}
	s.overview.invalidate()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.internalError(w, r, "list categories", err)
		return
	}

	type categoryResponse struct {
		ID            int64    `json:"id"`
		Name          string   `json:"name"`
		BudgetCents   int64    `json:"budget_cents"`
		Subcategories []string `json:"subcategories,omitempty"`
	}
	views := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		views = append(views, categoryResponse{
			ID: c.ID, Name: c.Name, BudgetCents: c.Budget.Cents, Subcategories: c.Subcategories,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": views})
}

type settingsPayload struct {
	Currency             string `json:"currency"`
	TotalSalaryCents     int64  `json:"total_salary_cents"`
	PersonalBudgetCents  int64  `json:"personal_budget_cents"`
	SalaryDay            int    `json:"salary_day"`
	DailyFoodBudgetCents int64  `json:"daily_food_budget_cents"`
	PrivacyMode          bool   `json:"privacy_mode"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.internalError(w, r, "load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload{
		Currency:             profile.Currency,
		TotalSalaryCents:     profile.TotalSalary.Cents,
		PersonalBudgetCents:  profile.PersonalBudget.Cents,
		SalaryDay:            profile.SalaryDay,
		DailyFoodBudgetCents: profile.DailyFoodBudget.Cents,
		PrivacyMode:          profile.PrivacyMode,
	})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		s.internalError(w, r, "load profile", err)
		return
	}

	profile.Currency = req.Currency
	profile.TotalSalary = core.Money{Cents: req.TotalSalaryCents}
	profile.PersonalBudget = core.Money{Cents: req.PersonalBudgetCents}
	profile.SalaryDay = req.SalaryDay
	profile.DailyFoodBudget = core.Money{Cents: req.DailyFoodBudgetCents}
	profile.PrivacyMode = req.PrivacyMode

	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		s.internalError(w, r, "update profile", err)
		return
	}
	s.overview.invalidate()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type salaryPayload struct {
	Month               string `json:"month"`
	TotalSalaryCents    int64  `json:"total_salary_cents"`
	PersonalBudgetCents int64  `json:"personal_budget_cents"`
	Notes               string `json:"notes,omitempty"`
}

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := s.store.ListMonthlySalaries(r.Context())
	if err != nil {
		s.internalError(w, r, "list salaries", err)
		return
	}

	views := make([]salaryPayload, 0, len(salaries))
	for _, ms := range salaries {
		views = append(views, salaryPayload{
			Month:               ms.Month.Format("2006-01"),
			TotalSalaryCents:    ms.TotalSalary.Cents,
			PersonalBudgetCents: ms.PersonalBudget.Cents,
			Notes:               ms.Notes,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"salaries": views})
}

func (s *Server) handleUpsertSalary(w http.ResponseWriter, r *http.Request) {
	month, err := time.Parse("2006-01", chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month: use YYYY-MM")
		return
	}

	var req salaryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TotalSalaryCents < 0 || req.PersonalBudgetCents < 0 {
		writeError(w, http.StatusBadRequest, "salary figures cannot be negative")
		return
	}

	ms := core.MonthlySalary{
		Month:          month,
		TotalSalary:    core.Money{Cents: req.TotalSalaryCents},
		PersonalBudget: core.Money{Cents: req.PersonalBudgetCents},
		Notes:          req.Notes,
	}
	if err := s.store.UpsertMonthlySalary(r.Context(), ms); err != nil {
		s.internalError(w, r, "upsert salary", err)
		return
	}
	s.overview.invalidate()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleOverview returns the dashboard's main payload: profile, fiscal
// period, insight report, and per-category totals. Cached briefly since it is
// recomputed from scratch on every call.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if cached, ok := s.overview.get(now); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx := r.Context()
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		s.internalError(w, r, "load profile", err)
		return
	}

	ms, err := s.store.EnsureMonthlySalary(ctx, now, profile)
	if err != nil {
		s.internalError(w, r, "ensure monthly salary", err)
		return
	}
	profile.TotalSalary = ms.TotalSalary
	profile.PersonalBudget = ms.PersonalBudget

	period, err := budget.Resolve(now, profile.SalaryDay)
	if err != nil {
		s.internalError(w, r, "resolve period", err)
		return
	}
	window := budget.PeriodWindow(period)

	expenses, err := s.store.ListExpenses(ctx, window.Start, window.End)
	if err != nil {
		s.internalError(w, r, "list expenses", err)
		return
	}
	report := s.engine.Report(profile, expenses, now, period)

	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		s.internalError(w, r, "list categories", err)
		return
	}

	type categoryTotal struct {
		Name        string `json:"name"`
		BudgetCents int64  `json:"budget_cents"`
		SpentCents  int64  `json:"spent_cents"`
	}
	totals := make([]categoryTotal, 0, len(cats))
	for _, c := range cats {
		totals = append(totals, categoryTotal{
			Name:        c.Name,
			BudgetCents: c.Budget.Cents,
			SpentCents:  budget.Sum(expenses, window, c.Name).Cents,
		})
	}

	payload := map[string]any{
		"profile": settingsPayload{
			Currency:             profile.Currency,
			TotalSalaryCents:     profile.TotalSalary.Cents,
			PersonalBudgetCents:  profile.PersonalBudget.Cents,
			SalaryDay:            profile.SalaryDay,
			DailyFoodBudgetCents: profile.DailyFoodBudget.Cents,
			PrivacyMode:          profile.PrivacyMode,
		},
		"period": map[string]any{
			"start":           period.Start.Format(dayLayout),
			"end":             period.End.Format(dayLayout),
			"next":            period.Next.Format(dayLayout),
			"days":            period.Days,
			"days_elapsed":    period.DaysElapsed,
			"days_until_next": period.DaysUntilNext,
		},
		"report": map[string]any{
			"total_spent_cents":            report.TotalSpent.Cents,
			"remaining_cents":              report.Remaining.Cents,
			"original_daily_budget_cents":  report.OriginalDailyBudget.Cents,
			"adjusted_daily_budget_cents":  report.AdjustedDailyBudget.Cents,
			"daily_average_cents":          report.DailyAverage.Cents,
			"overspending_cents":           report.Overspending.Cents,
			"projected_period_end_cents":   report.ProjectedPeriodEnd.Cents,
			"status":                       report.Status,
			"status_reason":                report.StatusReason,
			"food_streak_days":             report.FoodStreak,
			"weekday_average_cents":        report.WeekdayAverage.Cents,
			"weekend_average_cents":        report.WeekendAverage.Cents,
		},
		"categories": totals,
	}

	s.overview.set(payload, now)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), "Request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

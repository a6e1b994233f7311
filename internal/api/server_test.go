package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paisa/internal/config"
	"paisa/internal/core"
	"paisa/internal/telegram"
)

type fakeStore struct {
	profile  core.Profile
	expenses []core.Expense
	nextID   int64
	salaries []core.MonthlySalary
}

func newStoreFake() *fakeStore {
	return &fakeStore{
		profile: core.Profile{
			ID:              1,
			Currency:        "₹",
			TotalSalary:     core.FromUnits(100000),
			PersonalBudget:  core.FromUnits(35000),
			SalaryDay:       7,
			DailyFoodBudget: core.FromUnits(400),
			PrivacyMode:     true,
		},
		nextID: 1,
	}
}

func (f *fakeStore) GetProfile(context.Context) (core.Profile, error) { return f.profile, nil }

func (f *fakeStore) UpdateProfile(_ context.Context, p core.Profile) error {
	f.profile = p
	return nil
}

func (f *fakeStore) ListCategories(context.Context) ([]core.Category, error) {
	return []core.Category{{ID: 1, Name: "Food", Budget: core.FromUnits(12000)}}, nil
}

func (f *fakeStore) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	e.ID = f.nextID
	f.nextID++
	f.expenses = append(f.expenses, e)
	return e.ID, nil
}

func (f *fakeStore) UpdateExpense(_ context.Context, e core.Expense) error {
	for i := range f.expenses {
		if f.expenses[i].ID == e.ID {
			f.expenses[i] = e
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

func (f *fakeStore) DeleteExpense(_ context.Context, id int64) error {
	for i := range f.expenses {
		if f.expenses[i].ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

func (f *fakeStore) ListExpenses(_ context.Context, from, to time.Time) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range f.expenses {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListMonthlySalaries(context.Context) ([]core.MonthlySalary, error) {
	return f.salaries, nil
}

func (f *fakeStore) UpsertMonthlySalary(_ context.Context, ms core.MonthlySalary) error {
	f.salaries = append(f.salaries, ms)
	return nil
}

func (f *fakeStore) EnsureMonthlySalary(_ context.Context, t time.Time, p core.Profile) (core.MonthlySalary, error) {
	return core.MonthlySalary{
		Month:          core.MonthKey(t),
		TotalSalary:    p.TotalSalary,
		PersonalBudget: p.PersonalBudget,
	}, nil
}

type fakeBot struct {
	updates []telegram.Update
}

func (f *fakeBot) HandleUpdate(_ context.Context, u telegram.Update) {
	f.updates = append(f.updates, u)
}

type fakeScheduler struct {
	sent []string
	err  error
}

func (f *fakeScheduler) Run(context.Context, time.Time) ([]string, error) { return f.sent, f.err }

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		SQLiteDBPath:      "/tmp/test.db",
		TelegramBotToken:  "token",
		TelegramChatID:    "42",
		CronSecret:        "cron-secret",
		DashboardPassword: "hunter2",
		SessionSecret:     "session-secret",
	}
}

func newTestServer() (*Server, *fakeStore, *fakeBot, *fakeScheduler) {
	store := newStoreFake()
	botFake := &fakeBot{}
	sched := &fakeScheduler{sent: []string{"morning_brief"}}
	return NewServer(testConfig(), store, botFake, sched), store, botFake, sched
}

func sessionCookieFor(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	body := bytes.NewBufferString(`{"password":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s, _, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		bytes.NewBufferString(`{"password":"wrong"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIRequiresSession(t *testing.T) {
	s, _, _, _ := newTestServer()

	for _, path := range []string{"/api/overview", "/api/expenses", "/api/settings", "/api/salaries"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without cookie: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestExpenseLifecycle(t *testing.T) {
	s, store, _, _ := newTestServer()
	cookie := sessionCookieFor(t, s)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var r *http.Request
		if body == "" {
			r = httptest.NewRequest(method, path, nil)
		} else {
			r = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		r.AddCookie(cookie)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, r)
		return rec
	}

	rec := do(http.MethodPost, "/api/expenses",
		`{"amount":"250.50","description":"lunch at cafe"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.AmountCents != 25050 {
		t.Errorf("amount = %d cents, want 25050", created.AmountCents)
	}
	if created.Category != "Food" {
		t.Errorf("category = %q, want Food (classified from description)", created.Category)
	}
	if len(store.expenses) != 1 {
		t.Fatalf("store has %d expenses, want 1", len(store.expenses))
	}

	rec = do(http.MethodDelete, "/api/expenses/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if len(store.expenses) != 0 {
		t.Error("expense not deleted")
	}

	rec = do(http.MethodDelete, "/api/expenses/99", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleting missing expense: status = %d, want 404", rec.Code)
	}

	rec = do(http.MethodPost, "/api/expenses", `{"amount":"-5","description":"bad"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative amount: status = %d, want 400", rec.Code)
	}
}

func TestPrivacyMaskingInListing(t *testing.T) {
	s, store, _, _ := newTestServer()
	cookie := sessionCookieFor(t, s)

	store.expenses = append(store.expenses, core.Expense{
		ID:          1,
		Amount:      core.FromUnits(900),
		Category:    "Other",
		Description: "poker night",
		Date:        time.Now(),
		IsFake:      true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "poker night") {
		t.Error("masked description leaked through the API")
	}
	if !strings.Contains(rec.Body.String(), "Miscellaneous") {
		t.Error("expected masked placeholder in response")
	}
}

func TestOverviewPayload(t *testing.T) {
	s, _, _, _ := newTestServer()
	cookie := sessionCookieFor(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Report struct {
			Status string `json:"status"`
		} `json:"report"`
		Period struct {
			Days int `json:"days"`
		} `json:"period"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Report.Status == "" {
		t.Error("overview missing report status")
	}
	if payload.Period.Days < 28 || payload.Period.Days > 31 {
		t.Errorf("period days = %d, out of range", payload.Period.Days)
	}
}

func TestWebhookAlwaysAnswers200(t *testing.T) {
	s, _, botFake, _ := newTestServer()

	// Garbage body: still 200 so Telegram stops retrying.
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook",
		strings.NewReader("not json at all"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("garbage payload: status = %d, want 200", rec.Code)
	}
	if len(botFake.updates) != 0 {
		t.Error("garbage payload should not reach the bot")
	}

	// Real update is dispatched and acknowledged.
	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook",
		strings.NewReader(`{"update_id":1,"message":{"message_id":1,"chat":{"id":42},"text":"200 lunch"}}`))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid payload: status = %d, want 200", rec.Code)
	}
	if len(botFake.updates) != 1 {
		t.Fatalf("bot got %d updates, want 1", len(botFake.updates))
	}
	if botFake.updates[0].Message.Text != "200 lunch" {
		t.Errorf("update text = %q", botFake.updates[0].Message.Text)
	}
}

func TestCronRequiresBearerSecret(t *testing.T) {
	s, _, _, _ := newTestServer()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"not bearer", "Basic cron-secret", http.StatusUnauthorized},
		{"correct", "Bearer cron-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cron/reminders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCronReportsWhatWasSent(t *testing.T) {
	s, _, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/cron/reminders", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var payload struct {
		OK   bool     `json:"ok"`
		Sent []string `json:"sent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if !payload.OK || len(payload.Sent) != 1 || payload.Sent[0] != "morning_brief" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestSettingsUpdateValidates(t *testing.T) {
	s, store, _, _ := newTestServer()
	cookie := sessionCookieFor(t, s)

	req := httptest.NewRequest(http.MethodPut, "/api/settings",
		strings.NewReader(`{"currency":"₹","total_salary_cents":10000000,"personal_budget_cents":3500000,"salary_day":45,"daily_food_budget_cents":40000,"privacy_mode":true}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("salary day 45: status = %d, want 400", rec.Code)
	}
	if store.profile.SalaryDay != 7 {
		t.Error("invalid update must not be persisted")
	}
}

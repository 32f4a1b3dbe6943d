package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/app"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/fixtures"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/authz"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	handler   http.Handler
	jwt       jwt.Service
	employees map[string]employee.Employee // by code
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	repos := app.MemoryRepositories()
	services := app.NewServices(repos, lock.NewLocalLocker(time.Second), config.PayrollConfig{
		Workers:      2,
		RunTimeout:   10 * time.Second,
		LockTTL:      5 * time.Second,
		CurrencyUnit: decimal.NewFromInt(1),
	})

	_, err := fixtures.SeedTaxSchedule(ctx, services.TaxConfig, fixtures.DefaultTaxSchedule)
	require.NoError(t, err)
	seeded, err := fixtures.SeedEmployees(ctx, repos.EmployeeSeeder, fixtures.DemoEmployees)
	require.NoError(t, err)

	authorizer, err := authz.NewAuthorizer("", authz.ModeEnforce)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	router := NewRouter(
		RouterOptions{},
		jwtService,
		authorizer,
		NewPayrollHandler(services.Payroll),
		NewTaxConfigHandler(services.TaxConfig),
		NewBonusHandler(services.Bonus),
		NewDeductionHandler(services.Deduction),
	)

	byCode := make(map[string]employee.Employee, len(seeded))
	for _, emp := range seeded {
		byCode[emp.EmployeeCode] = emp
	}
	return &testServer{handler: router, jwt: jwtService, employees: byCode}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int64 `json:"total_items"`
	} `json:"meta"`
}

func (s *testServer) do(t *testing.T, role user.Role, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := s.jwt.GenerateAccessToken("user-"+string(role), nil, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

type recordBody struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	NetSalary   decimal.Decimal `json:"net_salary"`
	Status      string          `json:"status"`
}

type runBody struct {
	RunID          string       `json:"run_id"`
	Records        []recordBody `json:"records"`
	ProcessedCount int          `json:"processed_count"`
	FailedCount    int          `json:"failed_count"`
	Failures       []struct {
		EmployeeID string `json:"employee_id"`
		Reason     string `json:"reason"`
	} `json:"failures"`
}

func processMarch(t *testing.T, s *testServer) runBody {
	t.Helper()
	rec, env := s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/payroll/runs", map[string]interface{}{
		"period_month": 3,
		"period_year":  2024,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var run runBody
	require.NoError(t, json.Unmarshal(env.Data, &run))
	return run
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, "", http.MethodGet, "/api/v1/payroll/records", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RoleIsChecked(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, user.RoleEmployee, http.MethodPost, "/api/v1/payroll/runs", map[string]interface{}{
		"period_month": 3,
		"period_year":  2024,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = s.do(t, user.RoleManager, http.MethodGet, "/api/v1/tax-config", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayrollHandler_ProcessAndList(t *testing.T) {
	s := newTestServer(t)

	run := processMarch(t, s)
	assert.Equal(t, 3, run.ProcessedCount)
	assert.Zero(t, run.FailedCount)

	john := s.employees["EMP-002"]
	for _, r := range run.Records {
		if r.EmployeeID == john.ID {
			assert.True(t, r.TaxAmount.Equal(decimal.NewFromInt(3250)), r.TaxAmount.String())
			assert.True(t, r.NetSalary.Equal(decimal.NewFromInt(54470)), r.NetSalary.String())
			assert.Equal(t, "processed", r.Status)
		}
	}

	rec, env := s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/payroll/records?period_month=3&period_year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(3), env.Meta.TotalItems)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/payroll/records?sort_by=salary", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/payroll/summary?period_month=3&period_year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		TotalEmployees int `json:"total_employees"`
		ProcessedCount int `json:"processed_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 3, summary.TotalEmployees)
	assert.Equal(t, 3, summary.ProcessedCount)
}

func TestPayrollHandler_FinalizeAndSupersede(t *testing.T) {
	s := newTestServer(t)
	run := processMarch(t, s)
	require.NotEmpty(t, run.Records)
	recordID := run.Records[0].ID

	rec, _ := s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/payroll/records/finalize", map[string]interface{}{
		"record_ids": []string{recordID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/payroll/records/finalize", map[string]interface{}{
		"record_ids": []string{recordID},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodDelete, "/api/v1/payroll/records/"+recordID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A second run reports the paid employee instead of overwriting it.
	again := processMarch(t, s)
	require.Len(t, again.Failures, 1)
	assert.Equal(t, "ALREADY_PAID", again.Failures[0].Reason)

	rec, env = s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/payroll/records/"+recordID+"/supersede", map[string]interface{}{
		"reason": "bank correction",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var superseded recordBody
	require.NoError(t, json.Unmarshal(env.Data, &superseded))
	assert.Equal(t, "superseded", superseded.Status)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/payroll/records/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollHandler_Preview(t *testing.T) {
	s := newTestServer(t)
	admin := s.employees["EMP-001"]

	rec, env := s.do(t, user.RoleHRAdmin, http.MethodGet,
		"/api/v1/payroll/preview?employee_id="+admin.ID+"&period_month=3&period_year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var preview recordBody
	require.NoError(t, json.Unmarshal(env.Data, &preview))
	assert.Empty(t, preview.ID)
	assert.True(t, preview.GrossSalary.Equal(decimal.NewFromInt(80000)))

	// EMP-001 was hired in January 2024.
	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodGet,
		"/api/v1/payroll/preview?employee_id="+admin.ID+"&period_month=12&period_year=2023", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/payroll/preview?employee_id="+admin.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaxConfigHandler_ActiveSchedule(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/tax-config/active?date=2024-06-30", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var schedule struct {
		PersonalIncomeTax []json.RawMessage `json:"personal_income_tax"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &schedule))
	assert.Len(t, schedule.PersonalIncomeTax, 3)

	rec, env = s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/tax-config/active?date=2023-06-30", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TAX_CONFIGURATION_ERROR", env.Error.Code)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodGet, "/api/v1/tax-config/active?date=June", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaxConfigHandler_CreateValidates(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/tax-config", map[string]interface{}{
		"config_name":     "Bad",
		"config_type":     "vat",
		"rate_percentage": "150",
		"threshold_min":   "0",
		"effective_date":  "2025-01-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "config_type")

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/tax-config", map[string]interface{}{
		"config_name":     "Health Insurance Employee",
		"config_type":     "health_insurance",
		"rate_percentage": "1.7",
		"threshold_min":   "0",
		"effective_date":  "2024-01-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBonusHandler_ReviewFlow(t *testing.T) {
	s := newTestServer(t)
	john := s.employees["EMP-002"]

	rec, env := s.do(t, user.RoleManager, http.MethodPost, "/api/v1/bonuses", map[string]interface{}{
		"employee_id":  john.ID,
		"bonus_type":   "performance",
		"amount":       "5000",
		"period_month": 3,
		"period_year":  2024,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)

	rec, _ = s.do(t, user.RoleManager, http.MethodPost, "/api/v1/bonuses/"+created.ID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/bonuses/"+created.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/bonuses/"+created.ID+"/reject", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	run := processMarch(t, s)
	for _, r := range run.Records {
		if r.EmployeeID == john.ID {
			assert.True(t, r.GrossSalary.Equal(decimal.NewFromInt(70000)), r.GrossSalary.String())
		}
	}
}

func TestDeductionHandler_CreateListDelete(t *testing.T) {
	s := newTestServer(t)
	jane := s.employees["EMP-003"]

	rec, env := s.do(t, user.RoleHRAdmin, http.MethodPost, "/api/v1/deductions", map[string]interface{}{
		"employee_id":  jane.ID,
		"period_month": 3,
		"period_year":  2024,
		"amount":       "2500",
		"description":  "Salary advance",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = s.do(t, user.RoleManager, http.MethodGet, "/api/v1/deductions?employee_id="+jane.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rec, _ = s.do(t, user.RoleManager, http.MethodDelete, "/api/v1/deductions/"+created.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodDelete, "/api/v1/deductions/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, user.RoleHRAdmin, http.MethodDelete, "/api/v1/deductions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dotaciones/staffing-api-go/pkg/database"
	"github.com/dotaciones/staffing-api-go/pkg/mailer"
	"github.com/dotaciones/staffing-api-go/pkg/models"
	"github.com/dotaciones/staffing-api-go/pkg/ratelimit"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.APIKey{}, &database.APIUsage{}, &database.MasterUser{},
		&database.Lead{}, &database.ContactMessage{},
	))
	return db
}

func testRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(h.RateLimitMiddleware(), h.BodyLimitMiddleware())
	{
		api.POST("/calculate", h.Calculate)
		api.POST("/validate", h.ValidateInput)
		api.POST("/leads", h.CreateLead)
		api.POST("/contact", h.Contact)
		api.GET("/report/:id", h.GetReport)
	}
	return r
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return &Handler{
		DB:              testDB(t),
		Logger:          zap.NewNop(),
		Mailer:          mailer.Nop{},
		Limiter:         ratelimit.NewPerIP(600, 600),
		SiteURL:         "https://dotaciones.test",
		MaxPayloadBytes: 250_000,
	}
}

func calcBody(t *testing.T) []byte {
	t.Helper()
	days := make(map[string]models.DayInput)
	for _, d := range models.DayOrder {
		days[d] = models.DayInput{Open: true, HoursOpen: 10, RequiredPeople: 2, ShiftsPerDay: 2, BreakMinutes: 60, OverlapMinutes: 30}
	}
	input := models.CalcInput{
		Days:      days,
		Contracts: []models.ContractType{{Name: "Full time", HoursPerWeek: 42}},
	}
	body, err := json.Marshal(input)
	require.NoError(t, err)
	return body
}

func TestCalculate_HappyPath(t *testing.T) {
	r := testRouter(newTestHandler(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(calcBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp struct {
		OK     bool              `json:"ok"`
		Result models.CalcResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Greater(t, resp.Result.RequiredHours, 0.0)
	assert.NotEmpty(t, resp.Result.Mixes)
}

func TestCalculate_MissingDayRejected(t *testing.T) {
	r := testRouter(newTestHandler(t))

	body := []byte(`{"days":{"mon":{"open":true,"hoursOpen":8,"requiredPeople":1}},"contracts":[{"name":"FT","hoursPerWeek":42}]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "days.tue")
}

func TestCalculate_MalformedJSONRejected(t *testing.T) {
	r := testRouter(newTestHandler(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculate_OversizedBodyRejected(t *testing.T) {
	h := newTestHandler(t)
	h.MaxPayloadBytes = 64
	r := testRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(calcBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCalculate_RateLimited(t *testing.T) {
	h := newTestHandler(t)
	h.Limiter = ratelimit.NewPerIP(60, 1)
	r := testRouter(h)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(calcBody(t)))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if i == 0 {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}
}

func TestValidate_ReportsStats(t *testing.T) {
	r := testRouter(newTestHandler(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(calcBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid bool `json:"valid"`
		Stats struct {
			OpenDays      int `json:"open_days"`
			ContractCount int `json:"contract_count"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 7, resp.Stats.OpenDays)
	assert.Equal(t, 1, resp.Stats.ContractCount)
}

func TestValidate_BadSlotGrid(t *testing.T) {
	r := testRouter(newTestHandler(t))

	days := make(map[string]models.DayInput)
	for _, d := range models.DayOrder {
		days[d] = models.DayInput{Open: false}
	}
	days["mon"] = models.DayInput{Open: true, DemandSlots: []int{1, 2, 3}}
	input := models.CalcInput{Days: days, Contracts: []models.ContractType{{HoursPerWeek: 42}}}
	body, err := json.Marshal(input)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
	assert.Contains(t, w.Body.String(), "demandSlots")
}

func TestCreateLead_StoresAndReturnsReportURL(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)

	body := []byte(`{"email":"Ana Pérez <ANA@example.com>","full_name":"Ana Pérez","source":"calculadora","calc_input":{"x":1},"calc_result":{"y":2}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		OK        bool   `json:"ok"`
		ID        uint   `json:"id"`
		ReportURL string `json:"report_url"`
		EmailSent bool   `json:"email_sent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.True(t, resp.EmailSent)
	assert.Contains(t, resp.ReportURL, "/reporte/")

	var lead database.Lead
	require.NoError(t, h.DB.First(&lead, resp.ID).Error)
	assert.Equal(t, "ana@example.com", lead.Email, "email is unwrapped and lowercased")
	assert.JSONEq(t, `{"x":1}`, lead.CalcInput)
}

func TestCreateLead_InvalidEmailRejected(t *testing.T) {
	r := testRouter(newTestHandler(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContact_RequiresMessage(t *testing.T) {
	r := testRouter(newTestHandler(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Ana"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContact_StoresMessage(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Ana","email":"ana@example.com","message":"hola","page":"/precios"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var msg database.ContactMessage
	require.NoError(t, h.DB.First(&msg).Error)
	assert.Equal(t, "hola", msg.Message)
	assert.Equal(t, "test-agent", msg.UserAgent)
}

func TestGetReport_RoundTrip(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)

	lead := database.Lead{Email: "ana@example.com", CalcInput: `{"x":1}`, CalcResult: `{"y":2}`}
	require.NoError(t, h.DB.Create(&lead).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/report/%d", lead.ID), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"calc_input":{"x":1},"calc_result":{"y":2}}`, w.Body.String())
}

func TestGetReport_NotFound(t *testing.T) {
	r := testRouter(newTestHandler(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/report/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSafeStr_TruncatesOnRuneBoundary(t *testing.T) {
	s := strings.Repeat("ñ", 70) // 140 bytes, every odd byte offset is mid-rune

	out := safeStr(s, 121)

	assert.Equal(t, 120, len(out))
	assert.True(t, utf8.ValidString(out))
}

func TestContact_LongMessageKeptValidUTF8(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)

	payload, err := json.Marshal(gin.H{"message": strings.Repeat("á", 1500)}) // 3000 bytes
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var msg database.ContactMessage
	require.NoError(t, h.DB.First(&msg).Error)
	assert.LessOrEqual(t, len(msg.Message), 2000)
	assert.True(t, utf8.ValidString(msg.Message))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.co", normalizeEmail(" A@B.co "))
	assert.Equal(t, "a@b.co", normalizeEmail("Ana <a@b.co>"))
	assert.Equal(t, "", normalizeEmail("nope"))
	assert.Equal(t, "", normalizeEmail(""))
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dotaciones/staffing-api-go/pkg/database"
)

// Per-blob cap for the stored calculation JSON.
const maxCalcBlobBytes = 200_000

var angleEmailRe = regexp.MustCompile(`<([^<>\s]+@[^<>\s]+)>`)
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type leadRequest struct {
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Name        string          `json:"name"` // legacy alias for full_name
	Role        string          `json:"role"`
	Industry    string          `json:"industry"`
	Employees   *int            `json:"employees"`
	CompanySize string          `json:"company_size"`
	City        string          `json:"city"`
	Source      string          `json:"source"`
	CalcInput   json.RawMessage `json:"calc_input"`
	CalcResult  json.RawMessage `json:"calc_result"`
}

// normalizeEmail lowercases and unwraps "Name <addr>" forms. Returns "" when
// the result is not a plausible address.
func normalizeEmail(raw string) string {
	s := strings.TrimSpace(raw)
	if m := angleEmailRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.ToLower(s)
	if !emailRe.MatchString(s) {
		return ""
	}
	return s
}

func safeStr(s string, max int) string {
	return truncate(strings.TrimSpace(s), max)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func safeBlob(raw json.RawMessage) string {
	if len(raw) == 0 || len(raw) > maxCalcBlobBytes {
		return ""
	}
	if !json.Valid(raw) {
		return ""
	}
	return string(raw)
}

// CreateLead stores a report request and mails the report link best-effort
func (h *Handler) CreateLead(c *gin.Context) {
	var req leadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = req.Name
	}

	lead := database.Lead{
		Email:       email,
		FullName:    safeStr(fullName, 120),
		Role:        safeStr(req.Role, 120),
		Industry:    safeStr(req.Industry, 120),
		Employees:   req.Employees,
		CompanySize: safeStr(req.CompanySize, 120),
		City:        safeStr(req.City, 120),
		Source:      safeStr(req.Source, 120),
		CalcInput:   safeBlob(req.CalcInput),
		CalcResult:  safeBlob(req.CalcResult),
	}

	if err := h.DB.Create(&lead).Error; err != nil {
		h.Logger.Error("lead insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store lead"})
		return
	}

	reportURL := fmt.Sprintf("%s/reporte/%d", h.SiteURL, lead.ID)

	emailSent := false
	if err := h.Mailer.SendReportLink(email, reportURL); err != nil {
		h.Logger.Warn("report email not sent", zap.Uint("lead_id", lead.ID), zap.Error(err))
	} else {
		emailSent = true
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"id":         lead.ID,
		"report_url": reportURL,
		"email_sent": emailSent,
	})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Page    string `json:"page"`
}

// Contact stores a contact-form message and notifies the admin best-effort
func (h *Handler) Contact(c *gin.Context) {
	var req contactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	message = truncate(message, 2000)

	msg := database.ContactMessage{
		Name:      safeStr(req.Name, 120),
		Email:     normalizeEmail(req.Email),
		Message:   message,
		Page:      safeStr(req.Page, 120),
		UserAgent: safeStr(c.GetHeader("User-Agent"), 300),
	}

	if err := h.DB.Create(&msg).Error; err != nil {
		h.Logger.Error("contact insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store message"})
		return
	}

	if err := h.Mailer.SendContactNotice(msg.Name, msg.Email, msg.Page, msg.Message); err != nil {
		h.Logger.Warn("contact notice not sent", zap.Uint("message_id", msg.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": msg.ID})
}

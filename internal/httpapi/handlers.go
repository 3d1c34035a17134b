package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/audit"
	"github.com/asm2me/Asterisk-Reporting/internal/auth"
	"github.com/asm2me/Asterisk-Reporting/internal/export"
	"github.com/asm2me/Asterisk-Reporting/internal/report"
	"github.com/asm2me/Asterisk-Reporting/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth    *auth.Manager
	Reports *report.Service
	Audit   *audit.Service
}

const dateLayout = "2006-01-02"

// --- Auth ---

type loginRequest struct {
	Username   string   `json:"username"`
	Admin      bool     `json:"is_admin"`
	Extensions []string `json:"extensions"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate
// credentials against the PBX user store before issuing tokens.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Username == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.Username, req.Admin, req.Extensions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Reports ---

// principal maps the authenticated identity onto the report viewer shape.
func principal(c *gin.Context) (report.Principal, bool) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return report.Principal{}, false
	}
	return report.Principal{
		Username:   id.Username,
		IsAdmin:    id.Admin,
		Extensions: id.Extensions,
	}, true
}

// parseFilter reads the report query parameters. Malformed dates and a
// non-numeric min_billsec fail here; sort, preset and page values degrade to
// defaults downstream.
func parseFilter(c *gin.Context) (report.Filter, error) {
	var f report.Filter

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		return f, fmt.Errorf("from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		return f, fmt.Errorf("to must be YYYY-MM-DD")
	}
	f.From, f.To = from, to

	f.Query = strings.TrimSpace(c.Query("q"))
	f.Src = strings.TrimSpace(c.Query("src"))
	f.Dst = strings.TrimSpace(c.Query("dst"))
	f.Disposition = strings.TrimSpace(c.Query("disposition"))
	if raw := strings.TrimSpace(c.Query("min_billsec")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("min_billsec must be numeric")
		}
		f.MinBillsec = n
	}

	f.Preset = report.ParsePreset(c.Query("preset"))
	f.Gateway = strings.TrimSpace(c.Query("gateway"))

	f.Sort = report.Sort{
		Column: c.Query("sort"),
		Desc:   !strings.EqualFold(c.Query("dir"), "asc"),
	}
	f.Page.Number, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Page.Size, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))

	return f, nil
}

// fail translates engine errors: filter validation is the caller's fault,
// anything else is a data source problem.
func fail(c *gin.Context, err error) {
	if errors.Is(err, report.ErrInvalidFilter) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.FromGin(c).Error("report request failed", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
}

func (h Handlers) auditView(c *gin.Context, p report.Principal, f report.Filter) {
	if h.Audit == nil {
		return
	}
	detail := fmt.Sprintf("%s..%s preset=%s", f.From.Format(dateLayout), f.To.Format(dateLayout), f.Preset)
	if err := h.Audit.LogReportView(c.Request.Context(), p.Username, p.IsAdmin, c.ClientIP(), detail); err != nil {
		logger.FromGin(c).Warn("audit append failed", "error", err)
	}
}

func (h Handlers) auditExport(c *gin.Context, typ audit.EventType, p report.Principal, f report.Filter) {
	if h.Audit == nil {
		return
	}
	detail := fmt.Sprintf("%s..%s preset=%s", f.From.Format(dateLayout), f.To.Format(dateLayout), f.Preset)
	if err := h.Audit.LogExport(c.Request.Context(), typ, p.Username, p.IsAdmin, c.ClientIP(), detail); err != nil {
		logger.FromGin(c).Warn("audit append failed", "error", err)
	}
}

// Summary returns disposition tallies plus peak trunk concurrency.
func (h Handlers) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sum, err := h.Reports.Summary(c.Request.Context(), f, p)
	if err != nil {
		fail(c, err)
		return
	}
	h.auditView(c, p, f)
	c.JSON(http.StatusOK, sum)
}

// Calls returns one page of the report. mode=legs switches to the flat,
// non-grouped row view.
func (h Handlers) Calls(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("mode") == "legs" {
		res, err := h.Reports.LegacyPage(c.Request.Context(), f, p)
		if err != nil {
			fail(c, err)
			return
		}
		h.auditView(c, p, f)
		c.JSON(http.StatusOK, res)
		return
	}

	res, err := h.Reports.Page(c.Request.Context(), f, p)
	if err != nil {
		fail(c, err)
		return
	}
	h.auditView(c, p, f)
	c.JSON(http.StatusOK, res)
}

// ExtensionKPIs returns the per-extension rollup.
func (h Handlers) ExtensionKPIs(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.Reports.ExtensionRollup(c.Request.Context(), f, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"extensions": rows})
}

// Concurrency returns the peak simultaneous call count on a trunk.
func (h Handlers) Concurrency(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	max, err := h.Reports.MaxConcurrency(c.Request.Context(), f, p, c.Query("gateway"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"max_concurrent": max})
}

// Gateways lists the trunks available for filtering.
func (h Handlers) Gateways(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	gws, err := h.Reports.Gateways(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gateways": gws})
}

// ExportCSV streams the full filtered leg set, ignoring the page window.
func (h Handlers) ExportCSV(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	headers, rows, err := h.Reports.ExportRows(c.Request.Context(), f, p)
	if err != nil {
		fail(c, err)
		return
	}
	h.auditExport(c, audit.EventTypeExportCSV, p, f)

	filename := report.ExportFilename(f, "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, headers, rows); err != nil {
		logger.FromGin(c).Error("csv stream aborted", "error", err)
	}
}

// ExportXLSX sends the same result set as a single-sheet workbook.
func (h Handlers) ExportXLSX(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	headers, rows, err := h.Reports.ExportRows(c.Request.Context(), f, p)
	if err != nil {
		fail(c, err)
		return
	}
	h.auditExport(c, audit.EventTypeExportXLSX, p, f)

	filename := report.ExportFilename(f, "xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := export.WriteXLSX(c.Writer, "CDR", headers, rows); err != nil {
		logger.FromGin(c).Error("xlsx stream aborted", "error", err)
	}
}

package admin

import (
	"strings"
	"time"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs GET /admin/authz/audit-logs
func (h *Handler) ListAuditLogs(c *gin.Context) {
	filter, err := auditFilterFromQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	items, total, err := h.AdminAuditService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, items, response.BuildPagination(filter.Page, filter.PageSize, total))
}

func auditFilterFromQuery(c *gin.Context) (repository.AuthzAuditLogListFilter, error) {
	var (
		filter repository.AuthzAuditLogListFilter
		err    error
	)
	filter.Page, filter.PageSize = queryPage(c)
	if filter.CreatedFrom, err = parseTimeNullable(c.Query("created_from")); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = parseTimeNullable(c.Query("created_to")); err != nil {
		return filter, err
	}
	if filter.OperatorAdminID, err = parseOptionalUint(c.Query("operator_admin_id")); err != nil {
		return filter, err
	}
	if filter.TargetAdminID, err = parseOptionalUint(c.Query("target_admin_id")); err != nil {
		return filter, err
	}
	filter.Action = strings.TrimSpace(c.Query("action"))
	filter.Resource = strings.TrimSpace(c.Query("resource"))
	filter.Role = strings.TrimSpace(c.Query("role"))
	filter.Object = strings.TrimSpace(c.Query("object"))
	filter.Method = strings.ToUpper(strings.TrimSpace(c.Query("method")))
	return filter, nil
}

// recordAudit 补全操作人与请求信息后异步落库
func (h *Handler) recordAudit(c *gin.Context, entry service.AdminAuditEntry) {
	entry.AdminID = currentAdminID(c)
	entry.Username = currentUsername(c)
	entry.RequestID = currentRequestID(c)
	if entry.Path == "" {
		entry.Path = c.FullPath()
		entry.Method = c.Request.Method
	}
	h.AdminAuditService.Record(entry)
}

// parseTimeNullable 接受 RFC3339 或本地日期 2006-01-02；空串返回 nil
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.ParseInLocation(time.DateOnly, raw, time.Local); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

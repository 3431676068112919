package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/repository"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminTickets 获取工单列表
func (h *Handler) GetAdminTickets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	tickets, total, err := h.TicketService.List(repository.TicketListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
		TicketNo: strings.TrimSpace(c.Query("ticket_no")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "ticket fetch failed", err)
		return
	}

	pagination := response.NewPagination(page, pageSize, total)
	response.SuccessWithPage(c, tickets, pagination)
}

// GetAdminTicket 获取工单详情
func (h *Handler) GetAdminTicket(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	ticket, err := h.TicketService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "ticket fetch failed", err)
		return
	}

	response.Success(c, ticket)
}

// TicketReplyRequest 工单回复请求
type TicketReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// ReplyAdminTicket 管理员回复工单
func (h *Handler) ReplyAdminTicket(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req TicketReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	ticket, err := h.TicketService.ReplyAsAdmin(adminID, id, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			respondError(c, response.CodeNotFound, "ticket not found", nil)
		case errors.Is(err, service.ErrTicketClosed):
			respondError(c, response.CodeBadRequest, "ticket already closed", nil)
		case errors.Is(err, service.ErrTicketInvalid):
			respondError(c, response.CodeBadRequest, "reply invalid", nil)
		default:
			respondError(c, response.CodeInternal, "ticket reply failed", err)
		}
		return
	}

	response.Success(c, ticket)
}

// CloseAdminTicket 管理员关闭工单
func (h *Handler) CloseAdminTicket(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	ticket, err := h.TicketService.Close(id)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "ticket close failed", err)
		return
	}

	response.Success(c, ticket)
}

package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/repository"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTicketRequest 创建工单请求
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// CreateTicket 顾客创建工单
func (h *Handler) CreateTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	ticket, err := h.TicketService.Create(userID, req.Subject, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrTicketInvalid) {
			respondError(c, response.CodeBadRequest, "ticket invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "ticket create failed", err)
		return
	}

	response.Success(c, ticket)
}

// GetMyTickets 获取自己的工单列表
func (h *Handler) GetMyTickets(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	tickets, total, err := h.TicketService.List(repository.TicketListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "ticket fetch failed", err)
		return
	}

	pagination := response.NewPagination(page, pageSize, total)
	response.SuccessWithPage(c, tickets, pagination)
}

// GetMyTicket 获取自己的工单详情
func (h *Handler) GetMyTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	ticket, err := h.TicketService.GetForUser(userID, id)
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

// TicketReplyRequest 工单追加留言请求
type TicketReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// ReplyMyTicket 顾客追加留言
func (h *Handler) ReplyMyTicket(c *gin.Context) {
	userID, ok := getUserID(c)
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

	ticket, err := h.TicketService.ReplyAsCustomer(userID, id, req.Body)
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

// CloseMyTicket 顾客关闭自己的工单
func (h *Handler) CloseMyTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if _, err := h.TicketService.GetForUser(userID, id); err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "ticket fetch failed", err)
		return
	}

	ticket, err := h.TicketService.Close(id)
	if err != nil {
		respondError(c, response.CodeInternal, "ticket close failed", err)
		return
	}

	response.Success(c, ticket)
}

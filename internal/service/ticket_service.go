package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/google/uuid"
)

// TicketNotifier 工单回复通知
type TicketNotifier interface {
	EnqueueTicketReplyNotify(ticketID uint) error
}

// TicketService 客服工单服务
type TicketService struct {
	repo     repository.TicketRepository
	notifier TicketNotifier
}

// NewTicketService 创建工单服务
func NewTicketService(repo repository.TicketRepository, notifier TicketNotifier) *TicketService {
	return &TicketService{repo: repo, notifier: notifier}
}

// Create 顾客创建工单（主题 + 首条留言）
func (s *TicketService) Create(userID uint, subject, body string) (*models.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if userID == 0 || subject == "" || body == "" {
		return nil, ErrTicketInvalid
	}

	ticket := &models.SupportTicket{
		TicketNo: generateTicketNo(),
		UserID:   userID,
		Subject:  subject,
		Status:   constants.TicketStatusOpen,
		Messages: []models.TicketMessage{
			{AuthorType: constants.TicketAuthorCustomer, AuthorID: userID, Body: body},
		},
	}
	if err := s.repo.Create(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Get 获取工单详情
func (s *TicketService) Get(id uint) (*models.SupportTicket, error) {
	if id == 0 {
		return nil, ErrTicketInvalid
	}
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// GetForUser 获取顾客自己的工单
func (s *TicketService) GetForUser(userID, ticketID uint) (*models.SupportTicket, error) {
	ticket, err := s.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// List 工单列表
func (s *TicketService) List(filter repository.TicketListFilter) ([]models.SupportTicket, int64, error) {
	return s.repo.List(filter)
}

// ReplyAsCustomer 顾客追加留言（重新置为 open）
func (s *TicketService) ReplyAsCustomer(userID, ticketID uint, body string) (*models.SupportTicket, error) {
	ticket, err := s.GetForUser(userID, ticketID)
	if err != nil {
		return nil, err
	}
	return s.appendReply(ticket, constants.TicketAuthorCustomer, userID, body, constants.TicketStatusOpen)
}

// ReplyAsAdmin 管理员回复（置为 answered 并通知顾客）
func (s *TicketService) ReplyAsAdmin(adminID, ticketID uint, body string) (*models.SupportTicket, error) {
	ticket, err := s.Get(ticketID)
	if err != nil {
		return nil, err
	}
	replied, err := s.appendReply(ticket, constants.TicketAuthorAdmin, adminID, body, constants.TicketStatusAnswered)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.EnqueueTicketReplyNotify(ticketID); err != nil {
			logger.Warnw("ticket_reply_notify_enqueue_failed", "ticket_id", ticketID, "error", err)
		}
	}
	return replied, nil
}

func (s *TicketService) appendReply(ticket *models.SupportTicket, authorType string, authorID uint, body, nextStatus string) (*models.SupportTicket, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrTicketInvalid
	}
	if ticket.Status == constants.TicketStatusClosed {
		return nil, ErrTicketClosed
	}

	message := &models.TicketMessage{
		TicketID:   ticket.ID,
		AuthorType: authorType,
		AuthorID:   authorID,
		Body:       body,
	}
	if err := s.repo.AppendMessage(message); err != nil {
		return nil, err
	}

	ticket.Status = nextStatus
	if err := s.repo.Update(ticket); err != nil {
		return nil, err
	}
	return s.Get(ticket.ID)
}

// Close 关闭工单（顾客或管理员）
func (s *TicketService) Close(ticketID uint) (*models.SupportTicket, error) {
	ticket, err := s.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constants.TicketStatusClosed {
		return ticket, nil
	}
	now := time.Now()
	ticket.Status = constants.TicketStatusClosed
	ticket.ClosedAt = &now
	if err := s.repo.Update(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// generateTicketNo 生成工单编号
func generateTicketNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TK%s%s", time.Now().Format("20060102"), strings.ToUpper(suffix))
}

package repository

import (
	"errors"
	"strings"

	"github.com/sabor-next/internal/models"

	"gorm.io/gorm"
)

// TicketRepository 工单数据访问接口
type TicketRepository interface {
	List(filter TicketListFilter) ([]models.SupportTicket, int64, error)
	GetByID(id uint) (*models.SupportTicket, error)
	GetByTicketNo(ticketNo string) (*models.SupportTicket, error)
	Create(ticket *models.SupportTicket) error
	Update(ticket *models.SupportTicket) error
	AppendMessage(message *models.TicketMessage) error
	WithTx(tx *gorm.DB) TicketRepository
}

// GormTicketRepository GORM 实现
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository 创建工单仓库
func NewTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTicketRepository) WithTx(tx *gorm.DB) TicketRepository {
	if tx == nil {
		return r
	}
	return &GormTicketRepository{db: tx}
}

// List 工单列表（按最近更新倒序）
func (r *GormTicketRepository) List(filter TicketListFilter) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket

	query := r.db.Model(&models.SupportTicket{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if ticketNo := strings.TrimSpace(filter.TicketNo); ticketNo != "" {
		query = query.Where("ticket_no = ?", ticketNo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildSearchCondition(r.db, []string{"subject"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("updated_at DESC, id DESC").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// GetByID 根据 ID 获取工单（含留言）
func (r *GormTicketRepository) GetByID(id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("User").
		First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// GetByTicketNo 根据工单号获取工单
func (r *GormTicketRepository) GetByTicketNo(ticketNo string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("ticket_no = ?", ticketNo).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// Create 创建工单（连同首条留言）
func (r *GormTicketRepository) Create(ticket *models.SupportTicket) error {
	return r.db.Create(ticket).Error
}

// Update 更新工单
func (r *GormTicketRepository) Update(ticket *models.SupportTicket) error {
	return r.db.Omit("Messages", "User").Save(ticket).Error
}

// AppendMessage 追加工单留言
func (r *GormTicketRepository) AppendMessage(message *models.TicketMessage) error {
	return r.db.Create(message).Error
}

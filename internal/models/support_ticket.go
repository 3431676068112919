package models

import (
	"time"

	"gorm.io/gorm"
)

// SupportTicket 客服工单表
type SupportTicket struct {
	ID        uint           `gorm:"primarykey" json:"id"`                  // 主键
	TicketNo  string         `gorm:"uniqueIndex;not null" json:"ticket_no"` // 工单编号
	UserID    uint           `gorm:"index;not null" json:"user_id"`         // 顾客ID
	Subject   string         `gorm:"not null" json:"subject"`               // 主题
	Status    string         `gorm:"index;not null" json:"status"`          // 状态（open/answered/closed）
	ClosedAt  *time.Time     `json:"closed_at"`                             // 关闭时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`               // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间

	// 关联
	Messages []TicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"` // 留言列表
	User     *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`       // 顾客
}

// TableName 指定表名
func (SupportTicket) TableName() string {
	return "support_tickets"
}

// TicketMessage 工单留言表
type TicketMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`            // 主键
	TicketID   uint      `gorm:"not null;index" json:"ticket_id"` // 所属工单ID
	AuthorType string    `gorm:"not null" json:"author_type"`     // 留言身份（customer/admin）
	AuthorID   uint      `gorm:"not null" json:"author_id"`       // 留言人ID
	Body       string    `gorm:"type:text;not null" json:"body"`  // 内容
	CreatedAt  time.Time `gorm:"index" json:"created_at"`         // 创建时间

	Ticket *SupportTicket `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"-"` // 所属工单
}

// TableName 指定表名
func (TicketMessage) TableName() string {
	return "ticket_messages"
}

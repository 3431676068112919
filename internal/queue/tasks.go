package queue

import (
	"encoding/json"

	"github.com/sabor-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskTicketReplyNotify 工单回复通知任务
	TaskTicketReplyNotify = constants.TaskTicketReplyNotify
)

// OrderStatusNotifyPayload 订单状态通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// TicketReplyNotifyPayload 工单回复通知任务载荷
type TicketReplyNotifyPayload struct {
	TicketID uint `json:"ticket_id"`
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewTicketReplyNotifyTask 创建工单回复通知任务
func NewTicketReplyNotifyTask(payload TicketReplyNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTicketReplyNotify, body), nil
}

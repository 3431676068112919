package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/provider"
	"github.com/sabor-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
// 当前通知渠道为结构化日志，后续接入短信/邮件时只需替换投递实现。
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskTicketReplyNotify, c.handleTicketReplyNotify)
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	var receiverEmail string
	if order.UserID != 0 {
		user, err := c.UserRepo.GetByID(order.UserID)
		if err != nil {
			logger.Warnw("worker_order_status_notify_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
			return err
		}
		if user != nil {
			receiverEmail = strings.TrimSpace(user.Email)
		}
	}
	if receiverEmail == "" {
		logger.Debugw("worker_order_status_notify_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	logger.Infow("order_status_notify",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"order_type", order.Type,
		"table_number", order.TableNumber,
		"status", status,
		"receiver_email", receiverEmail,
	)
	return nil
}

func (c *Consumer) handleTicketReplyNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ticket_reply_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.TicketReplyNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ticket_reply_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.TicketID == 0 {
		logger.Debugw("worker_ticket_reply_notify_skip_invalid_payload", "ticket_id", payload.TicketID)
		return nil
	}
	ticket, err := c.TicketRepo.GetByID(payload.TicketID)
	if err != nil {
		logger.Warnw("worker_ticket_reply_notify_fetch_ticket_failed", "ticket_id", payload.TicketID, "error", err)
		return err
	}
	if ticket == nil {
		logger.Debugw("worker_ticket_reply_notify_skip_ticket_not_found", "ticket_id", payload.TicketID)
		return nil
	}
	user, err := c.UserRepo.GetByID(ticket.UserID)
	if err != nil {
		logger.Warnw("worker_ticket_reply_notify_fetch_user_failed", "ticket_id", ticket.ID, "user_id", ticket.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_ticket_reply_notify_skip_empty_receiver", "ticket_id", ticket.ID, "ticket_no", ticket.TicketNo)
		return nil
	}
	logger.Infow("ticket_reply_notify",
		"ticket_id", ticket.ID,
		"ticket_no", ticket.TicketNo,
		"subject", ticket.Subject,
		"status", ticket.Status,
		"receiver_email", strings.TrimSpace(user.Email),
	)
	return nil
}

package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/provider"
	"github.com/sabor-next/internal/queue"
	"github.com/sabor-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T, name string) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.SupportTicket{},
		&models.TicketMessage{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	container := &provider.Container{
		UserRepo:   repository.NewUserRepository(db),
		OrderRepo:  repository.NewOrderRepository(db),
		TicketRepo: repository.NewTicketRepository(db),
	}
	return NewConsumer(container), db
}

func TestConsumerRegister(t *testing.T) {
	consumer, _ := setupConsumerTest(t, t.Name())
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	// 注册为空不应 panic
	var nilConsumer *Consumer
	nilConsumer.Register(mux)
	consumer.Register(nil)
}

func TestHandleOrderStatusNotify(t *testing.T) {
	consumer, db := setupConsumerTest(t, t.Name())

	user := &models.User{
		Email:       "diner@example.com",
		DisplayName: "diner",
		Status:      constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	order := &models.Order{
		OrderNo:     "ORD-TEST-001",
		UserID:      user.ID,
		Type:        constants.OrderTypeDineIn,
		Status:      constants.OrderStatusConfirmed,
		Currency:    "EUR",
		TableNumber: "4",
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(21.40)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{
		OrderID: order.ID,
		Status:  constants.OrderStatusReady,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != constants.TaskOrderStatusNotify {
		t.Fatalf("task type want %s got %s", constants.TaskOrderStatusNotify, task.Type())
	}
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("handle order notify failed: %v", err)
	}

	// 订单不存在时吞掉任务而不是重试
	missing, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{OrderID: 9999})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusNotify(context.Background(), missing); err != nil {
		t.Fatalf("missing order should not fail the task: %v", err)
	}

	bad := asynq.NewTask(constants.TaskOrderStatusNotify, []byte("{not-json"))
	if err := consumer.handleOrderStatusNotify(context.Background(), bad); err == nil {
		t.Fatalf("malformed payload should fail the task")
	}
}

func TestHandleTicketReplyNotify(t *testing.T) {
	consumer, db := setupConsumerTest(t, t.Name())

	user := &models.User{
		Email:       "diner@example.com",
		DisplayName: "diner",
		Status:      constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	ticket := &models.SupportTicket{
		TicketNo: "TK-TEST-001",
		UserID:   user.ID,
		Subject:  "cuenta equivocada",
		Status:   constants.TicketStatusAnswered,
	}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("seed ticket failed: %v", err)
	}

	task, err := queue.NewTicketReplyNotifyTask(queue.TicketReplyNotifyPayload{TicketID: ticket.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleTicketReplyNotify(context.Background(), task); err != nil {
		t.Fatalf("handle ticket notify failed: %v", err)
	}

	missing, err := queue.NewTicketReplyNotifyTask(queue.TicketReplyNotifyPayload{TicketID: 9999})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleTicketReplyNotify(context.Background(), missing); err != nil {
		t.Fatalf("missing ticket should not fail the task: %v", err)
	}
}

package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTicketServiceTest(t *testing.T, name string) *TicketService {
	t.Helper()
	dsn := fmt.Sprintf("file:ticketsvc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.SupportTicket{}, &models.TicketMessage{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewTicketService(repository.NewTicketRepository(db), nil)
}

type ticketNotifyRecorder struct {
	ticketIDs []uint
}

func (r *ticketNotifyRecorder) EnqueueTicketReplyNotify(ticketID uint) error {
	r.ticketIDs = append(r.ticketIDs, ticketID)
	return nil
}

func TestTicketCreateAndGetForUser(t *testing.T) {
	svc := setupTicketServiceTest(t, t.Name())

	ticket, err := svc.Create(7, "  cuenta equivocada  ", "me cobraron dos postres")
	if err != nil {
		t.Fatalf("create ticket failed: %v", err)
	}
	if ticket.TicketNo == "" {
		t.Fatalf("ticket no should be generated")
	}
	if ticket.Subject != "cuenta equivocada" {
		t.Fatalf("subject should be trimmed, got %q", ticket.Subject)
	}
	if ticket.Status != constants.TicketStatusOpen {
		t.Fatalf("new ticket status want open got %s", ticket.Status)
	}

	loaded, err := svc.GetForUser(7, ticket.ID)
	if err != nil {
		t.Fatalf("get for owner failed: %v", err)
	}
	if len(loaded.Messages) != 1 || loaded.Messages[0].AuthorType != constants.TicketAuthorCustomer {
		t.Fatalf("ticket should carry the first customer message, got %d messages", len(loaded.Messages))
	}

	if _, err := svc.GetForUser(8, ticket.ID); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("other user should get not found, got %v", err)
	}
}

func TestTicketCreateValidation(t *testing.T) {
	svc := setupTicketServiceTest(t, t.Name())

	if _, err := svc.Create(0, "subject", "body"); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("zero user want ErrTicketInvalid got %v", err)
	}
	if _, err := svc.Create(1, "   ", "body"); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("blank subject want ErrTicketInvalid got %v", err)
	}
	if _, err := svc.Create(1, "subject", ""); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("empty body want ErrTicketInvalid got %v", err)
	}
}

func TestTicketReplyFlowAndStatus(t *testing.T) {
	svc := setupTicketServiceTest(t, t.Name())
	recorder := &ticketNotifyRecorder{}
	svc.notifier = recorder

	ticket, err := svc.Create(3, "pedido frío", "la paella llegó fría")
	if err != nil {
		t.Fatalf("create ticket failed: %v", err)
	}

	answered, err := svc.ReplyAsAdmin(1, ticket.ID, "lo sentimos, reponemos el plato")
	if err != nil {
		t.Fatalf("admin reply failed: %v", err)
	}
	if answered.Status != constants.TicketStatusAnswered {
		t.Fatalf("after admin reply status want answered got %s", answered.Status)
	}
	if len(recorder.ticketIDs) != 1 || recorder.ticketIDs[0] != ticket.ID {
		t.Fatalf("admin reply should enqueue one notification, got %v", recorder.ticketIDs)
	}

	reopened, err := svc.ReplyAsCustomer(3, ticket.ID, "gracias, sigue frío")
	if err != nil {
		t.Fatalf("customer reply failed: %v", err)
	}
	if reopened.Status != constants.TicketStatusOpen {
		t.Fatalf("after customer reply status want open got %s", reopened.Status)
	}
	if len(reopened.Messages) != 3 {
		t.Fatalf("messages want 3 got %d", len(reopened.Messages))
	}
	// 顾客留言不触发通知
	if len(recorder.ticketIDs) != 1 {
		t.Fatalf("customer reply should not enqueue notifications")
	}
}

func TestTicketCloseAndRejectFurtherReplies(t *testing.T) {
	svc := setupTicketServiceTest(t, t.Name())

	ticket, err := svc.Create(5, "reserva", "quiero cambiar mi reserva")
	if err != nil {
		t.Fatalf("create ticket failed: %v", err)
	}

	closed, err := svc.Close(ticket.ID)
	if err != nil {
		t.Fatalf("close ticket failed: %v", err)
	}
	if closed.Status != constants.TicketStatusClosed || closed.ClosedAt == nil {
		t.Fatalf("closed ticket should have closed status and timestamp")
	}

	// 幂等关闭
	again, err := svc.Close(ticket.ID)
	if err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if again.Status != constants.TicketStatusClosed {
		t.Fatalf("second close status want closed got %s", again.Status)
	}

	if _, err := svc.ReplyAsCustomer(5, ticket.ID, "otra cosa"); !errors.Is(err, ErrTicketClosed) {
		t.Fatalf("reply on closed ticket want ErrTicketClosed got %v", err)
	}
	if _, err := svc.ReplyAsAdmin(1, ticket.ID, "respuesta"); !errors.Is(err, ErrTicketClosed) {
		t.Fatalf("admin reply on closed ticket want ErrTicketClosed got %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"affitti/internal/amqp"
	"affitti/internal/core"
	"affitti/internal/ledger/memory"
)

type fakePublisher struct {
	events []string
	err    error
}

func (p *fakePublisher) PublishTransactionEvent(_ context.Context, id, action string) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, action+":"+id)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func sample() core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2026, 8, 1),
		Type:     core.Income,
		Category: core.CategoryRental,
		Amount:   core.Money{Cents: 10000},
	}
}

func TestAppendPublishesCreatedEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)

	id, err := svc.Append(context.Background(), sample())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0] != amqp.ActionCreated+":"+id {
		t.Fatalf("unexpected events: %v", pub.events)
	}
}

func TestAppendSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(memory.New(), pub)

	id, err := svc.Append(context.Background(), sample())
	if err != nil {
		t.Fatalf("Append should not fail on publish error: %v", err)
	}
	txs, _ := svc.ListAll(context.Background())
	if len(txs) != 1 || txs[0].ID != id {
		t.Fatalf("transaction not saved: %v", txs)
	}
}

func TestAppendValidationFailureDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)

	bad := sample()
	bad.Amount = core.Money{Cents: 0}
	if _, err := svc.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event should be published on failure, got %v", pub.events)
	}
}

func TestDeletePublishesDeletedEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)

	id, err := svc.Append(context.Background(), sample())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := amqp.ActionDeleted + ":" + id
	if len(pub.events) != 2 || pub.events[1] != want {
		t.Fatalf("expected %q, got %v", want, pub.events)
	}
}

func TestDeleteMissingDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)

	if err := svc.Delete(context.Background(), "mem:999"); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected, got %v", pub.events)
	}
}

func TestNilPublisherIsSafe(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if _, err := svc.Append(context.Background(), sample()); err != nil {
		t.Fatalf("Append with nil publisher: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close with nil publisher: %v", err)
	}
}

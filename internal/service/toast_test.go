package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/service"
)

func TestToastQueue_DrainClears(t *testing.T) {
	q := service.NewToastQueue(4)
	ctx := context.Background()

	q.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: "one"})
	q.Notify(ctx, domain.Notification{Kind: domain.NotificationError, Message: "two"})

	got := q.Drain()
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "two" {
		t.Fatalf("unexpected drain: %+v", got)
	}
	if again := q.Drain(); len(again) != 0 {
		t.Fatalf("expected empty queue after drain, got %+v", again)
	}
}

func TestToastQueue_DropsOldestWhenFull(t *testing.T) {
	q := service.NewToastQueue(3)
	ctx := context.Background()

	for i := range 5 {
		q.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: fmt.Sprint(i)})
	}

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 toasts, got %d", len(got))
	}
	if got[0].Message != "2" || got[2].Message != "4" {
		t.Fatalf("expected newest toasts kept, got %+v", got)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
)

func TestNotificationUpsertAndList(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewNotificationService(gdb)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, ScheduleInput{
		UserID:   "user-1",
		Kind:     "breathing",
		Hour:     8,
		Minute:   30,
		Weekdays: []string{"Monday", "Wednesday"},
		Enabled:  true,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if created.Hour != 8 || created.Minute != 30 || !created.Enabled {
		t.Fatalf("unexpected schedule: %+v", created)
	}

	// 同一 (user, kind) 重复提交覆盖原配置
	updated, err := svc.Upsert(ctx, ScheduleInput{
		UserID: "user-1",
		Kind:   "Breathing",
		Hour:   21,
		Minute: 0,
	})
	if err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same row, got %d and %d", created.ID, updated.ID)
	}
	if updated.Hour != 21 || updated.Enabled {
		t.Fatalf("schedule not overwritten: %+v", updated)
	}

	if _, err := svc.Upsert(ctx, ScheduleInput{UserID: "user-1", Kind: "meditation", Hour: 7}); err != nil {
		t.Fatalf("Upsert meditation returned error: %v", err)
	}

	rows, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rows) != 2 || rows[0].Kind != "breathing" || rows[1].Kind != "meditation" {
		t.Fatalf("unexpected schedules: %v", rows)
	}
}

func TestNotificationValidation(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewNotificationService(gdb)
	ctx := context.Background()

	cases := []ScheduleInput{
		{UserID: "", Kind: "breathing"},
		{UserID: "user-1", Kind: "alarm"},
		{UserID: "user-1", Kind: "breathing", Hour: 24},
		{UserID: "user-1", Kind: "breathing", Minute: 60},
		{UserID: "user-1", Kind: "breathing", Weekdays: []string{"Funday"}},
	}
	for i, input := range cases {
		if _, err := svc.Upsert(ctx, input); !errors.Is(err, ErrScheduleInvalid) {
			t.Fatalf("case %d: expected ErrScheduleInvalid, got %v", i, err)
		}
	}
}

func TestNotificationDelete(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewNotificationService(gdb)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, ScheduleInput{UserID: "user-1", Kind: "stretching", Hour: 12}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", "stretching"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", "stretching"); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

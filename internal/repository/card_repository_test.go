package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

func setupCardTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create cards table for SQLite compatibility
	db.Exec(`CREATE TABLE cards (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		board_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		list_name TEXT NOT NULL DEFAULT 'To Do',
		position INTEGER NOT NULL DEFAULT 0,
		assignee_id TEXT,
		version INTEGER NOT NULL DEFAULT 1
	)`)

	return db
}

func makeCard(boardID uuid.UUID, title string, list domain.ListName, position int, version int64) *domain.Card {
	now := time.Now()
	return &domain.Card{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BoardID:   boardID,
		Title:     title,
		ListName:  list,
		Position:  position,
		Version:   version,
	}
}

func TestCardRepository_UpdateWithVersion_Matching(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	card := makeCard(uuid.New(), "Write report", domain.ListTodo, 0, 1)
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	card.Title = "Write quarterly report"
	card.Version = 2
	card.UpdatedAt = time.Now()

	ok, err := repo.UpdateWithVersion(ctx, card, 1)
	if err != nil {
		t.Fatalf("UpdateWithVersion() error = %v", err)
	}
	if !ok {
		t.Fatal("UpdateWithVersion() = false with matching version, want true")
	}

	stored, err := repo.FindByID(ctx, card.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Title != "Write quarterly report" {
		t.Errorf("stored title = %q, want %q", stored.Title, "Write quarterly report")
	}
	if stored.Version != 2 {
		t.Errorf("stored version = %d, want 2", stored.Version)
	}
}

func TestCardRepository_UpdateWithVersion_Stale(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	card := makeCard(uuid.New(), "Original", domain.ListTodo, 0, 5)
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	attempt := *card
	attempt.Title = "Should not land"
	attempt.Version = 4

	ok, err := repo.UpdateWithVersion(ctx, &attempt, 3)
	if err != nil {
		t.Fatalf("UpdateWithVersion() error = %v", err)
	}
	if ok {
		t.Fatal("UpdateWithVersion() = true with stale version, want false")
	}

	stored, err := repo.FindByID(ctx, card.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Title != "Original" {
		t.Errorf("stale write modified the row: title = %q", stored.Title)
	}
	if stored.Version != 5 {
		t.Errorf("stale write modified the version: %d, want 5", stored.Version)
	}
}

func TestCardRepository_UpdateWithVersion_OneWinnerPerVersion(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	card := makeCard(uuid.New(), "Contested", domain.ListTodo, 0, 1)
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Two writers race on the same expected version; the second CAS must lose.
	first := *card
	first.Title = "First writer"
	first.Version = 2
	second := *card
	second.Title = "Second writer"
	second.Version = 2

	ok1, err := repo.UpdateWithVersion(ctx, &first, 1)
	if err != nil {
		t.Fatalf("UpdateWithVersion() error = %v", err)
	}
	ok2, err := repo.UpdateWithVersion(ctx, &second, 1)
	if err != nil {
		t.Fatalf("UpdateWithVersion() error = %v", err)
	}

	if !ok1 || ok2 {
		t.Errorf("CAS results = (%v, %v), want (true, false)", ok1, ok2)
	}

	stored, _ := repo.FindByID(ctx, card.ID)
	if stored.Title != "First writer" || stored.Version != 2 {
		t.Errorf("stored = (%q, v%d), want (\"First writer\", v2)", stored.Title, stored.Version)
	}
}

func TestCardRepository_NextPosition(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	boardID := uuid.New()

	pos, err := repo.NextPosition(ctx, boardID, domain.ListTodo)
	if err != nil {
		t.Fatalf("NextPosition() error = %v", err)
	}
	if pos != 0 {
		t.Errorf("NextPosition() on empty list = %d, want 0", pos)
	}

	repo.Create(ctx, makeCard(boardID, "a", domain.ListTodo, 0, 1))
	repo.Create(ctx, makeCard(boardID, "b", domain.ListTodo, 1, 1))
	repo.Create(ctx, makeCard(boardID, "c", domain.ListDone, 7, 1))

	pos, err = repo.NextPosition(ctx, boardID, domain.ListTodo)
	if err != nil {
		t.Fatalf("NextPosition() error = %v", err)
	}
	if pos != 2 {
		t.Errorf("NextPosition() = %d, want 2", pos)
	}

	// Other lists do not bleed into the count
	pos, err = repo.NextPosition(ctx, boardID, domain.ListInProgress)
	if err != nil {
		t.Fatalf("NextPosition() error = %v", err)
	}
	if pos != 0 {
		t.Errorf("NextPosition() for untouched list = %d, want 0", pos)
	}
}

func TestCardRepository_FindByBoardID_Ordering(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	repo.Create(ctx, makeCard(boardID, "done-0", domain.ListDone, 0, 1))
	repo.Create(ctx, makeCard(boardID, "todo-1", domain.ListTodo, 1, 1))
	repo.Create(ctx, makeCard(boardID, "todo-0", domain.ListTodo, 0, 1))
	repo.Create(ctx, makeCard(uuid.New(), "other-board", domain.ListTodo, 0, 1))

	cards, err := repo.FindByBoardID(ctx, boardID)
	if err != nil {
		t.Fatalf("FindByBoardID() error = %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("FindByBoardID() returned %d cards, want 3", len(cards))
	}

	got := []string{cards[0].Title, cards[1].Title, cards[2].Title}
	want := []string{"done-0", "todo-0", "todo-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cards[%d] = %q, want %q (got order %v)", i, got[i], want[i], got)
		}
	}
}

func TestCardRepository_FindByID_NotFound(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID() error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestCardRepository_Delete(t *testing.T) {
	db := setupCardTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	card := makeCard(uuid.New(), "Short lived", domain.ListTodo, 0, 1)
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, card.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := repo.FindByID(ctx, card.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID() after delete error = %v, want gorm.ErrRecordNotFound", err)
	}
}

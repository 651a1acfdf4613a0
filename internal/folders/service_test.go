package folders

import (
	"context"
	"errors"
	"testing"
)

type staticCounter struct {
	count int
	err   error
}

func (s staticCounter) CountInFolder(ctx context.Context, ownerID, folderID string) (int, error) {
	return s.count, s.err
}

func TestDeleteRefusesNonEmptyFolder(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{count: 2})
	ctx := context.Background()

	folder, err := svc.Create(ctx, "u1", "Clientes 2026")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, "u1", folder.ID); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("expected ErrNotEmpty, got %v", err)
	}

	// Still listed after the refused delete.
	list, _ := svc.List(ctx, "u1")
	if len(list) != 1 {
		t.Fatalf("expected folder to survive, got %d folders", len(list))
	}
}

func TestDeleteEmptyFolder(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{count: 0})
	ctx := context.Background()

	folder, err := svc.Create(ctx, "u1", "Arquivo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "u1", folder.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := svc.List(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("expected no folders, got %d", len(list))
	}
}

func TestRenameValidatesName(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{})
	ctx := context.Background()

	folder, err := svc.Create(ctx, "u1", "Antes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Rename(ctx, "u1", folder.ID, "   "); err == nil {
		t.Fatal("expected error for blank name")
	}
	renamed, err := svc.Rename(ctx, "u1", folder.ID, "Depois")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Depois" {
		t.Fatalf("expected renamed folder, got %q", renamed.Name)
	}
}

func TestOwnerIsolation(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{})
	ctx := context.Background()

	folder, _ := svc.Create(ctx, "u1", "Privado")
	if err := svc.Delete(ctx, "u2", folder.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
}

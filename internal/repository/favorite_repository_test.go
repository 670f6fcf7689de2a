package repository

import "testing"

func TestFavoriteRepositoryAddRemove(t *testing.T) {
	repo := NewFavoriteRepository(openTestDB(t))

	if err := repo.Add(1, 10); err != nil {
		t.Fatalf("add favorite failed: %v", err)
	}
	if err := repo.Add(1, 10); err != nil {
		t.Fatalf("duplicate add should be ignored: %v", err)
	}
	if err := repo.Add(1, 7); err != nil {
		t.Fatalf("add favorite failed: %v", err)
	}
	if err := repo.Add(2, 10); err != nil {
		t.Fatalf("add favorite failed: %v", err)
	}

	ids, err := repo.ListProductIDs(1)
	if err != nil {
		t.Fatalf("list favorites failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 7 {
		t.Fatalf("unexpected favorite ids: %v", ids)
	}

	removed, err := repo.Remove(1, 10)
	if err != nil || removed != 1 {
		t.Fatalf("remove favorite want 1 got %d err=%v", removed, err)
	}
	exists, err := repo.Exists(1, 10)
	if err != nil || exists {
		t.Fatalf("favorite should be removed, exists=%v err=%v", exists, err)
	}
	exists, err = repo.Exists(2, 10)
	if err != nil || !exists {
		t.Fatalf("other user favorite should stay, exists=%v err=%v", exists, err)
	}
}

package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/ram-us/internal/models"
)

type failingStorage struct {
	saves int
}

func (s *failingStorage) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage offline")
}

func (s *failingStorage) Save(context.Context, string, []byte) error {
	s.saves++
	return errors.New("storage offline")
}

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %q: %v", raw, err)
	}
	return m
}

func TestCartAddItemRepeatedIDsIncrementQuantity(t *testing.T) {
	ctx := context.Background()
	cart := NewCartStore(NewMemoryStorage(), "cart", nil)
	cart.Hydrate(ctx)

	for i := 0; i < 3; i++ {
		cart.AddItem(ctx, CartItem{ID: 7, Name: "Фильтр масляный", PriceRub: mustMoney(t, "450.00")})
	}
	cart.AddItem(ctx, CartItem{ID: 9, Name: "Свеча зажигания", PriceRub: mustMoney(t, "320.50")})

	items := cart.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	if items[0].ID != 7 || items[0].Quantity != 3 {
		t.Fatalf("unexpected first entry: %+v", items[0])
	}
	if items[1].ID != 9 || items[1].Quantity != 1 {
		t.Fatalf("unexpected second entry: %+v", items[1])
	}
}

func TestCartUpdateQuantityNonPositiveRemoves(t *testing.T) {
	ctx := context.Background()
	for _, qty := range []int{0, -1} {
		cart := NewCartStore(NewMemoryStorage(), "cart", nil)
		cart.AddItem(ctx, CartItem{ID: 1, PriceRub: mustMoney(t, "100")})
		cart.UpdateQuantity(ctx, 1, qty)
		if !cart.IsEmpty() {
			t.Fatalf("qty %d should remove entry, items=%+v", qty, cart.Items())
		}
	}
}

func TestCartTotals(t *testing.T) {
	ctx := context.Background()
	cart := NewCartStore(nil, "cart", nil)
	cart.AddItem(ctx, CartItem{ID: 1, PriceRub: mustMoney(t, "1499.90"), Quantity: 2})
	cart.AddItem(ctx, CartItem{ID: 2, PriceRub: mustMoney(t, "0.10")})
	cart.UpdateQuantity(ctx, 2, 5)

	if got := cart.TotalItems(); got != 7 {
		t.Fatalf("total items want 7 got %d", got)
	}
	if got := cart.TotalPrice(); !got.Decimal.Equal(mustMoney(t, "3000.30").Decimal) {
		t.Fatalf("total price want 3000.30 got %s", got.StringFixed(2))
	}
}

func TestCartPersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	first := NewCartStore(storage, "ram-us-cart:5", nil)
	first.Hydrate(ctx)
	first.AddItem(ctx, CartItem{ID: 3, Name: "Колодки", PriceRub: mustMoney(t, "2100"), PartNumber: "0986494", IsInstallmentAvailable: true})
	first.AddItem(ctx, CartItem{ID: 3})

	second := NewCartStore(storage, "ram-us-cart:5", nil)
	if second.IsHydrated() {
		t.Fatalf("store should not be hydrated before Hydrate")
	}
	second.Hydrate(ctx)
	if !second.IsHydrated() {
		t.Fatalf("store should be hydrated")
	}
	item, ok := second.Item(3)
	if !ok || item.Quantity != 2 || item.PartNumber != "0986494" || !item.IsInstallmentAvailable {
		t.Fatalf("unexpected hydrated item: %+v ok=%v", item, ok)
	}
}

func TestCartHydrateCorruptBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	_ = storage.Save(ctx, "cart", []byte("{not json"))

	cart := NewCartStore(storage, "cart", nil)
	cart.Hydrate(ctx)
	if !cart.IsHydrated() || !cart.IsEmpty() {
		t.Fatalf("corrupt blob should hydrate as empty cart")
	}
}

func TestCartHydrateDropsInvalidQuantities(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	_ = storage.Save(ctx, "cart", []byte(`[{"id":1,"quantity":0},{"id":2,"quantity":2},{"id":2,"quantity":1}]`))

	cart := NewCartStore(storage, "cart", nil)
	cart.Hydrate(ctx)
	items := cart.Items()
	if len(items) != 1 || items[0].ID != 2 || items[0].Quantity != 3 {
		t.Fatalf("unexpected normalized items: %+v", items)
	}
}

func TestCartStorageFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{}
	cart := NewCartStore(storage, "cart", nil)
	cart.Hydrate(ctx)
	cart.AddItem(ctx, CartItem{ID: 11, PriceRub: mustMoney(t, "10")})

	if storage.saves != 1 {
		t.Fatalf("expected one save attempt, got %d", storage.saves)
	}
	if cart.TotalItems() != 1 {
		t.Fatalf("memory state should survive storage failure")
	}
}

func TestCartAddTwiceThenRemoveScenario(t *testing.T) {
	ctx := context.Background()
	cart := NewCartStore(NewMemoryStorage(), "cart", nil)
	cart.Hydrate(ctx)
	if !cart.IsEmpty() {
		t.Fatalf("cart should start empty")
	}

	product := CartItem{ID: 42, Name: "Амортизатор", PriceRub: mustMoney(t, "5400")}
	cart.AddItem(ctx, product)
	cart.AddItem(ctx, product)
	if item, _ := cart.Item(42); item.Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", item.Quantity)
	}

	cart.RemoveItem(ctx, 42)
	if !cart.IsEmpty() || cart.TotalItems() != 0 {
		t.Fatalf("cart should be empty after remove")
	}
}

func TestCartReplaceItemKeepsPosition(t *testing.T) {
	ctx := context.Background()
	cart := NewCartStore(NewMemoryStorage(), "cart", nil)
	cart.Hydrate(ctx)
	cart.AddItem(ctx, CartItem{ID: 1, Name: "Ремень", PriceRub: mustMoney(t, "500")})
	cart.AddItem(ctx, CartItem{ID: 2, Name: "Ролик", PriceRub: mustMoney(t, "300")})

	cart.ReplaceItem(ctx, CartItem{ID: 1, Name: "Ремень ГРМ", PriceRub: mustMoney(t, "650"), Quantity: 3})
	cart.ReplaceItem(ctx, CartItem{ID: 3, Name: "Помпа"})

	items := cart.Items()
	if len(items) != 3 || items[0].ID != 1 || items[1].ID != 2 || items[2].ID != 3 {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[0].Name != "Ремень ГРМ" || items[0].Quantity != 3 || items[2].Quantity != 1 {
		t.Fatalf("unexpected replaced items: %+v", items)
	}
	if got := cart.TotalPrice().String(); got != "2250.00" {
		t.Fatalf("total want 2250.00 got %s", got)
	}
}

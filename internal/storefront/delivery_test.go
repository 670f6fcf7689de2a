package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ram-us/internal/constants"

	"go.uber.org/goleak"
)

type shippingAPIStub struct {
	mu          sync.Mutex
	cities      []City
	tariffs     map[int][]Tariff
	points      map[int][]PickupPoint
	tariffErr   error
	pointsErr   error
	gates       map[int]chan struct{}
	searches    []string
	tariffCalls []TariffRequest
	pointCalls  []int
}

func (s *shippingAPIStub) SearchCities(_ context.Context, query string) ([]City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, query)
	return s.cities, nil
}

func (s *shippingAPIStub) CalculateTariffs(_ context.Context, req TariffRequest) ([]Tariff, error) {
	s.wait(req.CityCode)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tariffCalls = append(s.tariffCalls, req)
	return s.tariffs[req.CityCode], s.tariffErr
}

func (s *shippingAPIStub) ListPickupPoints(_ context.Context, cityCode int) ([]PickupPoint, error) {
	s.wait(cityCode)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointCalls = append(s.pointCalls, cityCode)
	return s.points[cityCode], s.pointsErr
}

func (s *shippingAPIStub) wait(cityCode int) {
	s.mu.Lock()
	gate := s.gates[cityCode]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func tariff(t *testing.T, code int, name, sum string) Tariff {
	return Tariff{Code: code, Name: name, DeliverySum: mustMoney(t, sum)}
}

var (
	moscow = City{Code: 44, City: "Москва"}
	kazan  = City{Code: 424, City: "Казань"}
)

func TestSelectCityPvzLoadsTariffsAndPoints(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &shippingAPIStub{
		tariffs: map[int][]Tariff{44: {
			tariff(t, 137, "Посылка склад-дверь", "500"),
			tariff(t, 136, "Посылка склад-склад", "320"),
			tariff(t, 368, "Посылка склад-постамат", "290"),
		}},
		points: map[int][]PickupPoint{44: {{Code: "MSK1", Address: "Тверская, 1"}, {Code: "MSK2"}}},
	}
	resolver := NewDeliveryResolver(api, func() int { return 3 }, nil)
	defer resolver.Close()

	state := resolver.SelectCity(context.Background(), moscow)
	ready, ok := state.(PvzReady)
	if !ok {
		t.Fatalf("expected PvzReady, got %T", state)
	}
	if len(ready.Tariffs) != 2 {
		t.Fatalf("pvz filter should keep 2 tariffs, got %+v", ready.Tariffs)
	}
	if ready.SelectedTariff == nil || ready.SelectedTariff.Code != 368 {
		t.Fatalf("cheapest tariff should be auto-selected, got %+v", ready.SelectedTariff)
	}
	if ready.SelectedPoint == nil || ready.SelectedPoint.Code != "MSK1" {
		t.Fatalf("first pickup point should be auto-selected, got %+v", ready.SelectedPoint)
	}
	if len(api.tariffCalls) != 1 || api.tariffCalls[0].WeightGrams != 3000 {
		t.Fatalf("unexpected tariff request %+v", api.tariffCalls)
	}
}

func TestSelectCityCourierSkipsPickupPoints(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &shippingAPIStub{tariffs: map[int][]Tariff{44: {
		tariff(t, 136, "Посылка склад-склад", "300"),
		tariff(t, 139, "Посылка дверь-дверь", "700"),
		tariff(t, 137, "Посылка склад-дверь", "600"),
	}}}
	resolver := NewDeliveryResolver(api, func() int { return 0 }, nil)
	defer resolver.Close()
	resolver.SetMode(context.Background(), constants.DeliveryModeCourier)

	state := resolver.SelectCity(context.Background(), moscow)
	ready, ok := state.(TariffsReady)
	if !ok {
		t.Fatalf("expected TariffsReady, got %T", state)
	}
	if ready.Selected == nil || ready.Selected.Code != 137 {
		t.Fatalf("cheapest courier tariff should be selected, got %+v", ready.Selected)
	}
	if len(api.pointCalls) != 0 {
		t.Fatalf("courier mode must not load pickup points")
	}
	if api.tariffCalls[0].WeightGrams != 1000 {
		t.Fatalf("empty cart weight should be 1000 g, got %d", api.tariffCalls[0].WeightGrams)
	}
	if err := resolver.SelectTariff(139); err != nil {
		t.Fatalf("override tariff: %v", err)
	}
	if sel := resolver.Selection(); sel.Tariff == nil || sel.Tariff.Code != 139 {
		t.Fatalf("override not applied: %+v", sel.Tariff)
	}
	if err := resolver.SelectTariff(1); !errors.Is(err, ErrTariffNotFound) {
		t.Fatalf("expected ErrTariffNotFound, got %v", err)
	}
}

func TestNewCityClearsPreviousSelectionBeforeLoading(t *testing.T) {
	defer goleak.VerifyNone(t)

	gate := make(chan struct{})
	api := &shippingAPIStub{
		tariffs: map[int][]Tariff{
			44:  {tariff(t, 136, "склад-склад", "300")},
			424: {tariff(t, 136, "склад-склад", "450")},
		},
		points: map[int][]PickupPoint{44: {{Code: "MSK1"}}, 424: {{Code: "KZN1"}}},
		gates:  map[int]chan struct{}{424: gate},
	}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()
	resolver.SelectCity(context.Background(), moscow)

	done := make(chan DeliveryState)
	go func() { done <- resolver.SelectCity(context.Background(), kazan) }()

	deadline := time.After(2 * time.Second)
	for {
		if st, ok := resolver.State().(CitySelected); ok && st.City.Code == kazan.Code {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("state did not switch to CitySelected for the new city")
		case <-time.After(5 * time.Millisecond):
		}
	}
	sel := resolver.Selection()
	if sel.Tariff != nil || sel.Point != nil {
		t.Fatalf("previous tariff and point must be cleared, got %+v", sel)
	}

	close(gate)
	state := <-done
	ready, ok := state.(PvzReady)
	if !ok || ready.SelectedPoint == nil || ready.SelectedPoint.Code != "KZN1" {
		t.Fatalf("unexpected final state %#v", state)
	}
}

func TestStaleCityResponseIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	gate := make(chan struct{})
	api := &shippingAPIStub{
		tariffs: map[int][]Tariff{
			44:  {tariff(t, 136, "склад-склад", "300")},
			424: {tariff(t, 136, "склад-склад", "450")},
		},
		points: map[int][]PickupPoint{44: {{Code: "MSK1"}}, 424: {{Code: "KZN1"}}},
		gates:  map[int]chan struct{}{44: gate},
	}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()

	done := make(chan struct{})
	go func() {
		resolver.SelectCity(context.Background(), moscow)
		close(done)
	}()
	for {
		if _, ok := resolver.State().(CitySelected); ok {
			break
		}
		time.Sleep(time.Millisecond)
	}

	resolver.SelectCity(context.Background(), kazan)
	close(gate)
	<-done

	ready, ok := resolver.State().(PvzReady)
	if !ok || ready.City.Code != kazan.Code || ready.SelectedPoint.Code != "KZN1" {
		t.Fatalf("stale moscow response overwrote state: %#v", resolver.State())
	}
}

func TestClearCityReturnsToNoCity(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &shippingAPIStub{tariffs: map[int][]Tariff{44: {tariff(t, 136, "склад-склад", "300")}}}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()
	resolver.SelectCity(context.Background(), moscow)
	resolver.ClearCity()

	if _, ok := resolver.State().(NoCity); !ok {
		t.Fatalf("expected NoCity, got %T", resolver.State())
	}
	if sel := resolver.Selection(); sel.City != nil || sel.Tariff != nil || sel.Point != nil {
		t.Fatalf("selection should be empty: %+v", sel)
	}
}

func TestTariffFailureKeepsCitySelected(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &shippingAPIStub{tariffErr: errors.New("carrier down"), pointsErr: errors.New("carrier down")}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()

	state := resolver.SelectCity(context.Background(), moscow)
	if _, ok := state.(CitySelected); !ok {
		t.Fatalf("expected CitySelected after failures, got %T", state)
	}
}

func TestPickupModeNeedsNoCarrierCalls(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &shippingAPIStub{}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()
	resolver.SetMode(context.Background(), constants.DeliveryModePickup)
	resolver.SelectCity(context.Background(), moscow)

	if len(api.tariffCalls) != 0 || len(api.pointCalls) != 0 {
		t.Fatalf("pickup mode must not call carrier")
	}
}

func TestPickupPointsCappedAndOverridable(t *testing.T) {
	defer goleak.VerifyNone(t)

	points := make([]PickupPoint, 0, 70)
	for i := 0; i < 70; i++ {
		points = append(points, PickupPoint{Code: "P" + uintToString(uint(i))})
	}
	api := &shippingAPIStub{
		tariffs: map[int][]Tariff{44: {tariff(t, 136, "склад-склад", "300")}},
		points:  map[int][]PickupPoint{44: points},
	}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()

	ready := resolver.SelectCity(context.Background(), moscow).(PvzReady)
	if len(ready.Points) != MaxPickupPoints {
		t.Fatalf("points should be capped at %d, got %d", MaxPickupPoints, len(ready.Points))
	}
	if err := resolver.SelectPickupPoint("P10"); err != nil {
		t.Fatalf("select point: %v", err)
	}
	if err := resolver.SelectPickupPoint("P60"); !errors.Is(err, ErrPickupPointNotFound) {
		t.Fatalf("points beyond the cap must not be selectable, got %v", err)
	}
	if sel := resolver.Selection(); sel.Point == nil || sel.Point.Code != "P10" {
		t.Fatalf("override not applied: %+v", sel.Point)
	}
}

func TestSearchCitiesMinimumLengthAndCap(t *testing.T) {
	defer goleak.VerifyNone(t)

	cities := make([]City, 0, 15)
	for i := 0; i < 15; i++ {
		cities = append(cities, City{Code: i + 1})
	}
	api := &shippingAPIStub{cities: cities}
	resolver := NewDeliveryResolver(api, nil, nil)
	defer resolver.Close()

	got, err := resolver.SearchCities(context.Background(), "М")
	if err != nil || got != nil || len(api.searches) != 0 {
		t.Fatalf("one-rune query must not fire a request")
	}
	got, err = resolver.SearchCities(context.Background(), "Мо")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != MaxCityResults || len(resolver.Candidates()) != MaxCityResults {
		t.Fatalf("results should be capped at %d, got %d", MaxCityResults, len(got))
	}
	resolver.SelectCity(context.Background(), got[0])
	if len(resolver.Candidates()) != 0 {
		t.Fatalf("selecting a city should clear candidates")
	}
}

func TestQueryChangedDebouncesToLastQuery(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &shippingAPIStub{cities: []City{moscow}}
	resolver := NewDeliveryResolver(api, nil, nil)
	resolver.debouncer = NewDebouncer(20 * time.Millisecond)
	defer resolver.Close()

	results := make(chan []City, 1)
	for _, q := range []string{"Мо", "Мос", "Моск"} {
		resolver.QueryChanged(context.Background(), q, func(c []City, _ error) { results <- c })
	}
	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced search did not fire")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.searches) != 1 || api.searches[0] != "Моск" {
		t.Fatalf("only the last query should fire, got %v", api.searches)
	}
}

func TestFilterTariffsFallsBackToFirstFive(t *testing.T) {
	tariffs := make([]Tariff, 0, 8)
	for i := 0; i < 8; i++ {
		tariffs = append(tariffs, tariff(t, 900+i, "Экспресс", "100"))
	}
	got := FilterTariffs(tariffs, constants.DeliveryModeCourier)
	if len(got) != FallbackTariffCount || got[0].Code != 900 {
		t.Fatalf("expected first %d tariffs, got %+v", FallbackTariffCount, got)
	}
	if CheapestTariff(nil) != nil {
		t.Fatalf("cheapest of empty list should be nil")
	}
}

func TestShipmentWeight(t *testing.T) {
	cases := map[int]int{0: 1000, 1: 1000, 4: 4000}
	for items, want := range cases {
		if got := ShipmentWeight(items); got != want {
			t.Fatalf("ShipmentWeight(%d) want %d got %d", items, want, got)
		}
	}
}

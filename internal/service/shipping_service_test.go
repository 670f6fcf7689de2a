package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ram-us/internal/shipping/cdek"
	"github.com/ram-us/internal/storefront"
)

type shippingProviderStub struct {
	cities      []cdek.City
	tariffs     []cdek.Tariff
	points      []cdek.DeliveryPoint
	err         error
	cityCalls   int
	tariffCalls int
	weights     []int
}

func (s *shippingProviderStub) SearchCities(_ context.Context, _ string, _ int) ([]cdek.City, error) {
	s.cityCalls++
	return s.cities, s.err
}

func (s *shippingProviderStub) CalculateTariffs(_ context.Context, _ int, weightGrams int) ([]cdek.Tariff, error) {
	s.tariffCalls++
	s.weights = append(s.weights, weightGrams)
	return s.tariffs, s.err
}

func (s *shippingProviderStub) ListDeliveryPoints(_ context.Context, _ int) ([]cdek.DeliveryPoint, error) {
	return s.points, s.err
}

func deliveryPoint(code, address, full string) cdek.DeliveryPoint {
	var p cdek.DeliveryPoint
	p.Code = code
	p.Name = "ПВЗ " + code
	p.Location.Address = address
	p.Location.AddressFull = full
	return p
}

func newShippingStub() *shippingProviderStub {
	return &shippingProviderStub{
		tariffs: []cdek.Tariff{
			{TariffCode: 136, TariffName: "Посылка склад-склад", DeliverySum: 350.5},
			{TariffCode: 137, TariffName: "Посылка склад-дверь", DeliverySum: 512.3},
		},
		points: []cdek.DeliveryPoint{
			deliveryPoint("MSK1", "ул. Тверская, 1", ""),
			deliveryPoint("MSK2", "", "Москва, ул. Арбат, 5"),
		},
	}
}

func TestShippingSearchCities(t *testing.T) {
	stub := newShippingStub()
	for i := 0; i < 15; i++ {
		stub.cities = append(stub.cities, cdek.City{Code: 100 + i, City: fmt.Sprintf("Город %d", i)})
	}
	svc := NewShippingService(stub, 0, nil)
	ctx := context.Background()

	cities, err := svc.SearchCities(ctx, " М ")
	if err != nil || len(cities) != 0 || stub.cityCalls != 0 {
		t.Fatalf("short query should not hit provider, cities=%v calls=%d err=%v", cities, stub.cityCalls, err)
	}
	cities, err = svc.SearchCities(ctx, "Мо")
	if err != nil {
		t.Fatalf("search cities failed: %v", err)
	}
	if len(cities) != storefront.MaxCityResults || cities[0].Code != 100 {
		t.Fatalf("expected %d cities, got %d", storefront.MaxCityResults, len(cities))
	}

	if _, err := NewShippingService(nil, 0, nil).SearchCities(ctx, "Москва"); !errors.Is(err, ErrShippingUnavailable) {
		t.Fatalf("expected ErrShippingUnavailable, got %v", err)
	}
	stub.err = errors.New("timeout")
	if _, err := svc.SearchCities(ctx, "Москва"); !errors.Is(err, ErrShippingFailed) {
		t.Fatalf("expected ErrShippingFailed, got %v", err)
	}
}

func TestShippingTariffsAndResolve(t *testing.T) {
	stub := newShippingStub()
	svc := NewShippingService(stub, 0, nil)
	ctx := context.Background()

	tariffs, err := svc.CalculateTariffs(ctx, 44, 300)
	if err != nil {
		t.Fatalf("calculate tariffs failed: %v", err)
	}
	if len(tariffs) != 2 || tariffs[0].DeliverySum.String() != "350.50" || tariffs[1].DeliverySum.String() != "512.30" {
		t.Fatalf("unexpected tariffs %+v", tariffs)
	}
	if stub.weights[0] != storefront.GramsPerItem {
		t.Fatalf("weight should be raised to %d, got %d", storefront.GramsPerItem, stub.weights[0])
	}
	if _, err := svc.CalculateTariffs(ctx, 0, 1000); !errors.Is(err, ErrDeliveryInvalid) {
		t.Fatalf("expected ErrDeliveryInvalid for empty city, got %v", err)
	}

	tariff, err := svc.ResolveTariff(ctx, 44, 2000, 137)
	if err != nil || tariff.Name != "Посылка склад-дверь" {
		t.Fatalf("resolve tariff unexpected %+v err=%v", tariff, err)
	}
	if _, err := svc.ResolveTariff(ctx, 44, 2000, 999); !errors.Is(err, ErrDeliveryInvalid) {
		t.Fatalf("unknown tariff should be ErrDeliveryInvalid, got %v", err)
	}
}

func TestShippingPickupPoints(t *testing.T) {
	stub := newShippingStub()
	for i := 0; i < 60; i++ {
		stub.points = append(stub.points, deliveryPoint(fmt.Sprintf("X%d", i), "адрес", ""))
	}
	svc := NewShippingService(stub, 0, nil)
	ctx := context.Background()

	points, err := svc.ListPickupPoints(ctx, 44)
	if err != nil {
		t.Fatalf("list pickup points failed: %v", err)
	}
	if len(points) != storefront.MaxPickupPoints {
		t.Fatalf("expected %d points, got %d", storefront.MaxPickupPoints, len(points))
	}
	if points[1].Address != "Москва, ул. Арбат, 5" {
		t.Fatalf("full address should be used when short one is empty, got %q", points[1].Address)
	}

	point, err := svc.ResolvePickupPoint(ctx, 44, "MSK1")
	if err != nil || point.Address != "ул. Тверская, 1" {
		t.Fatalf("resolve point unexpected %+v err=%v", point, err)
	}
	if _, err := svc.ResolvePickupPoint(ctx, 44, "NOPE"); !errors.Is(err, ErrDeliveryInvalid) {
		t.Fatalf("unknown point should be ErrDeliveryInvalid, got %v", err)
	}
}

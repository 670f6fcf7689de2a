package storefront

import (
	"github.com/ram-us/internal/constants"

	"go.uber.org/zap"
)

// Session 一个用户会话内的全部状态容器，显式构造、显式注入
type Session struct {
	Cart      *CartStore
	Favorites *FavoritesStore
	Garage    *GarageStore
	Delivery  *DeliveryResolver
	Checkout  *Checkout
	Catalog   *Catalog
}

// SessionDeps 会话依赖
type SessionDeps struct {
	Storage   Storage
	Favorites FavoritesAPI
	Shipping  ShippingAPI
	Orders    OrderAPI
	Catalog   CatalogAPI
	Logger    *zap.SugaredLogger
}

// NewSession 组装会话
func NewSession(deps SessionDeps) *Session {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	cart := NewCartStore(deps.Storage, constants.StorageKeyCart, log.Named("cart"))
	delivery := NewDeliveryResolver(deps.Shipping, cart.TotalItems, log.Named("delivery"))
	return &Session{
		Cart:      cart,
		Favorites: NewFavoritesStore(deps.Favorites, log.Named("favorites")),
		Garage:    NewGarageStore(deps.Storage, constants.StorageKeyGarage, log.Named("garage")),
		Delivery:  delivery,
		Checkout:  NewCheckout(cart, delivery, deps.Orders, log.Named("checkout")),
		Catalog:   NewCatalog(deps.Catalog),
	}
}

// NewClientSession 以 REST 客户端作为全部远端依赖组装会话
func NewClientSession(client *Client, storage Storage, log *zap.SugaredLogger) *Session {
	return NewSession(SessionDeps{
		Storage:   storage,
		Favorites: client,
		Shipping:  client,
		Orders:    client,
		Catalog:   client,
		Logger:    log,
	})
}

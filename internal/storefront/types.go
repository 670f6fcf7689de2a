package storefront

import (
	"strconv"

	"github.com/ram-us/internal/models"
)

// CartItem 购物车条目
type CartItem struct {
	ID                     uint         `json:"id"`
	Name                   string       `json:"name"`
	PriceRub               models.Money `json:"price_rub"`
	ImageURL               string       `json:"image_url"`
	PartNumber             string       `json:"part_number"`
	Quantity               int          `json:"quantity"`
	IsInstallmentAvailable bool         `json:"is_installment_available"`
}

// Vehicle 车库中的车辆
type Vehicle struct {
	Make   string `json:"make"`
	Model  string `json:"model"`
	Year   string `json:"year"`
	Engine string `json:"engine"`
}

// City 承运商城市
type City struct {
	Code    int    `json:"code"`
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// Tariff 运费报价
type Tariff struct {
	Code        int          `json:"tariff_code"`
	Name        string       `json:"tariff_name"`
	Description string       `json:"tariff_description,omitempty"`
	DeliverySum models.Money `json:"delivery_sum"`
	PeriodMin   int          `json:"period_min"`
	PeriodMax   int          `json:"period_max"`
}

// PickupPoint 自提点（ПВЗ）
type PickupPoint struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	WorkTime  string  `json:"work_time,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// TariffRequest 运费计算请求
type TariffRequest struct {
	CityCode    int    `json:"city_code"`
	WeightGrams int    `json:"weight_grams"`
	Mode        string `json:"mode,omitempty"`
}

// OrderDraftItem 下单条目
type OrderDraftItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderDraft 提交时组装的订单草稿
type OrderDraft struct {
	Items        []OrderDraftItem `json:"items"`
	ContactName  string           `json:"contact_name"`
	Phone        string           `json:"phone"`
	Comment      string           `json:"comment,omitempty"`
	DeliveryMode string           `json:"delivery_mode"`
	CityCode     int              `json:"city_code,omitempty"`
	CityName     string           `json:"city_name,omitempty"`
	Address      string           `json:"address,omitempty"`
	TariffCode   int              `json:"tariff_code,omitempty"`
	PvzCode      string           `json:"pvz_code,omitempty"`
}

// OrderReceipt 创建订单的返回
type OrderReceipt struct {
	OrderNo      string       `json:"order_no"`
	Status       string       `json:"status"`
	ItemsAmount  models.Money `json:"items_amount"`
	DeliveryCost models.Money `json:"delivery_cost"`
	TotalAmount  models.Money `json:"total_amount"`
}

// PaymentRedirect 支付发起返回
type PaymentRedirect struct {
	PaymentID       uint   `json:"payment_id"`
	Status          string `json:"status"`
	ConfirmationURL string `json:"confirmation_url"`
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

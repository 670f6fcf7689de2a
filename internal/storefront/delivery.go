package storefront

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ram-us/internal/constants"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MinCityQueryRunes 少于该长度的城市查询不发请求
	MinCityQueryRunes = 2
	// MaxCityResults 城市候选上限
	MaxCityResults = 10
	// MaxPickupPoints 自提点上限
	MaxPickupPoints = 50
	// FallbackTariffCount 无匹配时回退的未过滤运费数量
	FallbackTariffCount = 5
	// GramsPerItem 每件估算重量
	GramsPerItem = 1000
	// DefaultDebounceDelay 城市输入防抖间隔
	DefaultDebounceDelay = 400 * time.Millisecond
)

var (
	// ErrTariffNotFound 选择的运费不在当前列表
	ErrTariffNotFound = errors.New("tariff is not in the current list")
	// ErrPickupPointNotFound 选择的自提点不在当前列表
	ErrPickupPointNotFound = errors.New("pickup point is not in the current list")
	// ErrDeliveryNotResolved 当前状态不允许该操作
	ErrDeliveryNotResolved = errors.New("delivery options are not loaded")
)

// ShippingAPI 承运商查询接口
type ShippingAPI interface {
	SearchCities(ctx context.Context, query string) ([]City, error)
	CalculateTariffs(ctx context.Context, req TariffRequest) ([]Tariff, error)
	ListPickupPoints(ctx context.Context, cityCode int) ([]PickupPoint, error)
}

// DeliveryState 配送解析状态：NoCity | CitySelected | TariffsReady | PvzReady
type DeliveryState interface {
	deliveryState()
}

// NoCity 初始状态
type NoCity struct{}

// CitySelected 已选城市，运费与自提点加载中或加载失败
type CitySelected struct {
	City City
}

// TariffsReady 运费已加载
type TariffsReady struct {
	City     City
	Tariffs  []Tariff
	Selected *Tariff
}

// PvzReady 运费与自提点均已加载
type PvzReady struct {
	City           City
	Tariffs        []Tariff
	SelectedTariff *Tariff
	Points         []PickupPoint
	SelectedPoint  *PickupPoint
}

func (NoCity) deliveryState()       {}
func (CitySelected) deliveryState() {}
func (TariffsReady) deliveryState() {}
func (PvzReady) deliveryState()     {}

// DeliverySelection 当前选中的城市、运费、自提点
type DeliverySelection struct {
	Mode   string
	City   *City
	Tariff *Tariff
	Point  *PickupPoint
}

// DeliveryResolver 城市 → 运费 → 自提点 的逐级解析器
// 每次选城市递增代数，过期代数的响应直接丢弃。
type DeliveryResolver struct {
	api   ShippingAPI
	items func() int
	log   *zap.SugaredLogger

	mu         sync.Mutex
	mode       string
	state      DeliveryState
	generation uint64
	searchSeq  uint64
	candidates []City
	debouncer  *Debouncer
}

// NewDeliveryResolver 创建解析器；items 返回购物车件数，用于估算重量
func NewDeliveryResolver(api ShippingAPI, items func() int, log *zap.SugaredLogger) *DeliveryResolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if items == nil {
		items = func() int { return 0 }
	}
	return &DeliveryResolver{
		api:       api,
		items:     items,
		log:       log,
		mode:      constants.DeliveryModePvz,
		state:     NoCity{},
		debouncer: NewDebouncer(DefaultDebounceDelay),
	}
}

// State 当前状态
func (r *DeliveryResolver) State() DeliveryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Mode 当前配送方式
func (r *DeliveryResolver) Mode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Candidates 最近一次城市搜索结果
func (r *DeliveryResolver) Candidates() []City {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]City, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// SearchCities 搜索城市；查询过短时不发请求，结果最多保留 MaxCityResults 条
func (r *DeliveryResolver) SearchCities(ctx context.Context, query string) ([]City, error) {
	query = strings.TrimSpace(query)
	r.mu.Lock()
	r.searchSeq++
	seq := r.searchSeq
	if utf8.RuneCountInString(query) < MinCityQueryRunes {
		r.candidates = nil
		r.mu.Unlock()
		return nil, nil
	}
	r.mu.Unlock()

	cities, err := r.api.SearchCities(ctx, query)
	if err != nil {
		r.log.Warnw("delivery_city_search_failed", "query", query, "error", err)
		return nil, err
	}
	if len(cities) > MaxCityResults {
		cities = cities[:MaxCityResults]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.searchSeq {
		return nil, nil
	}
	r.candidates = cities
	return cities, nil
}

// QueryChanged 防抖后搜索，只有最后一次输入会真正发出请求
func (r *DeliveryResolver) QueryChanged(ctx context.Context, query string, done func([]City, error)) {
	r.debouncer.Trigger(func() {
		cities, err := r.SearchCities(ctx, query)
		if done != nil {
			done(cities, err)
		}
	})
}

// Close 停止挂起的防抖任务
func (r *DeliveryResolver) Close() {
	r.debouncer.Stop()
}

// SelectCity 立即切换到 CitySelected（清空旧运费与自提点），再并发加载运费与自提点
func (r *DeliveryResolver) SelectCity(ctx context.Context, city City) DeliveryState {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	mode := r.mode
	r.state = CitySelected{City: city}
	r.candidates = nil
	r.searchSeq++
	r.mu.Unlock()

	if mode == constants.DeliveryModePickup {
		return r.State()
	}

	var (
		tariffs    []Tariff
		tariffsErr error
		points     []PickupPoint
		pointsErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tariffs, tariffsErr = r.api.CalculateTariffs(gctx, TariffRequest{
			CityCode:    city.Code,
			WeightGrams: ShipmentWeight(r.items()),
			Mode:        mode,
		})
		if tariffsErr != nil {
			r.log.Warnw("delivery_tariffs_failed", "city_code", city.Code, "error", tariffsErr)
		}
		return nil
	})
	if mode == constants.DeliveryModePvz {
		g.Go(func() error {
			points, pointsErr = r.api.ListPickupPoints(gctx, city.Code)
			if pointsErr != nil {
				r.log.Warnw("delivery_pvz_failed", "city_code", city.Code, "error", pointsErr)
			}
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		r.log.Debugw("delivery_stale_response_dropped", "city_code", city.Code)
		return r.state
	}
	if tariffsErr != nil && (mode != constants.DeliveryModePvz || pointsErr != nil) {
		return r.state
	}
	filtered := FilterTariffs(tariffs, mode)
	selectedTariff := CheapestTariff(filtered)
	if mode == constants.DeliveryModePvz && pointsErr == nil {
		if len(points) > MaxPickupPoints {
			points = points[:MaxPickupPoints]
		}
		var selectedPoint *PickupPoint
		if len(points) > 0 {
			first := points[0]
			selectedPoint = &first
		}
		r.state = PvzReady{
			City:           city,
			Tariffs:        filtered,
			SelectedTariff: selectedTariff,
			Points:         points,
			SelectedPoint:  selectedPoint,
		}
		return r.state
	}
	r.state = TariffsReady{City: city, Tariffs: filtered, Selected: selectedTariff}
	return r.state
}

// ClearCity 回到 NoCity，挂起中的响应作废
func (r *DeliveryResolver) ClearCity() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.state = NoCity{}
}

// SetMode 切换配送方式，已选城市时重新解析
func (r *DeliveryResolver) SetMode(ctx context.Context, mode string) DeliveryState {
	r.mu.Lock()
	if r.mode == mode {
		r.mu.Unlock()
		return r.State()
	}
	r.mode = mode
	city, ok := cityOf(r.state)
	r.mu.Unlock()
	if !ok {
		return r.State()
	}
	return r.SelectCity(ctx, city)
}

// SelectTariff 用户手动选择运费
func (r *DeliveryResolver) SelectTariff(code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch st := r.state.(type) {
	case TariffsReady:
		t, ok := findTariff(st.Tariffs, code)
		if !ok {
			return ErrTariffNotFound
		}
		st.Selected = t
		r.state = st
		return nil
	case PvzReady:
		t, ok := findTariff(st.Tariffs, code)
		if !ok {
			return ErrTariffNotFound
		}
		st.SelectedTariff = t
		r.state = st
		return nil
	case NoCity, CitySelected:
		return ErrDeliveryNotResolved
	default:
		return ErrDeliveryNotResolved
	}
}

// SelectPickupPoint 用户手动选择自提点
func (r *DeliveryResolver) SelectPickupPoint(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.state.(PvzReady)
	if !ok {
		return ErrDeliveryNotResolved
	}
	for i := range st.Points {
		if st.Points[i].Code == code {
			point := st.Points[i]
			st.SelectedPoint = &point
			r.state = st
			return nil
		}
	}
	return ErrPickupPointNotFound
}

// Selection 当前选择
func (r *DeliveryResolver) Selection() DeliverySelection {
	r.mu.Lock()
	defer r.mu.Unlock()
	sel := DeliverySelection{Mode: r.mode}
	switch st := r.state.(type) {
	case NoCity:
	case CitySelected:
		city := st.City
		sel.City = &city
	case TariffsReady:
		city := st.City
		sel.City = &city
		sel.Tariff = st.Selected
	case PvzReady:
		city := st.City
		sel.City = &city
		sel.Tariff = st.SelectedTariff
		sel.Point = st.SelectedPoint
	}
	return sel
}

func cityOf(state DeliveryState) (City, bool) {
	switch st := state.(type) {
	case NoCity:
		return City{}, false
	case CitySelected:
		return st.City, true
	case TariffsReady:
		return st.City, true
	case PvzReady:
		return st.City, true
	default:
		return City{}, false
	}
}

func findTariff(tariffs []Tariff, code int) (*Tariff, bool) {
	for i := range tariffs {
		if tariffs[i].Code == code {
			t := tariffs[i]
			return &t, true
		}
	}
	return nil, false
}

// ShipmentWeight 估算重量：件数 × 1000 克，至少 1000 克
func ShipmentWeight(items int) int {
	weight := items * GramsPerItem
	if weight < GramsPerItem {
		return GramsPerItem
	}
	return weight
}

var (
	courierTariffMarkers = []string{"склад-дверь", "дверь-дверь"}
	pvzTariffMarkers     = []string{"склад-склад", "дверь-склад", "постамат"}
	courierTariffCodes   = map[int]struct{}{137: {}, 139: {}, 480: {}, 482: {}}
	pvzTariffCodes       = map[int]struct{}{136: {}, 138: {}, 368: {}, 481: {}, 483: {}, 486: {}}
)

// FilterTariffs 按配送方式用名称与编码规则筛选运费，无匹配时回退到前 FallbackTariffCount 条
func FilterTariffs(tariffs []Tariff, mode string) []Tariff {
	var markers []string
	var codes map[int]struct{}
	switch mode {
	case constants.DeliveryModeCourier:
		markers, codes = courierTariffMarkers, courierTariffCodes
	case constants.DeliveryModePvz:
		markers, codes = pvzTariffMarkers, pvzTariffCodes
	default:
		return fallbackTariffs(tariffs)
	}
	out := make([]Tariff, 0, len(tariffs))
	for _, t := range tariffs {
		if _, ok := codes[t.Code]; ok || containsAny(strings.ToLower(t.Name), markers) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return fallbackTariffs(tariffs)
	}
	return out
}

func fallbackTariffs(tariffs []Tariff) []Tariff {
	n := min(len(tariffs), FallbackTariffCount)
	out := make([]Tariff, n)
	copy(out, tariffs[:n])
	return out
}

// CheapestTariff 返回最便宜的运费，同价取靠前的
func CheapestTariff(tariffs []Tariff) *Tariff {
	if len(tariffs) == 0 {
		return nil
	}
	idx := make([]int, len(tariffs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return tariffs[idx[a]].DeliverySum.Decimal.LessThan(tariffs[idx[b]].DeliverySum.Decimal)
	})
	t := tariffs[idx[0]]
	return &t
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

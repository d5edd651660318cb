package service

import (
	"context"
	"errors"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

// In-memory fakes backing the service tests. All are safe for concurrent use.

type cacheEntry struct {
	payload []byte
	expires time.Time
}

type fakeCache struct {
	mu     sync.Mutex
	data   map[string]cacheEntry
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]cacheEntry{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	e, ok := c.data[key]
	if !ok || time.Now().After(e.expires) {
		return nil, nil
	}
	return e.payload, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = cacheEntry{payload: payload, expires: time.Now().Add(ttl)}
	return nil
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var deleted int
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
			deleted++
		}
	}
	return deleted, nil
}

// SetIdempotency mirrors SETNX: the key becomes visible to Get.
func (c *fakeCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.data[key]; ok && time.Now().Before(e.expires) {
		return false, nil
	}
	c.data[key] = cacheEntry{payload: []byte("1"), expires: time.Now().Add(24 * time.Hour)}
	return true, nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeCatalogRepo struct {
	mu         sync.Mutex
	products   map[string]domain.Product
	categories map[string]domain.Category
	brands     map[string]domain.Brand

	findCalls    int
	listCatCalls int
}

func newFakeCatalogRepo(products ...domain.Product) *fakeCatalogRepo {
	r := &fakeCatalogRepo{
		products:   map[string]domain.Product{},
		categories: map[string]domain.Category{},
		brands:     map[string]domain.Brand{},
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeCatalogRepo) FindProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++

	var matched []domain.Product
	for _, p := range r.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.BrandID != "" && p.BrandID != f.BrandID {
			continue
		}
		if f.OnSale && !p.OnSale {
			continue
		}
		if f.MinRating > 0 && p.AverageRating < f.MinRating {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeCatalogRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &p, nil
}

func (r *fakeCatalogRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return port.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeCatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCatCalls++
	var cats []domain.Category
	for _, c := range r.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (r *fakeCatalogRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return port.ErrDuplicate
		}
	}
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCatalogRepo) DeleteCategory(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return port.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCatalogRepo) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var brands []domain.Brand
	for _, b := range r.brands {
		brands = append(brands, b)
	}
	return brands, nil
}

func (r *fakeCatalogRepo) CreateBrand(ctx context.Context, b domain.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.brands {
		if existing.Name == b.Name {
			return port.ErrDuplicate
		}
	}
	r.brands[b.ID] = b
	return nil
}

func (r *fakeCatalogRepo) DeleteBrand(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.brands, id)
	return nil
}

func (r *fakeCatalogRepo) stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

// fakeOrderRepo shares the catalog fake's product map so stock moves are
// visible to both.
type fakeOrderRepo struct {
	mu      sync.Mutex
	catalog *fakeCatalogRepo
	orders  map[string]*domain.Order

	confirmCalls int
	confirmFails int
}

func newFakeOrderRepo(catalog *fakeCatalogRepo) *fakeOrderRepo {
	return &fakeOrderRepo{catalog: catalog, orders: map[string]*domain.Order{}}
}

func (r *fakeOrderRepo) CreateWithStockDecrement(ctx context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog.mu.Lock()
	defer r.catalog.mu.Unlock()

	for _, it := range o.Items {
		if r.catalog.products[it.ProductID].Stock < it.Quantity {
			return &port.InsufficientStockError{ProductID: it.ProductID}
		}
	}
	for _, it := range o.Items {
		p := r.catalog.products[it.ProductID]
		p.Stock -= it.Quantity
		r.catalog.products[it.ProductID] = p
	}
	saved := o
	r.orders[o.ID] = &saved
	return nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := o
	r.orders[o.ID] = &saved
	return nil
}

func (r *fakeOrderRepo) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return port.ErrNotFound
	}
	o.CheckoutSessionID = sessionID
	return nil
}

func (r *fakeOrderRepo) ConfirmPayment(ctx context.Context, orderID, paymentRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmCalls++

	if r.confirmFails > 0 {
		r.confirmFails--
		return false, errors.New("invalid connection")
	}

	o, ok := r.orders[orderID]
	if !ok {
		return false, port.ErrNotFound
	}
	if o.PaymentStatus == domain.PaymentStatusPaid {
		return false, nil
	}
	o.PaymentStatus = domain.PaymentStatusPaid
	o.OrderStatus = domain.OrderStatusConfirmed
	o.PaymentRef = paymentRef

	r.catalog.mu.Lock()
	defer r.catalog.mu.Unlock()
	for _, it := range o.Items {
		p := r.catalog.products[it.ProductID]
		p.Stock -= it.Quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		r.catalog.products[it.ProductID] = p
	}
	return true, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CheckoutSessionID == sessionID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, port.ErrNotFound
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return port.ErrNotFound
	}
	o.OrderStatus = status
	return nil
}

func (r *fakeOrderRepo) SalesSummary(ctx context.Context, since time.Time) (domain.SalesSummary, error) {
	return domain.SalesSummary{}, nil
}

func (r *fakeOrderRepo) TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.TopProduct, error) {
	return nil, nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]domain.Cart{}}
}

func (r *fakeCartRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := c
	copied.Items = append([]domain.CartItem(nil), c.Items...)
	return &copied, nil
}

func (r *fakeCartRepo) Upsert(ctx context.Context, c domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.UserID] = c
	return nil
}

func (r *fakeCartRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func (r *fakeCartRepo) has(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.carts[userID]
	return ok
}

type fakeGateway struct {
	mu            sync.Mutex
	created       []port.CheckoutParams
	sessionStatus string
	paymentRef    string
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, p port.CheckoutParams) (*port.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, p)
	return &port.CheckoutSession{
		ID:            "sess-" + p.OrderID,
		URL:           "https://checkout.example.com/s/sess-" + p.OrderID,
		PaymentStatus: "unpaid",
		OrderID:       p.OrderID,
	}, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, id string) (*port.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &port.CheckoutSession{
		ID:            id,
		PaymentStatus: g.sessionStatus,
		PaymentRef:    g.paymentRef,
	}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []port.Email
}

func (m *fakeMailer) Send(ctx context.Context, msg port.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]domain.Review

	lastAvg   float64
	lastCount int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]domain.Review{}}
}

func (r *fakeReviewRepo) Create(ctx context.Context, rev domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.ProductID == rev.ProductID && existing.UserID == rev.UserID {
			return port.ErrDuplicate
		}
	}
	r.reviews[rev.ID] = rev
	return nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, rev domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[rev.ID]; !ok {
		return port.ErrNotFound
	}
	r.reviews[rev.ID] = rev
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return port.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &rev, nil
}

func (r *fakeReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) SetProductRating(ctx context.Context, productID string, avg float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastAvg = avg
	r.lastCount = count
	return nil
}

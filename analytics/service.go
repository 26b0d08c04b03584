// Package analytics derives dashboard views from items and the ledger.
// Results are cached and dropped on every write.
package analytics

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kpdgayao/vivita-inventory/cache"
	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/metrics"
	"github.com/kpdgayao/vivita-inventory/models"
	"github.com/kpdgayao/vivita-inventory/repository"
)

const (
	keyPrefix = "analytics:"

	DefaultTopSellers = 5
	DefaultTrendDays  = 30
	usageWindowDays   = 30
)

// ItemReader is the part of the item store analytics reads
type ItemReader interface {
	Get(ctx context.Context, id string) (*models.Item, error)
	All(ctx context.Context, includeInactive bool) ([]models.Item, error)
	LowStock(ctx context.Context) ([]models.Item, error)
}

// TransactionReader is the part of the ledger store analytics reads
type TransactionReader interface {
	List(ctx context.Context, f repository.TransactionFilter) ([]models.Transaction, error)
	ListForItem(ctx context.Context, itemID string) ([]models.Transaction, error)
	All(ctx context.Context) ([]models.Transaction, error)
}

// Service computes analytics
type Service struct {
	items ItemReader
	txns  TransactionReader
	cache cache.Cache
	log   *zap.Logger
	loc   *time.Location
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Service
type Option func(*Service)

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service. c may be nil to disable caching.
func New(items ItemReader, txns TransactionReader, c cache.Cache, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		items: items,
		txns:  txns,
		cache: c,
		log:   log.Named("analytics"),
		loc:   time.UTC,
		ttl:   time.Hour,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Now returns the service clock in the configured location
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the reporting time zone
func (s *Service) Location() *time.Location {
	return s.loc
}

// Invalidate drops every cached view. Call after any write.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, keyPrefix); err != nil {
		s.log.Warn("cache invalidation failed", zap.Error(err))
	}
}

// snapshot loads active items and the full ledger concurrently
func (s *Service) snapshot(ctx context.Context) ([]models.Item, []models.Transaction, error) {
	var (
		items []models.Item
		txns  []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.items.All(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		txns, err = s.txns.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return items, txns, nil
}

// Summary returns item count, total value, mean catalogue unit cost and
// low stock count for active items.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	sum, err := cache.Remember(ctx, s.cache, s.log, keyPrefix+"summary", s.ttl, func(ctx context.Context) (Summary, error) {
		items, txns, err := s.snapshot(ctx)
		if err != nil {
			return Summary{}, err
		}
		out := Summary{
			TotalItems:  len(items),
			TotalValue:  ledger.TotalValue(items, txns).Round(2),
			AvgUnitCost: decimal.Zero,
		}
		costs := decimal.Zero
		for _, it := range items {
			costs = costs.Add(it.UnitCost)
			if ledger.IsLowStock(it) {
				out.LowStockCount++
			}
			if it.Quantity <= 0 {
				out.OutOfStockCount++
			}
		}
		if len(items) > 0 {
			out.AvgUnitCost = costs.Div(decimal.NewFromInt(int64(len(items)))).Round(2)
		}
		return out, nil
	})
	if err == nil {
		metrics.SetLowStockItems(sum.LowStockCount)
	}
	return sum, err
}

// TransactionTrends counts rows per local day over the last days days,
// today included. Days without rows count zero.
func (s *Service) TransactionTrends(ctx context.Context, days int) (Trends, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	today := startOfDay(s.Now())
	key := fmt.Sprintf("%strends:%s:%d", keyPrefix, today.Format(time.DateOnly), days)
	return cache.Remember(ctx, s.cache, s.log, key, s.ttl, func(ctx context.Context) (Trends, error) {
		from := today.AddDate(0, 0, -(days - 1))
		rows, err := s.txns.List(ctx, repository.TransactionFilter{From: from, To: today.AddDate(0, 0, 1)})
		if err != nil {
			return Trends{}, err
		}

		perDay := make(map[string]int, days)
		perType := make(map[models.TransactionType]int)
		for _, t := range rows {
			perDay[t.CreatedAt.In(s.loc).Format(time.DateOnly)]++
			perType[t.TransactionType]++
		}

		out := Trends{Days: days, Daily: make([]DailyCount, 0, days)}
		for d := from; d.Before(today.AddDate(0, 0, 1)); d = d.AddDate(0, 0, 1) {
			key := d.Format(time.DateOnly)
			out.Daily = append(out.Daily, DailyCount{Date: key, Count: perDay[key]})
		}
		for typ, n := range perType {
			out.Types = append(out.Types, TypeCount{Type: typ, Count: n})
		}
		slices.SortFunc(out.Types, func(a, b TypeCount) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Type, b.Type)
		})
		return out, nil
	})
}

// CategoryDistribution values active stock per category, highest first
func (s *Service) CategoryDistribution(ctx context.Context) ([]CategoryValue, error) {
	return cache.Remember(ctx, s.cache, s.log, keyPrefix+"categories", s.ttl, func(ctx context.Context) ([]CategoryValue, error) {
		items, txns, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		byItem := ledger.GroupByItem(txns)
		byCat := make(map[models.Category]*CategoryValue)
		for _, it := range items {
			cv, ok := byCat[it.Category]
			if !ok {
				cv = &CategoryValue{Category: it.Category, Label: it.Category.Label(), Value: decimal.Zero}
				byCat[it.Category] = cv
			}
			cv.Items++
			cv.Value = cv.Value.Add(ledger.ItemValue(it, byItem[it.ID]))
		}

		out := make([]CategoryValue, 0, len(byCat))
		for _, cv := range byCat {
			cv.Value = cv.Value.Round(2)
			out = append(out, *cv)
		}
		slices.SortFunc(out, func(a, b CategoryValue) int {
			if c := b.Value.Cmp(a.Value); c != 0 {
				return c
			}
			return cmp.Compare(a.Category, b.Category)
		})
		return out, nil
	})
}

// TopSellingItems ranks items by sale revenue over the last days days
func (s *Service) TopSellingItems(ctx context.Context, days, limit int) ([]TopSeller, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if limit <= 0 {
		limit = DefaultTopSellers
	}
	now := s.Now()
	key := fmt.Sprintf("%stop:%s:%d:%d", keyPrefix, startOfDay(now).Format(time.DateOnly), days, limit)
	return cache.Remember(ctx, s.cache, s.log, key, s.ttl, func(ctx context.Context) ([]TopSeller, error) {
		rows, err := s.txns.List(ctx, repository.TransactionFilter{
			Type: models.TransactionSale,
			From: now.AddDate(0, 0, -days),
			To:   now.Add(time.Second),
		})
		if err != nil {
			return nil, err
		}

		byItem := make(map[string]*TopSeller)
		for _, t := range rows {
			ts, ok := byItem[t.ItemID]
			if !ok {
				ts = &TopSeller{ItemID: t.ItemID, Revenue: decimal.Zero}
				if t.Item != nil {
					ts.Name = t.Item.Name
				}
				byItem[t.ItemID] = ts
			}
			ts.UnitsSold += t.Quantity
			ts.Revenue = ts.Revenue.Add(t.Value())
		}

		out := make([]TopSeller, 0, len(byItem))
		for _, ts := range byItem {
			out = append(out, *ts)
		}
		slices.SortFunc(out, func(a, b TopSeller) int {
			if c := b.Revenue.Cmp(a.Revenue); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	})
}

// ItemTurnover annualises units sold against half the on-hand quantity.
// Items with under a day of history or no stock are skipped.
func (s *Service) ItemTurnover(ctx context.Context) ([]Turnover, error) {
	return cache.Remember(ctx, s.cache, s.log, keyPrefix+"turnover", s.ttl, func(ctx context.Context) ([]Turnover, error) {
		items, txns, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		now := s.Now()
		byItem := ledger.GroupByItem(txns)

		out := []Turnover{}
		for _, it := range items {
			rows := byItem[it.ID]
			if len(rows) == 0 || it.Quantity <= 0 {
				continue
			}
			first := rows[0].CreatedAt
			var sold int64
			for _, t := range rows {
				if t.CreatedAt.Before(first) {
					first = t.CreatedAt
				}
				if t.TransactionType == models.TransactionSale {
					sold += t.Quantity
				}
			}
			days := int(now.Sub(first).Hours() / 24)
			if days < 1 {
				continue
			}
			avgInventory := float64(it.Quantity) / 2
			rate := (float64(sold) / avgInventory) * (365 / float64(days))
			out = append(out, Turnover{
				ItemID:       it.ID,
				Name:         it.Name,
				UnitsSold:    sold,
				TurnoverRate: math.Round(rate*100) / 100,
				DaysInStock:  days,
			})
		}
		slices.SortFunc(out, func(a, b Turnover) int {
			if c := cmp.Compare(b.TurnoverRate, a.TurnoverRate); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		return out, nil
	})
}

// StockAlerts lists low stock items with a suggested reorder quantity
// based on the last 30 days of sales.
func (s *Service) StockAlerts(ctx context.Context) ([]StockAlert, error) {
	return cache.Remember(ctx, s.cache, s.log, keyPrefix+"alerts", s.ttl, func(ctx context.Context) ([]StockAlert, error) {
		low, err := s.items.LowStock(ctx)
		if err != nil {
			return nil, err
		}
		if len(low) == 0 {
			return []StockAlert{}, nil
		}

		now := s.Now()
		sales, err := s.txns.List(ctx, repository.TransactionFilter{
			Type: models.TransactionSale,
			From: now.AddDate(0, 0, -usageWindowDays),
			To:   now.Add(time.Second),
		})
		if err != nil {
			return nil, err
		}
		usage := make(map[string]int64)
		for _, t := range sales {
			usage[t.ItemID] += t.Quantity
		}

		out := make([]StockAlert, 0, len(low))
		for _, it := range low {
			daily := float64(usage[it.ID]) / usageWindowDays
			out = append(out, StockAlert{
				ItemID:          it.ID,
				Name:            it.Name,
				SKU:             it.SKU,
				UnitType:        it.UnitType,
				Status:          ledger.Status(it),
				CurrentQuantity: it.Quantity,
				MinQuantity:     it.MinQuantity,
				Shortage:        ledger.Shortage(it),
				ReorderQuantity: ledger.ReorderQuantity(it.Quantity, it.MinQuantity, it.MaxQuantity, daily),
				LastOrderedAt:   it.LastOrderedAt,
			})
		}
		return out, nil
	})
}

// RecentTransactions returns the newest rows with their item names
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]RecentTransaction, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.txns.List(ctx, repository.TransactionFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]RecentTransaction, 0, len(rows))
	for _, t := range rows {
		name := "Unknown Item"
		if t.Item != nil {
			name = t.Item.Name
		}
		out = append(out, RecentTransaction{Transaction: t, ItemName: name})
	}
	return out, nil
}

// ItemLedger returns running balances and valuation for one item
func (s *Service) ItemLedger(ctx context.Context, itemID string) (*ItemLedger, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	rows, err := s.txns.ListForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemLedger{
		Item:      *item,
		UnitCost:  ledger.UnitCost(*item, rows).Round(2),
		Value:     ledger.ItemValue(*item, rows).Round(2),
		Balances:  ledger.RunningBalances(*item, rows),
		Valuation: ledger.Valuation(*item, rows),
	}, nil
}

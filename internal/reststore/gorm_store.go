package reststore

import (
	"strconv"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/common"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"
)

// restingOrderRow is the GORM-mapped persistent row for one resting order.
type restingOrderRow struct {
	OrderID   uint64 `gorm:"primaryKey"`
	SymbolFP  uint32
	Side      uint32
	Price     int64
	Quantity  int64
	Timestamp int64
}

func (restingOrderRow) TableName() string { return "resting_orders" }

// GormStore is a real persistent backing for the resting-order side
// store. It fronts gorm.io/gorm with
// a local write-through cache (github.com/patrickmn/go-cache) to absorb
// duplicate UpdateQuantity bursts, and wraps every database call in a
// circuit breaker (github.com/sony/gobreaker) so a stalled database
// degrades to dropped side-store updates instead of stalling callers.
type GormStore struct {
	db      *gorm.DB
	cache   *gocache.Cache
	breaker *gobreaker.CircuitBreaker
	logger  common.Logger
}

// NewGormStore opens a GormStore against an already-connected *gorm.DB
// (dialect selection, e.g. gorm.io/driver/postgres, is the caller's
// deployment choice per "external collaborators" stance
// on persistence). cacheTTL of 0 selects the package default.
func NewGormStore(db *gorm.DB, cacheTTL time.Duration, logger common.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&restingOrderRow{}); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.NewDefaultLoggerWithPrefix("reststore-gorm")
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "reststore-gorm",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &GormStore{
		db:      db,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		breaker: cb,
		logger:  logger,
	}, nil
}

func (s *GormStore) Add(r Record) {
	if r.OrderID == 0 {
		return
	}
	s.cache.Set(cacheKey(r.OrderID), r, gocache.DefaultExpiration)
	_, err := s.breaker.Execute(func() (interface{}, error) {
		row := restingOrderRow{
			OrderID: r.OrderID, SymbolFP: r.SymbolFP, Side: r.Side,
			Price: r.Price, Quantity: r.Quantity, Timestamp: r.Timestamp,
		}
		return nil, s.db.Create(&row).Error
	})
	if err != nil {
		s.logger.Warn("reststore add failed", "order_id", r.OrderID, "error", err.Error())
	}
}

func (s *GormStore) UpdateQuantity(id uint64, newQuantity int64) {
	if newQuantity <= 0 {
		s.Remove(id)
		return
	}
	if cached, ok := s.cache.Get(cacheKey(id)); ok {
		r := cached.(Record)
		if r.Quantity == newQuantity {
			return
		}
		r.Quantity = newQuantity
		s.cache.Set(cacheKey(id), r, gocache.DefaultExpiration)
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.db.Model(&restingOrderRow{}).Where("order_id = ?", id).
			Update("quantity", newQuantity).Error
	})
	if err != nil {
		s.logger.Warn("reststore update failed", "order_id", id, "error", err.Error())
	}
}

func (s *GormStore) Remove(id uint64) (Record, bool) {
	var removed Record
	found := false
	if cached, ok := s.cache.Get(cacheKey(id)); ok {
		removed = cached.(Record)
		found = true
		s.cache.Delete(cacheKey(id))
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.db.Where("order_id = ?", id).Delete(&restingOrderRow{}).Error
	})
	if err != nil {
		s.logger.Warn("reststore remove failed", "order_id", id, "error", err.Error())
	}
	return removed, found
}

func cacheKey(id uint64) string {
	return "resting:" + strconv.FormatUint(id, 10)
}

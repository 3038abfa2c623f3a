package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MySQLConfig captures the connection parameters for a MySQL instance.
type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Params   string
}

// DSN renders the go-sql-driver connection string. clientFoundRows is
// forced on so an UPDATE that rewrites identical values still reports the
// row as affected.
func (c MySQLConfig) DSN() string {
	params := c.Params
	if !strings.Contains(params, "clientFoundRows=") {
		if params != "" {
			params += "&"
		}
		params += "clientFoundRows=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		params,
	)
}

// orderModel maps the orders table. It has no DeletedAt:
// deletes are hard deletes.
//
// Amounts keep 8 decimal places and rates 10, so every derived column
// (an amount times a rate) fits exactly in 18.
type orderModel struct {
	ID                  int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderDate           time.Time       `gorm:"column:order_date;type:date;not null;index:idx_orders_recent,priority:1"`
	CustomerName        string          `gorm:"column:customer_name;type:varchar(255);not null;default:''"`
	ProductLink         string          `gorm:"column:product_link;type:text"`
	PriceTHB            decimal.Decimal `gorm:"column:price_thb;type:decimal(30,8);not null;default:0"`
	ShippingTHB         decimal.Decimal `gorm:"column:shipping_thb;type:decimal(30,8);not null;default:0"`
	ServiceFeeLAK       decimal.Decimal `gorm:"column:service_fee_lak;type:decimal(30,8);not null;default:0"`
	THToLAChargeLAK     decimal.Decimal `gorm:"column:th_to_la_charge_lak;type:decimal(30,8);not null;default:0"`
	ActualTHToLACostLAK decimal.Decimal `gorm:"column:actual_th_to_la_cost_lak;type:decimal(30,8);not null;default:0"`
	CustomerRate        decimal.Decimal `gorm:"column:customer_rate;type:decimal(24,10);not null;default:0"`
	Rate                decimal.Decimal `gorm:"column:rate;type:decimal(24,10);not null;default:0"`
	PriceLAK            decimal.Decimal `gorm:"column:price_lak;type:decimal(60,18);not null;default:0"`
	ShippingLAK         decimal.Decimal `gorm:"column:shipping_lak;type:decimal(60,18);not null;default:0"`
	TotalLAK            decimal.Decimal `gorm:"column:total_lak;type:decimal(60,18);not null;default:0"`
	RateProfitLAK       decimal.Decimal `gorm:"column:rate_profit_lak;type:decimal(60,18);not null;default:0"`
	NetProfitLAK        decimal.Decimal `gorm:"column:net_profit_lak;type:decimal(60,18);not null;default:0"`
	PaymentStatus       string          `gorm:"column:payment_status;type:varchar(16);not null;default:'Unpaid';index"`
	OrderStatus         string          `gorm:"column:order_status;type:varchar(64);not null;default:'Pending'"`
	TrackingNo          string          `gorm:"column:tracking_no;type:varchar(128);not null;default:''"`
	Carrier             string          `gorm:"column:carrier;type:varchar(128);not null;default:''"`
	TrackingLink        string          `gorm:"column:tracking_link;type:text"`
	CreatedAt           time.Time       `gorm:"column:created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at"`
}

func (orderModel) TableName() string { return "orders" }

// settingsModel maps the single-row settings table.
type settingsModel struct {
	ID           int             `gorm:"column:id;primaryKey;autoIncrement:false"`
	ExchangeRate decimal.Decimal `gorm:"column:exchange_rate;type:decimal(24,10);not null;default:0"`
	UpdatedAt    *time.Time      `gorm:"column:updated_at"`
}

func (settingsModel) TableName() string { return "settings" }

const settingsRowID = 1

func toOrderModel(o *domain.Order) *orderModel {
	date, err := time.Parse(domain.DateLayout, o.OrderDate)
	if err != nil {
		date = time.Time{}
	}
	return &orderModel{
		ID:                  o.ID,
		OrderDate:           date,
		CustomerName:        o.CustomerName,
		ProductLink:         o.ProductLink,
		PriceTHB:            o.PriceTHB,
		ShippingTHB:         o.ShippingTHB,
		ServiceFeeLAK:       o.ServiceFeeLAK,
		THToLAChargeLAK:     o.THToLAChargeLAK,
		ActualTHToLACostLAK: o.ActualTHToLACostLAK,
		CustomerRate:        o.CustomerRate,
		Rate:                o.Rate,
		PriceLAK:            o.PriceLAK,
		ShippingLAK:         o.ShippingLAK,
		TotalLAK:            o.TotalLAK,
		RateProfitLAK:       o.RateProfitLAK,
		NetProfitLAK:        o.NetProfitLAK,
		PaymentStatus:       string(o.PaymentStatus),
		OrderStatus:         string(o.OrderStatus),
		TrackingNo:          o.TrackingNo,
		Carrier:             o.Carrier,
		TrackingLink:        o.TrackingLink,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func (m *orderModel) toDomain() *domain.Order {
	return &domain.Order{
		ID: m.ID,
		OrderInput: domain.OrderInput{
			OrderDate:           m.OrderDate.Format(domain.DateLayout),
			CustomerName:        m.CustomerName,
			ProductLink:         m.ProductLink,
			PriceTHB:            m.PriceTHB,
			ShippingTHB:         m.ShippingTHB,
			ServiceFeeLAK:       m.ServiceFeeLAK,
			THToLAChargeLAK:     m.THToLAChargeLAK,
			ActualTHToLACostLAK: m.ActualTHToLACostLAK,
			CustomerRate:        m.CustomerRate,
			PaymentStatus:       domain.PaymentStatus(m.PaymentStatus),
			OrderStatus:         domain.OrderStatus(m.OrderStatus),
			TrackingNo:          m.TrackingNo,
			Carrier:             m.Carrier,
			TrackingLink:        m.TrackingLink,
		},
		Rate:          m.Rate,
		PriceLAK:      m.PriceLAK,
		ShippingLAK:   m.ShippingLAK,
		TotalLAK:      m.TotalLAK,
		RateProfitLAK: m.RateProfitLAK,
		NetProfitLAK:  m.NetProfitLAK,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// MySQLStore implements Backend with GORM over MySQL.
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore connects using cfg, tunes the pool and migrates the
// schema.
func NewMySQLStore(ctx context.Context, cfg MySQLConfig) (*MySQLStore, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := gdb.WithContext(ctx).AutoMigrate(&orderModel{}, &settingsModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &MySQLStore{db: gdb}, nil
}

// Close releases the connection pool.
func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Insert stores o and returns the auto-increment id.
func (s *MySQLStore) Insert(ctx context.Context, o *domain.Order) (int64, error) {
	m := toOrderModel(o)
	m.ID = 0
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return 0, &domain.StorageError{Op: "insert order", Err: err}
	}
	return m.ID, nil
}

// FindByID retrieves an order by id. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (s *MySQLStore) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, &domain.StorageError{Op: "find order", Err: err}
	}
	return m.toDomain(), nil
}

// ListRecent returns up to limit orders, newest order_date first and
// newest id first within a date.
func (s *MySQLStore) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	var models []orderModel
	err := s.db.WithContext(ctx).
		Order("order_date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, &domain.StorageError{Op: "list orders", Err: err}
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = models[i].toDomain()
	}
	return orders, nil
}

// Update overwrites every column except id and created_at. It returns
// domain.ErrOrderNotFound if no row matched.
func (s *MySQLStore) Update(ctx context.Context, id int64, o *domain.Order) error {
	m := toOrderModel(o)
	m.ID = id
	res := s.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		return &domain.StorageError{Op: "update order", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete hard-deletes the order with id. It returns
// domain.ErrOrderNotFound if no row matched.
func (s *MySQLStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&orderModel{}, id)
	if res.Error != nil {
		return &domain.StorageError{Op: "delete order", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Aggregate runs q as a single SELECT against the orders table.
func (s *MySQLStore) Aggregate(ctx context.Context, q domain.AggregateQuery) (decimal.Decimal, error) {
	expr, err := aggregateExpr(q)
	if err != nil {
		return decimal.Zero, err
	}

	tx := s.db.WithContext(ctx).Model(&orderModel{}).Select(expr)
	if where, args := whereClause(q.Filter); where != "" {
		tx = tx.Where(where, args...)
	}

	var v decimal.Decimal
	if err := tx.Row().Scan(&v); err != nil {
		return decimal.Zero, &domain.StorageError{Op: "aggregate " + q.String(), Err: err}
	}
	return v, nil
}

// CurrentRate returns the settings row, or the zero Settings when it does
// not exist.
func (s *MySQLStore) CurrentRate(ctx context.Context) (domain.Settings, error) {
	var m settingsModel
	if err := s.db.WithContext(ctx).First(&m, settingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, &domain.StorageError{Op: "read settings", Err: err}
	}
	return domain.Settings{ExchangeRate: m.ExchangeRate, UpdatedAt: m.UpdatedAt}, nil
}

// SetExchangeRate upserts the settings row.
func (s *MySQLStore) SetExchangeRate(ctx context.Context, rate decimal.Decimal, at time.Time) (domain.Settings, error) {
	m := settingsModel{ID: settingsRowID, ExchangeRate: rate, UpdatedAt: &at}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"exchange_rate", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return domain.Settings{}, &domain.StorageError{Op: "write settings", Err: err}
	}
	return domain.Settings{ExchangeRate: rate, UpdatedAt: &at}, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// DBPool is the subset of pgxpool.Pool the storage relies on.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type voucherRepository struct {
	storage *Storage
}

type campaignRepository struct {
	storage *Storage
}

type offerRuleRepository struct {
	storage *Storage
}

type settingRepository struct {
	storage *Storage
}

// newPgxPool is a construction seam replaced in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (DBPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Vouchers() repository.VoucherRepository {
	return &voucherRepository{storage: s}
}

func (s *Storage) Campaigns() repository.CampaignRepository {
	return &campaignRepository{storage: s}
}

func (s *Storage) OfferRules() repository.OfferRuleRepository {
	return &offerRuleRepository{storage: s}
}

func (s *Storage) Settings() repository.SettingRepository {
	return &settingRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            stock INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS vouchers (
            code TEXT PRIMARY KEY,
            discount_type TEXT NOT NULL,
            value NUMERIC(12,2) NOT NULL,
            max_discount NUMERIC(12,2),
            min_purchase NUMERIC(12,2) NOT NULL DEFAULT 0,
            usage_limit INT,
            used_count INT NOT NULL DEFAULT 0,
            valid_from TIMESTAMPTZ,
            expires_at TIMESTAMPTZ,
            active BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS campaigns (
            code TEXT PRIMARY KEY,
            percent NUMERIC(5,2) NOT NULL,
            valid_from TIMESTAMPTZ NOT NULL,
            valid_to TIMESTAMPTZ NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS offer_rules (
            id SERIAL PRIMARY KEY,
            min_units INT NOT NULL,
            free_shipping BOOLEAN NOT NULL DEFAULT FALSE,
            free_product_id TEXT NOT NULL DEFAULT '',
            free_quantity INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            number TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL,
            total_amount NUMERIC(12,2) NOT NULL,
            shipping_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
            voucher_code TEXT NOT NULL DEFAULT '',
            voucher_discount NUMERIC(12,2) NOT NULL DEFAULT 0,
            shipping_address JSONB NOT NULL,
            payment_method TEXT NOT NULL,
            payment_channel TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            cancel_reason TEXT NOT NULL DEFAULT '',
            cancel_detail TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id TEXT NOT NULL,
            name TEXT NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL,
            quantity INT NOT NULL,
            free_item BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

// Create commits a checkout atomically: every stock decrement is conditional
// on remaining stock, the voucher usage increment is conditional on the usage
// limit, and any failed condition rolls back the whole order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := r.decrementStock(ctx, tx, order.Items); err != nil {
			return err
		}
		if order.VoucherCode != "" {
			if err := r.consumeVoucher(ctx, tx, order.VoucherCode); err != nil {
				return err
			}
		}

		address, err := json.Marshal(order.ShippingAddress)
		if err != nil {
			return fmt.Errorf("marshal address: %w", err)
		}

		const insertOrder = `INSERT INTO orders
            (user_id, number, status, total_amount, shipping_fee, voucher_code, voucher_discount,
             shipping_address, payment_method, payment_channel, notes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            RETURNING id, created_at, updated_at`
		err = tx.QueryRow(ctx, insertOrder,
			order.UserID, order.Number, order.Status,
			order.TotalAmount, order.ShippingFee, order.VoucherCode, order.VoucherDiscount,
			address, order.PaymentMethod, order.PaymentChannel, order.Notes,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, free_item)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem,
				order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.FreeItem); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) decrementStock(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	requested := make(map[string]int)
	var ids []string
	for _, item := range items {
		if _, seen := requested[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	const decrement = `UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`
	var shortages []domainErrors.StockShortage
	for _, id := range ids {
		tag, err := tx.Exec(ctx, decrement, id, requested[id])
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			continue
		}

		var name string
		var available int
		err = tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1`, id).Scan(&name, &available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				shortages = append(shortages, domainErrors.StockShortage{ProductID: id, Name: id, Requested: requested[id]})
				continue
			}
			return err
		}
		shortages = append(shortages, domainErrors.StockShortage{
			ProductID: id,
			Name:      name,
			Requested: requested[id],
			Available: available,
		})
	}
	if len(shortages) > 0 {
		return &domainErrors.StockError{Shortages: shortages}
	}
	return nil
}

func (r *orderRepository) consumeVoucher(ctx context.Context, tx pgx.Tx, code string) error {
	const consume = `UPDATE vouchers SET used_count = used_count + 1
                     WHERE code=$1 AND active AND (usage_limit IS NULL OR used_count < usage_limit)`
	tag, err := tx.Exec(ctx, consume, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Campaign codes have no usage counter; anything else has run out
	// between quoting and commit.
	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM campaigns WHERE code=$1)`, code).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return &domainErrors.VoucherError{
		Reason:  domainErrors.VoucherLimitReached,
		Message: "voucher usage limit reached",
	}
}

const orderColumns = `id, user_id, number, status, total_amount, shipping_fee, voucher_code,
                      voucher_discount, shipping_address, payment_method, payment_channel, notes,
                      cancel_reason, cancel_detail, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var address []byte
	err := row.Scan(&o.ID, &o.UserID, &o.Number, &o.Status, &o.TotalAmount, &o.ShippingFee,
		&o.VoucherCode, &o.VoucherDiscount, &address, &o.PaymentMethod, &o.PaymentChannel,
		&o.Notes, &o.CancelReason, &o.CancelDetail, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Order, len(result))
	for i := range result {
		refs[i] = &result[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	const query = `SELECT order_id, product_id, name, unit_price, quantity, free_item
                   FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.FreeItem); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

// UpdateStatusIf moves an order between two statuses only when it is still in
// the expected one, reporting whether the row moved. Competing writers race
// through this predicate; at most one wins.
func (r *orderRepository) UpdateStatusIf(ctx context.Context, number string, from, to model.OrderStatus) (bool, error) {
	const query = `UPDATE orders SET status=$3, updated_at=NOW() WHERE number=$1 AND status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, number, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) RequestCancellation(ctx context.Context, number string, from model.OrderStatus, reason, detail string) (bool, error) {
	const query = `UPDATE orders SET status=$3, cancel_reason=$4, cancel_detail=$5, updated_at=NOW()
                   WHERE number=$1 AND status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, number, from, model.OrderStatusPendingCancellation, reason, detail)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) SelectStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status=$1 AND updated_at < $2
              ORDER BY updated_at
              LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, model.OrderStatusPendingPayment, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

// --- ProductRepository implementation ---

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	result := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const query = `SELECT id, name, price, stock FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- VoucherRepository implementation ---

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	const query = `SELECT code, discount_type, value, max_discount, min_purchase, usage_limit,
                          used_count, valid_from, expires_at, active
                   FROM vouchers WHERE code=$1`
	var v model.Voucher
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(
		&v.Code, &v.Type, &v.Value, &v.MaxDiscount, &v.MinPurchase,
		&v.UsageLimit, &v.UsedCount, &v.ValidFrom, &v.ExpiresAt, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// --- CampaignRepository implementation ---

func (r *campaignRepository) GetByCode(ctx context.Context, code string) (*model.Campaign, error) {
	const query = `SELECT code, percent, valid_from, valid_to, active FROM campaigns WHERE code=$1`
	var c model.Campaign
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(&c.Code, &c.Percent, &c.ValidFrom, &c.ValidTo, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// --- OfferRuleRepository implementation ---

func (r *offerRuleRepository) List(ctx context.Context) ([]model.OfferRule, error) {
	const query = `SELECT id, min_units, free_shipping, free_product_id, free_quantity
                   FROM offer_rules ORDER BY min_units DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OfferRule
	for rows.Next() {
		var rule model.OfferRule
		if err := rows.Scan(&rule.ID, &rule.MinUnits, &rule.FreeShipping, &rule.FreeProductID, &rule.FreeQuantity); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}

// --- SettingRepository implementation ---

func (r *settingRepository) ShippingFee(ctx context.Context) (decimal.Decimal, error) {
	const query = `SELECT value FROM settings WHERE key='shipping_fee'`
	var raw string
	err := r.storage.pool.QueryRow(ctx, query).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrors.ErrNotFound
		}
		return decimal.Zero, err
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse shipping fee: %w", err)
	}
	return fee, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes the underlying connection pool.
func (s *Storage) Pool() DBPool {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruitlog/internal/platform/database/schema"
	"github.com/taibuivan/fruitlog/internal/platform/postgres"
)

// # Repository Implementations

// PostgresLedger implements [Ledger] on logistics.truck and logistics.stock.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger creates a new Postgres implementation of the truck ledger.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

var (
	truckColumns = schema.LogisticsTruck.Columns()
	stockColumns = schema.LogisticsStock.Columns()

	selectTruck = fmt.Sprintf(`SELECT %s FROM %s`, schema.List(truckColumns), schema.LogisticsTruck.Table)
	selectStock = fmt.Sprintf(`SELECT %s FROM %s`, schema.List(stockColumns), schema.LogisticsStock.Table)
)

// rowQueryer is satisfied by both the pool and a transaction.
type rowQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanTruck(row pgx.Row) (*Truck, error) {
	truck := &Truck{}
	err := row.Scan(
		&truck.ID,
		&truck.Origin,
		&truck.Driver,
		&truck.Phone,
		&truck.Articles,
		&truck.Hangar,
		&truck.Status,
		&truck.RegisteredAt,
		&truck.RegisteredBy,
		&truck.ArrivedAt,
		&truck.UnloadedAt,
		&truck.UnloadedBy,
		&truck.UpdatedAt,
	)
	return truck, err
}

func scanStock(row pgx.Row) (*Stock, error) {
	stock := &Stock{}
	err := row.Scan(
		&stock.ID,
		&stock.Name,
		&stock.Hangar,
		&stock.Quantity,
		&stock.Unit,
		&stock.UnitPrice,
		&stock.TotalValue,
		&stock.Threshold,
		&stock.LastTruckID,
		&stock.Origin,
		&stock.Driver,
		&stock.CreatedAt,
		&stock.UpdatedAt,
	)
	return stock, err
}

func (ledger *PostgresLedger) ListTrucks(context context.Context) ([]Truck, error) {
	query := selectTruck + fmt.Sprintf(` ORDER BY %s ASC`, schema.LogisticsTruck.RegisteredAt)

	rows, err := ledger.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_truck_list_failed: %w", err)
	}
	defer rows.Close()

	trucks := []Truck{}
	for rows.Next() {
		truck, err := scanTruck(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_truck_scan_failed: %w", err)
		}
		trucks = append(trucks, *truck)
	}

	return trucks, rows.Err()
}

func (ledger *PostgresLedger) FindTruck(context context.Context, id string) (*Truck, error) {
	return findTruck(context, ledger.pool, id, false)
}

func (ledger *PostgresLedger) ListStocks(context context.Context) ([]Stock, error) {
	query := selectStock + fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, schema.LogisticsStock.Hangar, schema.LogisticsStock.Name)

	rows, err := ledger.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_stock_list_failed: %w", err)
	}
	defer rows.Close()

	stocks := []Stock{}
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_stock_scan_failed: %w", err)
		}
		stocks = append(stocks, *stock)
	}

	return stocks, rows.Err()
}

// Atomically runs fn inside one read-committed transaction.
func (ledger *PostgresLedger) Atomically(context context.Context, fn func(tx Tx) error) error {
	return postgres.WithinTx(context, ledger.pool, func(tx pgx.Tx) error {
		return fn(&postgresTx{tx: tx})
	})
}

// postgresTx locks every row it reads until the transaction ends.
type postgresTx struct {
	tx pgx.Tx
}

func (tx *postgresTx) FindTruck(context context.Context, id string) (*Truck, error) {
	return findTruck(context, tx.tx, id, true)
}

func (tx *postgresTx) SaveTruck(context context.Context, truck *Truck) error {
	t := schema.LogisticsTruck
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		t.Table, schema.List(truckColumns), t.ID,
		t.Origin, t.Origin, t.Driver, t.Driver, t.Phone, t.Phone, t.Articles, t.Articles,
		t.Hangar, t.Hangar, t.Status, t.Status, t.ArrivedAt, t.ArrivedAt, t.UnloadedAt, t.UnloadedAt,
		t.UnloadedBy, t.UnloadedBy, t.UpdatedAt, t.UpdatedAt,
	)

	articles := truck.Articles
	if articles == nil {
		articles = []Article{}
	}

	_, err := tx.tx.Exec(context, query,
		truck.ID, truck.Origin, truck.Driver, truck.Phone, articles, truck.Hangar, truck.Status,
		truck.RegisteredAt, truck.RegisteredBy, truck.ArrivedAt, truck.UnloadedAt, truck.UnloadedBy, truck.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_truck_save_failed: %w", err)
	}
	return nil
}

/*
FindStock reads the (name, hangar) row with FOR UPDATE.

A transaction-scoped advisory lock on the pair is taken first, so two
operations reconciling a not-yet-existing article cannot both create it.
*/
func (tx *postgresTx) FindStock(context context.Context, name, hangar string) (*Stock, error) {
	name, hangar = Normalize(name), Normalize(hangar)

	if _, err := tx.tx.Exec(context, `SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))`, name, hangar); err != nil {
		return nil, fmt.Errorf("postgres_stock_lock_failed: %w", err)
	}

	query := selectStock + fmt.Sprintf(` WHERE %s = $1 AND %s = $2 FOR UPDATE`,
		schema.LogisticsStock.Name, schema.LogisticsStock.Hangar)

	stock, err := scanStock(tx.tx.QueryRow(context, query, name, hangar))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoStock
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_stock_find_failed: %w", err)
	}

	return stock, nil
}

func (tx *postgresTx) SaveStock(context context.Context, stock *Stock) error {
	s := schema.LogisticsStock
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		s.Table, schema.List(stockColumns), s.ID,
		s.Quantity, s.Quantity, s.Unit, s.Unit, s.UnitPrice, s.UnitPrice, s.TotalValue, s.TotalValue,
		s.Threshold, s.Threshold, s.LastTruckID, s.LastTruckID, s.UpdatedAt, s.UpdatedAt,
	)

	_, err := tx.tx.Exec(context, query,
		stock.ID, stock.Name, stock.Hangar, stock.Quantity, stock.Unit, stock.UnitPrice, stock.TotalValue,
		stock.Threshold, stock.LastTruckID, stock.Origin, stock.Driver, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_stock_save_failed: %w", err)
	}
	return nil
}

func findTruck(context context.Context, db rowQueryer, id string, lock bool) (*Truck, error) {
	query := selectTruck + fmt.Sprintf(` WHERE %s = $1`, schema.LogisticsTruck.ID)
	if lock {
		query += ` FOR UPDATE`
	}

	truck, err := scanTruck(db.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTruckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_truck_find_failed: %w", err)
	}

	return truck, nil
}

// Package db keeps the energy statistics in PostgreSQL.
package db

import (
	"context"
	"energydash/internal/models"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var schema = []string{
	heredoc.Doc(`
		CREATE TABLE IF NOT EXISTS regions (
			region_id   INT PRIMARY KEY,
			region_name VARCHAR(20) NOT NULL
		)`),
	heredoc.Doc(`
		CREATE TABLE IF NOT EXISTS energy_consumption (
			id                   SERIAL PRIMARY KEY,
			region_id            INT REFERENCES regions (region_id),
			financial_start_year INT NOT NULL,
			electricity_usage    DOUBLE PRECISION,
			gas_usage            DOUBLE PRECISION,
			UNIQUE (region_id, financial_start_year)
		)`),
	heredoc.Doc(`
		CREATE TABLE IF NOT EXISTS energy_generation (
			id                              SERIAL PRIMARY KEY,
			region_id                       INT REFERENCES regions (region_id),
			financial_start_year            INT NOT NULL,
			non_renewable_electricity_total DOUBLE PRECISION,
			renewable_electricity_total     DOUBLE PRECISION,
			total_electricity_generation    DOUBLE PRECISION,
			total_gas_generation            DOUBLE PRECISION,
			UNIQUE (region_id, financial_start_year)
		)`),
}

var (
	insertRegion = heredoc.Doc(`
		INSERT INTO regions (region_id, region_name) VALUES ($1, $2)
		ON CONFLICT (region_id) DO UPDATE SET region_name = EXCLUDED.region_name`)
	insertConsumption = heredoc.Doc(`
		INSERT INTO energy_consumption (region_id, financial_start_year, electricity_usage, gas_usage)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (region_id, financial_start_year) DO UPDATE
		SET electricity_usage = EXCLUDED.electricity_usage, gas_usage = EXCLUDED.gas_usage`)
	insertGeneration = heredoc.Doc(`
		INSERT INTO energy_generation (region_id, financial_start_year, non_renewable_electricity_total,
			renewable_electricity_total, total_electricity_generation, total_gas_generation)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (region_id, financial_start_year) DO UPDATE
		SET non_renewable_electricity_total = EXCLUDED.non_renewable_electricity_total,
			renewable_electricity_total = EXCLUDED.renewable_electricity_total,
			total_electricity_generation = EXCLUDED.total_electricity_generation,
			total_gas_generation = EXCLUDED.total_gas_generation`)
	// Generation rows drive the join: a year with generation but no
	// consumption still shows up, with zero usage.
	selectObservations = heredoc.Doc(`
		SELECT r.region_id, g.financial_start_year,
			coalesce(c.electricity_usage, 0), coalesce(c.gas_usage, 0),
			coalesce(g.non_renewable_electricity_total, 0), coalesce(g.renewable_electricity_total, 0),
			coalesce(g.total_electricity_generation, 0), coalesce(g.total_gas_generation, 0)
		FROM energy_generation g
		JOIN regions r ON r.region_id = g.region_id
		LEFT JOIN energy_consumption c
			ON c.region_id = g.region_id AND c.financial_start_year = g.financial_start_year
		ORDER BY r.region_id, g.financial_start_year`)
)

var ErrNoRows = errors.New("no observations stored")

// Store reads and writes observations through a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Ingest writes regions and every observation in one transaction.
// Existing rows for the same region and year are replaced.
func (s *Store) Ingest(ctx context.Context, obs []models.Observation) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		// Regions first, otherwise the foreign keys fail.
		for _, r := range models.Regions {
			if _, err := tx.Exec(ctx, insertRegion, r.ID, r.Name); err != nil {
				return fmt.Errorf("insert region %s: %w", r.Name, err)
			}
		}
		for _, o := range obs {
			tag, err := tx.Exec(ctx, insertConsumption, o.RegionID, o.StartYear, o.ElectricityUsage, o.GasUsage)
			if err != nil {
				return fmt.Errorf("insert consumption %d/%d: %w", o.RegionID, o.StartYear, err)
			}
			if tag.RowsAffected() != 1 {
				return fmt.Errorf("insert consumption %d/%d: affected rows %d", o.RegionID, o.StartYear, tag.RowsAffected())
			}
			tag, err = tx.Exec(ctx, insertGeneration, o.RegionID, o.StartYear,
				o.NonRenewableElec, o.RenewableElec, o.TotalElecGenerate, o.TotalGasGenerate)
			if err != nil {
				return fmt.Errorf("insert generation %d/%d: %w", o.RegionID, o.StartYear, err)
			}
			if tag.RowsAffected() != 1 {
				return fmt.Errorf("insert generation %d/%d: affected rows %d", o.RegionID, o.StartYear, tag.RowsAffected())
			}
		}
		return nil
	})
}

// Observations returns every stored region/year, ordered by region then year.
func (s *Store) Observations(ctx context.Context) ([]models.Observation, error) {
	rows, err := s.pool.Query(ctx, selectObservations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Observation
	for rows.Next() {
		var o models.Observation
		err := rows.Scan(&o.RegionID, &o.StartYear,
			&o.ElectricityUsage, &o.GasUsage,
			&o.NonRenewableElec, &o.RenewableElec,
			&o.TotalElecGenerate, &o.TotalGasGenerate)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store spina pulę połączeń pgx z zapytaniami. Metody wieloetapowe
// (limity pakietów, zapis detekcji) przechodzą przez ExecTx, reszta
// działa bezpośrednio na puli przez osadzone Queries.
type Store struct {
	pool *pgxpool.Pool
	*Queries
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		Queries: New(pool),
	}
}

// ExecTx wykonuje fn na zapytaniach przypiętych do świeżej transakcji.
// Błąd fn wycofuje całość, w przeciwnym razie transakcja jest zatwierdzana.
func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}

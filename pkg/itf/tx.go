package itf

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// NopTx satisfies pgx.Tx without any database behind it. Injecting it into
// a test context makes transactional service helpers run their callbacks
// directly, which is what in-memory repository tests want.
type NopTx struct{}

var _ pgx.Tx = NopTx{}

func (NopTx) Begin(_ context.Context) (pgx.Tx, error) { return NopTx{}, nil }
func (NopTx) Commit(_ context.Context) error          { return nil }
func (NopTx) Rollback(_ context.Context) error        { return nil }

func (NopTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (NopTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (NopTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }

func (NopTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (NopTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (NopTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (NopTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (NopTx) Conn() *pgx.Conn                                               { return nil }

package pgsql_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/repositories/database/pgsql"
	"github.com/invobook/invobook/pkg/database"
)

// testPool connects to the database named by PGSQL_TEST_URL, skipping the
// test when it is unset. The target database must have the migrations
// applied.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("PGSQL_TEST_URL")
	if dbURL == "" {
		t.Skip("PGSQL_TEST_URL not set, skipping database test")
	}

	pool, err := database.NewPgxPool(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { database.ClosePgxPool(pool) })

	return pool
}

func TestIssueInvoiceNumber_ConcurrentIssuanceIsUnique(t *testing.T) {
	ctx := context.Background()
	repos := pgsql.NewRepositoryProvider(testPool(t))

	now := time.Now().UTC()
	prefix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	payee := domain.Payee{
		PayeeID:           uuid.NewString(),
		Name:              "Concurrent Issuance Payee",
		InvoicingPrefix:   prefix,
		NextInvoiceNumber: 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "test",
			LastUpdatedAt: now,
			LastUpdatedBy: "test",
		},
	}
	require.NoError(t, repos.PayeeRepo.SavePayee(ctx, payee))

	const workers = 8
	sequences := make(chan int64, workers)
	failures := make(chan error, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx, err := repos.PayeeRepo.Begin(ctx)
			if err != nil {
				failures <- err
				return
			}
			_, seq, err := repos.PayeeRepo.IssueInvoiceNumberInTx(ctx, tx, payee.PayeeID, "test", time.Now().UTC())
			if err != nil {
				_ = repos.PayeeRepo.Rollback(ctx, tx)
				failures <- err
				return
			}
			if err := repos.PayeeRepo.Commit(ctx, tx); err != nil {
				failures <- err
				return
			}
			sequences <- seq
		}()
	}
	wg.Wait()
	close(sequences)
	close(failures)

	for err := range failures {
		require.NoError(t, err)
	}

	seen := make(map[int64]bool)
	for seq := range sequences {
		require.Falsef(t, seen[seq], "sequence %d issued twice", seq)
		seen[seq] = true
	}
	require.Len(t, seen, workers)

	stored, err := repos.PayeeRepo.FindPayeeByID(ctx, payee.PayeeID)
	require.NoError(t, err)
	require.Equal(t, int64(workers+1), stored.NextInvoiceNumber)
}

func TestIssueInvoiceNumber_RollbackReleasesNumber(t *testing.T) {
	ctx := context.Background()
	repos := pgsql.NewRepositoryProvider(testPool(t))

	now := time.Now().UTC()
	prefix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	payee := domain.Payee{
		PayeeID:           uuid.NewString(),
		Name:              "Rollback Payee",
		InvoicingPrefix:   prefix,
		NextInvoiceNumber: 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "test",
			LastUpdatedAt: now,
			LastUpdatedBy: "test",
		},
	}
	require.NoError(t, repos.PayeeRepo.SavePayee(ctx, payee))

	tx, err := repos.PayeeRepo.Begin(ctx)
	require.NoError(t, err)
	gotPrefix, seq, err := repos.PayeeRepo.IssueInvoiceNumberInTx(ctx, tx, payee.PayeeID, "test", time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, prefix, gotPrefix)
	require.Equal(t, int64(1), seq)
	require.NoError(t, repos.PayeeRepo.Rollback(ctx, tx))

	// the rolled back claim never burned the number
	tx, err = repos.PayeeRepo.Begin(ctx)
	require.NoError(t, err)
	_, seq, err = repos.PayeeRepo.IssueInvoiceNumberInTx(ctx, tx, payee.PayeeID, "test", time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, int64(1), seq)
	require.NoError(t, repos.PayeeRepo.Commit(ctx, tx))
}

package integration

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent withdrawals against one account must serialize: no amount
// of interleaving may overdraw the balance or lose an update.
func TestConcurrency_ParallelWithdrawals(t *testing.T) {
	app := newTestApp(t)

	number := app.register(t, "Alice Smith", "1234", 100_00)
	token := app.login(t, number, "1234")

	const workers = 10
	var succeeded, rejected atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, body := app.post(t, "/api/v1/transactions/withdraw", token, map[string]interface{}{
				"amount": 20_00,
			})
			switch resp.StatusCode {
			case http.StatusCreated:
				succeeded.Add(1)
			case http.StatusPaymentRequired:
				rejected.Add(1)
			default:
				t.Errorf("unexpected status %d: %v", resp.StatusCode, body)
			}
		}()
	}
	wg.Wait()

	// 100.00 / 20.00: exactly five can succeed
	assert.Equal(t, int64(5), succeeded.Load())
	assert.Equal(t, int64(5), rejected.Load())

	_, balBody := app.get(t, "/api/v1/accounts/me/balance", token)
	assert.Equal(t, float64(0), balBody["data"].(map[string]interface{})["balance"])
}

// Mixed deposits and withdrawals must leave the balance equal to the
// net of the operations that succeeded.
func TestConcurrency_MixedDepositsAndWithdrawals(t *testing.T) {
	app := newTestApp(t)

	number := app.register(t, "Alice Smith", "1234", 1_000_00)
	token := app.login(t, number, "1234")

	const pairs = 8
	var wg sync.WaitGroup

	for i := 0; i < pairs; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, _ := app.post(t, "/api/v1/transactions/deposit", token, map[string]interface{}{
				"amount": 10_00,
			})
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
		}()
		go func() {
			defer wg.Done()
			resp, _ := app.post(t, "/api/v1/transactions/withdraw", token, map[string]interface{}{
				"amount": 10_00,
			})
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
		}()
	}
	wg.Wait()

	_, balBody := app.get(t, "/api/v1/accounts/me/balance", token)
	assert.Equal(t, float64(1_000_00), balBody["data"].(map[string]interface{})["balance"])

	// The ledger recorded every movement
	_, histBody := app.get(t, "/api/v1/accounts/me/transactions?limit=100", token)
	items := histBody["data"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 2*pairs+1) // plus the initial deposit
}

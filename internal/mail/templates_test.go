package mail

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"8000":       "8,000",
		"42000.5":    "42,000.5",
		"1234567.89": "1,234,567.89",
		"-500":       "-500",
		"0":          "0",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "16.0", FormatPercent(16))
	assert.Equal(t, "83.3", FormatPercent(83.33333))
	assert.Equal(t, "-2.5", FormatPercent(-2.5))
}

func TestLowBalance(t *testing.T) {
	subject, body, err := LowBalance(LowBalanceData{
		Name:         "Asha <script>",
		Salary:       decimal.NewFromInt(50000),
		TotalSpent:   decimal.NewFromInt(42000),
		Remaining:    decimal.NewFromInt(8000),
		Percentage:   16,
		Threshold:    decimal.NewFromInt(10000),
		DashboardURL: DashboardURL("https://app.example.com/"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Critical: Low Balance Alert - 16.0% Remaining", subject)
	assert.Contains(t, body, "50,000")
	assert.Contains(t, body, "42,000")
	assert.Contains(t, body, "8,000")
	assert.Contains(t, body, "10,000")
	assert.Contains(t, body, "16.0%")
	assert.Contains(t, body, "https://app.example.com/dashboard")
	assert.Contains(t, body, DefaultAppName)
	assert.NotContains(t, body, "<script>", "names must be escaped")
}

func TestWelcomeAndTest(t *testing.T) {
	subject, body, err := Welcome(WelcomeData{AppName: "Ledger", Name: "Ravi", DashboardURL: "http://x/dashboard"})
	require.NoError(t, err)
	assert.Contains(t, subject, "Welcome to Ledger")
	assert.Contains(t, body, "Hi Ravi")

	subject, body, err = Test(TestData{SentAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "Test Email from "+DefaultAppName, subject)
	assert.Contains(t, body, "2026-10-18 09:00:00 UTC")
}

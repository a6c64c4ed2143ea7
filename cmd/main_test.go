package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"debt-ledger/internal/config"
	"debt-ledger/internal/domain"
)

func useTestConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = config.AppConfig{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
	}
}

func seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := openStore(ctx, cfg)
	require.NoError(t, err)
	defer conn.DB().Close()

	svc := newServices(conn)
	id, err := svc.debtors.CreateDebtor(ctx, domain.DebtorInput{Name: "홍길동", DebtAmount: 1_500_000})
	require.NoError(t, err)
	_, err = svc.payments.CreatePayment(ctx, domain.PaymentInput{DebtorID: id, Amount: 500_000, PaymentDate: mustDate(t, "2024-03-01")})
	require.NoError(t, err)
}

func TestMigrateTwice(t *testing.T) {
	useTestConfig(t)

	for i := 0; i < 2; i++ {
		c := migrateCmd()
		c.SetArgs([]string{})
		require.NoError(t, c.Execute())
	}
}

func TestStatsCommand(t *testing.T) {
	useTestConfig(t)
	seed(t)

	var out bytes.Buffer
	c := statsCmd()
	c.SetOut(&out)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())

	assert.Contains(t, out.String(), "1,500,000원")
	assert.Contains(t, out.String(), "1,000,000원")
	assert.Contains(t, out.String(), "33%")
}

func TestReportCommand(t *testing.T) {
	useTestConfig(t)
	seed(t)
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	c := reportCmd()
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"--out", path})
	require.NoError(t, c.Execute())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("채무자", "B2")
	require.NoError(t, err)
	assert.Equal(t, "홍길동", name)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

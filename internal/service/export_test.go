package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"debt-ledger/internal/clients"
	"debt-ledger/internal/domain"
)

type recordingNotifier struct {
	mu       sync.Mutex
	progress []float64
	complete []string
	failed   []string
}

func (n *recordingNotifier) NotifyExportProgress(_ context.Context, _ string, progress float64, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = append(n.progress, progress)
	return nil
}

func (n *recordingNotifier) NotifyExportComplete(_ context.Context, _, url, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.complete = append(n.complete, url)
	return nil
}

func (n *recordingNotifier) NotifyExportFailed(_ context.Context, _, errMsg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, errMsg)
	return nil
}

func waitDone(t *testing.T, svc *ExportService, id string) *ExportStatus {
	t.Helper()
	var st *ExportStatus
	require.Eventually(t, func() bool {
		var err error
		st, err = svc.GetExport(context.Background(), id)
		return err == nil && st.Done()
	}, 5*time.Second, 10*time.Millisecond)
	return st
}

func TestDebtorsExport_WritesWorkbook(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	id := env.mustDebtor(t, "홍길동", 1_000_000)
	env.mustPay(t, id, 400_000)

	storage, err := clients.NewLocalStorage(t.TempDir(), "/files", "")
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	svc := NewExportService(env.debtors, env.paymentsDB, NewMemoryStatusStore(), storage, notifier)

	exportID, err := svc.StartDebtorsExport(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, exportID)

	st := waitDone(t, svc, exportID)
	require.Nil(t, st.Error)
	require.NotNil(t, st.FileURL)
	assert.Equal(t, "ready", st.Stage)
	assert.Contains(t, st.FileName, "debtors_")

	// the status is saved before subscribers are told
	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.complete) == 1
	}, time.Second, 5*time.Millisecond)
	notifier.mu.Lock()
	assert.Equal(t, []string{*st.FileURL}, notifier.complete)
	assert.Empty(t, notifier.failed)
	assert.Equal(t, float64(100), notifier.progress[len(notifier.progress)-1])
	notifier.mu.Unlock()

	filePath, err := storage.Open(path.Base(*st.FileURL))
	require.NoError(t, err)
	data, err := os.ReadFile(filePath)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetDebtors, sheetPayments, sheetSummary}, f.GetSheetList())

	cell := func(sheet, name string) string {
		v, err := f.GetCellValue(sheet, name)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "이름", cell(sheetDebtors, "B1"))
	assert.Equal(t, "홍길동", cell(sheetDebtors, "B2"))
	assert.Equal(t, "1000000", cell(sheetDebtors, "F2"))
	assert.Equal(t, "400000", cell(sheetDebtors, "G2"))
	assert.Equal(t, "600000", cell(sheetDebtors, "H2"))
	assert.Equal(t, "40", cell(sheetDebtors, "I2"))

	assert.Equal(t, "홍길동", cell(sheetPayments, "C2"))
	assert.Equal(t, "2024-06-01", cell(sheetPayments, "D2"))
	assert.Equal(t, "400000", cell(sheetPayments, "E2"))
	assert.Equal(t, "계좌입금", cell(sheetPayments, "F2"))

	assert.Equal(t, "1명", cell(sheetSummary, "C2"))
	assert.Equal(t, "1,000,000원", cell(sheetSummary, "C3"))
	assert.Equal(t, "400,000원", cell(sheetSummary, "C4"))
	assert.Equal(t, "600,000원", cell(sheetSummary, "C5"))
	assert.Equal(t, "0건", cell(sheetSummary, "C6"))
	assert.Equal(t, "40%", cell(sheetSummary, "C7"))
}

type failingDebtors struct{}

func (failingDebtors) ListDebtors(context.Context) ([]domain.DebtorSummary, error) {
	return nil, errors.New("database is locked")
}

type noPayments struct{}

func (noPayments) List(context.Context) ([]domain.Payment, error) { return nil, nil }

type unusedStorage struct{}

func (unusedStorage) Save(context.Context, string, []byte) (string, error) {
	return "", errors.New("should not be called")
}

func (unusedStorage) URL(context.Context, string) (string, error) { return "", nil }

func TestDebtorsExport_ReportsFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewExportService(failingDebtors{}, noPayments{}, NewMemoryStatusStore(), unusedStorage{}, notifier)

	exportID, err := svc.StartDebtorsExport(context.Background())
	require.NoError(t, err)

	st := waitDone(t, svc, exportID)
	require.NotNil(t, st.Error)
	assert.Contains(t, *st.Error, "database is locked")
	assert.Equal(t, "failed", st.Stage)
	assert.Nil(t, st.FileURL)

	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.failed) == 1
	}, time.Second, 5*time.Millisecond)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Empty(t, notifier.complete)
}

func TestGetExport_Unknown(t *testing.T) {
	svc := NewExportService(failingDebtors{}, noPayments{}, NewMemoryStatusStore(), unusedStorage{}, nil)

	_, err := svc.GetExport(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrExportNotFound)
}

func TestMemoryStatusStore_ExpiresAndSorts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStatusStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &ExportStatus{Key: "old", Created: now.Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, &ExportStatus{Key: "new", Created: now}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Key)
	assert.Equal(t, "old", list[1].Key)

	now = now.Add(exportTTL + time.Second)

	_, err = store.Get(ctx, "new")
	assert.ErrorIs(t, err, ErrExportNotFound)
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"debt-ledger/internal/domain"
	"debt-ledger/internal/ledger"
)

type DebtorLister interface {
	ListDebtors(ctx context.Context) ([]domain.DebtorSummary, error)
}

type PaymentLister interface {
	List(ctx context.Context) ([]domain.Payment, error)
}

type FileStorage interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
	URL(ctx context.Context, fileName string) (string, error)
}

type ExportNotifier interface {
	NotifyExportProgress(ctx context.Context, exportID string, progress float64, stage string) error
	NotifyExportComplete(ctx context.Context, exportID, url, filename string) error
	NotifyExportFailed(ctx context.Context, exportID, errMsg string) error
}

const (
	sheetDebtors  = "채무자"
	sheetPayments = "상환기록"
	sheetSummary  = "요약"

	exportTypeDebtors = "debtors"
	progressChunk     = 200
)

type debtorColumn struct {
	Header string
	Value  func(d domain.DebtorSummary) any
}

var debtorColumns = []debtorColumn{
	{"ID", func(d domain.DebtorSummary) any { return d.ID }},
	{"이름", func(d domain.DebtorSummary) any { return d.Name }},
	{"연락처", func(d domain.DebtorSummary) any { return strOrEmpty(d.Phone) }},
	{"주소", func(d domain.DebtorSummary) any { return strOrEmpty(d.Address) }},
	{"원 사건번호", func(d domain.DebtorSummary) any { return strOrEmpty(d.OriginalCaseNumber) }},
	{"채권액", func(d domain.DebtorSummary) any { return d.DebtAmount }},
	{"상환액", func(d domain.DebtorSummary) any { return d.PaidAmount }},
	{"잔액", func(d domain.DebtorSummary) any { return d.RemainingAmount }},
	{"상환율(%)", func(d domain.DebtorSummary) any {
		return math.Round(ledger.RepaymentRate(d.DebtAmount, d.PaidAmount)*10) / 10
	}},
	{"강제집행 건수", func(d domain.DebtorSummary) any { return len(d.Procedures) }},
	{"진행중 절차", func(d domain.DebtorSummary) any { return ledger.ActiveCount(d.Procedures) }},
	{"승소일", func(d domain.DebtorSummary) any { return dateOrEmpty(d.VictoryDate) }},
	{"등록일", func(d domain.DebtorSummary) any { return d.CreatedAt.Format("2006-01-02 15:04") }},
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

type ExportService struct {
	debtors  DebtorLister
	payments PaymentLister
	statuses StatusStore
	files    FileStorage
	notifier ExportNotifier
}

func NewExportService(debtors DebtorLister, payments PaymentLister, statuses StatusStore, files FileStorage, notifier ExportNotifier) *ExportService {
	return &ExportService{
		debtors:  debtors,
		payments: payments,
		statuses: statuses,
		files:    files,
		notifier: notifier,
	}
}

// StartDebtorsExport registers a new export and builds it in the background.
func (s *ExportService) StartDebtorsExport(ctx context.Context) (string, error) {
	exportID := uuid.NewString()
	status := &ExportStatus{
		Key:     exportID,
		Type:    exportTypeDebtors,
		Stage:   "queued",
		Created: time.Now(),
	}
	if err := s.statuses.Save(ctx, status); err != nil {
		return "", fmt.Errorf("failed to save export status: %w", err)
	}

	go s.runDebtorsExport(context.Background(), status)

	return exportID, nil
}

func (s *ExportService) progress(ctx context.Context, st *ExportStatus, progress float64, stage string) {
	st.Progress = progress
	st.Stage = stage
	if err := s.statuses.Save(ctx, st); err != nil {
		slog.WarnContext(ctx, "failed to save export status", "export_id", st.Key, "error", err)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyExportProgress(ctx, st.Key, progress, stage)
	}
}

func (s *ExportService) fail(ctx context.Context, st *ExportStatus, err error) {
	msg := err.Error()
	slog.ErrorContext(ctx, "export failed", "export_id", st.Key, "error", err)
	st.Error = &msg
	st.Progress = 100
	st.Stage = "failed"
	_ = s.statuses.Save(ctx, st)
	if s.notifier != nil {
		_ = s.notifier.NotifyExportFailed(ctx, st.Key, msg)
	}
}

func (s *ExportService) runDebtorsExport(ctx context.Context, st *ExportStatus) {
	data, err := s.BuildWorkbook(ctx, func(p float64) { s.progress(ctx, st, p, "generating") })
	if err != nil {
		s.fail(ctx, st, err)
		return
	}

	s.progress(ctx, st, 95, "uploading")

	fileName := fmt.Sprintf("debtors_%s.xlsx", time.Now().Format("20060102_150405"))
	saved, err := s.files.Save(ctx, fileName, data)
	if err != nil {
		s.fail(ctx, st, fmt.Errorf("save export failed: %w", err))
		return
	}
	url, err := s.files.URL(ctx, saved)
	if err != nil {
		s.fail(ctx, st, fmt.Errorf("build export url failed: %w", err))
		return
	}

	st.FileURL = &url
	st.FileName = fileName
	s.progress(ctx, st, 100, "ready")
	if s.notifier != nil {
		_ = s.notifier.NotifyExportComplete(ctx, st.Key, url, fileName)
	}
}

// BuildWorkbook renders the debtor ledger: one sheet of debtors with derived
// amounts, one of payments and a portfolio summary. onProgress, if set, is
// called with values below 95 while rows are written.
func (s *ExportService) BuildWorkbook(ctx context.Context, onProgress func(float64)) ([]byte, error) {
	debtors, err := s.debtors.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetDebtors); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetPayments); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Creator: "debt-ledger", Title: "채무자 현황"})

	for i, col := range debtorColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetDebtors, cell, col.Header)
	}

	names := make(map[int64]string, len(debtors))
	total := len(debtors) + len(payments)
	written := 0
	report := func() {
		written++
		if onProgress == nil || total == 0 {
			return
		}
		if written%progressChunk == 0 || written == total {
			p := math.Round(float64(written) / float64(total) * 90)
			onProgress(p)
		}
	}

	for rowIdx, d := range debtors {
		names[d.ID] = d.Name
		for colIdx, col := range debtorColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheetDebtors, cell, col.Value(d))
		}
		report()
	}

	paymentHeaders := []string{"ID", "채무자 ID", "채무자", "상환일", "금액", "상환방법", "메모"}
	for i, h := range paymentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetPayments, cell, h)
	}
	for rowIdx, p := range payments {
		method := ""
		if p.PaymentMethod != nil {
			method = string(*p.PaymentMethod)
		}
		row := []any{p.ID, p.DebtorID, names[p.DebtorID], p.PaymentDate.Format("2006-01-02"), p.Amount, method, strOrEmpty(p.Notes)}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetPayments, cell, &row); err != nil {
			return nil, err
		}
		report()
	}

	if err := writeSummary(f, debtors, payments); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, debtors []domain.DebtorSummary, payments []domain.Payment) error {
	plain := make([]domain.Debtor, len(debtors))
	var procedures []domain.EnforcementProcedure
	for i, d := range debtors {
		plain[i] = d.Debtor
		procedures = append(procedures, d.Procedures...)
	}
	st := ledger.PortfolioStats(plain, payments, procedures)

	rows := [][]any{
		{"항목", "값", "표시"},
		{"총 채무자 수", st.TotalDebtors, fmt.Sprintf("%d명", st.TotalDebtors)},
		{"총 채권액", st.TotalDebtAmount, ledger.FormatWon(st.TotalDebtAmount)},
		{"총 상환액", st.TotalPaidAmount, ledger.FormatWon(st.TotalPaidAmount)},
		{"잔여 채권액", st.RemainingAmount, ledger.FormatWon(st.RemainingAmount)},
		{"진행중 강제집행", st.ActiveProcedures, fmt.Sprintf("%d건", st.ActiveProcedures)},
		{"전체 상환율", math.Round(ledger.PortfolioRate(st)*10) / 10, ledger.FormatRate(ledger.ProgressWidth(ledger.PortfolioRate(st)))},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) GetExports(ctx context.Context) ([]ExportStatus, error) {
	return s.statuses.List(ctx)
}

func (s *ExportService) GetExport(ctx context.Context, exportID string) (*ExportStatus, error) {
	return s.statuses.Get(ctx, exportID)
}

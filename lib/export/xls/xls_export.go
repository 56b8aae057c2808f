package xlsexport

import (
	"bytes"
	"procurement-backend/models"
	creditapimodels "procurement-backend/models/api/credit"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportLedgerEntries(list []creditapimodels.LedgerEntryView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var ledgerHeaders = []string{"Дата", "Направление", "Сумма", "Тип операции", "Ссылка", "Описание", "Инициатор"}

func (i impl) ExportLedgerEntries(list []creditapimodels.LedgerEntryView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, ledgerHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeLedgerData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Операции")
	return f.WriteToBuffer()
}

func writeLedgerData(f *excelize.File, sheet string, list []creditapimodels.LedgerEntryView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(ledgerHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Дата"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.UTC().Format("2006-01-02 15:04:05")); err != nil {
			return row, err
		}

		// "Направление"
		col++
		direction := "приход"
		if item.EntryType == models.LedgerEntryTypeDebit {
			direction = "расход"
		}
		if err := writeColumn(f, sheet, col, row, direction); err != nil {
			return row, err
		}

		// "Сумма"
		col++
		if err := writeColumn(f, sheet, col, row, item.Amount); err != nil {
			return row, err
		}

		// "Тип операции"
		col++
		if err := writeColumn(f, sheet, col, row, item.TransactionTypeName); err != nil {
			return row, err
		}

		// "Ссылка"
		col++
		if err := writeColumn(f, sheet, col, row, item.ReferenceID); err != nil {
			return row, err
		}

		// "Описание"
		col++
		if err := writeColumn(f, sheet, col, row, item.Description); err != nil {
			return row, err
		}

		// "Инициатор"
		col++
		if err := writeColumn(f, sheet, col, row, item.PerformedBy); err != nil {
			return row, err
		}
	}
	return row, nil
}

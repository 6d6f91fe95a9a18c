package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
)

const sheetName = "Transactions"

// BillsWorkbook renders bills into an xlsx workbook: one row per bill
// with its items flattened into a readable summary column. Amounts are
// written as strings so spreadsheet float handling cannot distort them.
func BillsWorkbook(bills []entity.Bill) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Bill ID", "Items", "Subtotal", "Tax", "Total", "Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for row, bill := range bills {
		values := []interface{}{
			bill.Date.Format("2006-01-02 15:04:05"),
			bill.ID.String(),
			itemsSummary(bill.Items),
			bill.Subtotal.StringFixed(2),
			bill.TaxAmount.StringFixed(2),
			bill.TotalAmount.StringFixed(2),
			bill.Status,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itemsSummary(items []entity.BillItem) string {
	summary := ""
	for i, item := range items {
		if i > 0 {
			summary += "; "
		}
		summary += fmt.Sprintf("%s x%d @ %s", item.Name, item.Quantity, item.Price.StringFixed(2))
	}
	return summary
}

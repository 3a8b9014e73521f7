package usecase

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/duetags/duetags/internal/domain"
)

// ExportUC produces the production-side artifacts of an order: the zip with
// the rendered etiquetas and the admin sales spreadsheet.
type ExportUC struct {
	Orders  domain.OrderRepo
	Exports domain.LabelExportRepo
	Storage domain.FileStorage
}

// ZipOrder streams a zip with every rendered etiqueta of the order into w.
func (uc *ExportUC) ZipOrder(ctx context.Context, orderID uuid.UUID, w io.Writer) error {
	exports, err := uc.Exports.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		return fmt.Errorf("%w: pedido %s sem etiquetas", domain.ErrNotFound, orderID)
	}
	zw := zip.NewWriter(w)
	for _, ex := range exports {
		data, err := uc.Storage.Open(ctx, ex.Path)
		if err != nil {
			zw.Close()
			return fmt.Errorf("abrindo etiqueta %s: %w", ex.Path, err)
		}
		fw, err := zw.Create(path.Base(ex.Path))
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := fw.Write(data); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

// OrdersXLSX builds the sales spreadsheet for the period [from, to].
func (uc *ExportUC) OrdersXLSX(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	orders, err := uc.Orders.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	const sheet = "Pedidos"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Pedido", "Data", "Cliente", "Email", "Status", "Itens", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Qty
		}
		values := []any{
			o.ID.String(),
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.Name,
			o.Email,
			string(o.Status),
			items,
			o.Total,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}

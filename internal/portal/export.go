package portal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/schema"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
	"github.com/noah-isme/sma-portal/pkg/export"
)

// recordDataset lays the records out as an export table, id first.
func recordDataset(kind models.Kind, records []models.Record) export.Dataset {
	sch := schema.MustFor(kind)
	keys := listColumns(sch, records)

	columns := make([]export.Column, 0, len(keys)+1)
	columns = append(columns, export.Column{Key: kind.IDKey(), Label: sch.Label(kind.IDKey())})
	for _, key := range keys {
		columns = append(columns, export.Column{Key: key, Label: sch.Label(key)})
	}

	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		row := make(map[string]string, len(rec.Fields)+1)
		for key := range rec.Fields {
			row[key] = rec.Fields.Text(key)
		}
		row[kind.IDKey()] = rec.ID
		rows = append(rows, row)
	}
	return export.Dataset{Title: kindTitle(kind), Columns: columns, Rows: rows}
}

func (a *App) export(args []string) error {
	if a.list == nil {
		return errNoList
	}
	if len(args) == 0 || len(args) > 2 {
		return appErrors.Clone(appErrors.ErrValidation, "usage: export <csv|pdf> [file]")
	}
	format, ok := export.ParseFormat(args[0])
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "export format must be csv or pdf")
	}

	kind := a.list.Kind()
	name := fmt.Sprintf("%s.%s", kind, format)
	if len(args) == 2 {
		name = args[1]
	}

	data, err := export.Render(format, recordDataset(kind, a.list.Records()))
	if err != nil {
		return err
	}
	path, err := a.files.Save(name, data)
	if err != nil {
		return err
	}

	a.logger.Info("records exported", zap.String("kind", string(kind)), zap.String("path", path))
	a.println(successStyle.Render(fmt.Sprintf("Exported %d record(s) to %s", len(a.list.Records()), path)))
	return nil
}

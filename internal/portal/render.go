package portal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/noah-isme/sma-portal/internal/controller"
	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/schema"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

const helpText = `Account:   login [email], register, logout, whoami
Lists:     kinds, list <kind>, role <student|teacher|admin>, grade <grade>, refresh, export <csv|pdf> [file]
Records:   open <id>, edit, set <field> <value>, save, cancel, delete, back
General:   help, exit`

func (a *App) help() {
	a.println(helpText)
}

func (a *App) renderActor() {
	actor := a.session.Actor()
	a.println(titleStyle.Render(actor.DisplayName()))
	a.println(newTable([]string{"Field", "Value"}, [][]string{
		{"User ID", actor.ID},
		{"Email", actor.Email},
		{"Role", string(actor.Role)},
		{"Phone", actor.Phone},
	}))
}

func (a *App) renderKinds() {
	names := make([]string, 0, len(models.Kinds()))
	for _, kind := range models.Kinds() {
		names = append(names, string(kind))
	}
	a.println("Record kinds: " + strings.Join(names, ", "))
}

func kindTitle(kind models.Kind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *App) renderList() {
	if a.list == nil {
		return
	}
	kind := a.list.Kind()
	a.println(titleStyle.Render(kindTitle(kind)))

	if a.list.FilterVisible() {
		filter := a.list.Filter()
		a.println(faintStyle.Render(fmt.Sprintf("Role: %s   Grade: %s   (grades: %s)",
			filter.UserType, filter.Grade, strings.Join(controller.GradeOptions(filter.UserType), ", "))))
	}
	if a.list.Degraded() {
		a.println(warnStyle.Render("The record service could not be reached; showing sample data."))
	}

	records := a.list.Records()
	if len(records) == 0 {
		a.println("No records.")
		return
	}

	sch := schema.MustFor(kind)
	columns := listColumns(sch, records)
	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "ID")
	for _, key := range columns {
		headers = append(headers, sch.Label(key))
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, 0, len(columns)+1)
		row = append(row, rec.ID)
		for _, key := range columns {
			row = append(row, rec.Fields.Text(key))
		}
		rows = append(rows, row)
	}
	a.println(newTable(headers, rows))
	a.println(faintStyle.Render(fmt.Sprintf("%d record(s). Use 'open <id>' for details.", len(records))))
}

// listColumns is the union of field names across records in schema order.
func listColumns(sch schema.Schema, records []models.Record) []string {
	union := models.Fields{}
	for _, rec := range records {
		for key := range rec.Fields {
			union[key] = nil
		}
	}
	return sch.Keys(union)
}

func (a *App) renderDetail() {
	if a.detail == nil {
		return
	}
	rec := a.detail.Record()
	sch := a.detail.Schema()
	a.println(titleStyle.Render(fmt.Sprintf("%s %s", kindTitle(rec.Kind), rec.ID)) + "  " + faintStyle.Render("["+a.detail.State().String()+"]"))

	draft := a.detail.Draft()
	editing := a.detail.State() == controller.StateEditing
	keys := sch.Keys(draft)
	if editing {
		keys = sch.Keys(withSchemaFields(sch, draft))
	}

	rows := make([][]string, 0, len(keys)+1)
	rows = append(rows, []string{sch.Label(rec.Kind.IDKey()), rec.ID})
	for _, key := range keys {
		label := sch.Label(key)
		if f, ok := sch.Field(key); ok && editing {
			if f.Required {
				label += " *"
			}
			if hint := f.Hint(); hint != "" {
				label += " (" + hint + ")"
			}
		}
		rows = append(rows, []string{label, draft.Text(key)})
	}
	a.println(newTable([]string{"Field", "Value"}, rows))

	if errs := a.detail.FieldErrors(); len(errs) > 0 {
		a.renderFieldErrors(errs)
	}
	if actions := a.detail.Actions(); len(actions) > 0 {
		names := make([]string, len(actions))
		for i, act := range actions {
			names[i] = string(act)
		}
		a.println(faintStyle.Render("Actions: " + strings.Join(names, ", ")))
	}
	if editing {
		a.println(faintStyle.Render("Editable fields: " + strings.Join(sch.Order(), ", ")))
	}
}

// withSchemaFields adds empty entries for schema fields the record lacks so
// they can be filled in while editing.
func withSchemaFields(sch schema.Schema, draft models.Fields) models.Fields {
	out := draft.Clone()
	for _, name := range sch.Order() {
		if _, ok := out[name]; !ok {
			out[name] = ""
		}
	}
	return out
}

func (a *App) renderFieldErrors(errs schema.FieldErrors) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.println(errorStyle.Render("  " + errs[name]))
	}
}

func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

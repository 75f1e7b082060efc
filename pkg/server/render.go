/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render.go
Description: Echo renderer and JSON serializer for the QueryCollect server, plus the
view models that turn generated tables into template rows.
*/

package server

import (
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/export"
	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const pageName = "page"

// templateRenderer implements echo.Renderer over html/template
type templateRenderer struct {
	templates *template.Template
}

func newRenderer() *templateRenderer {
	return &templateRenderer{
		templates: template.Must(template.New(pageName).Parse(pageTemplate)),
	}
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// jsonSerializer implements echo.JSONSerializer with goccy/go-json
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err)).SetInternal(err)
	}
	return nil
}

type cellView struct {
	Text    string
	Missing bool
}

type tableView struct {
	Caption string
	Class   string
	Headers []string
	Rows    [][]cellView
}

type pageView struct {
	Title     string
	Streak    int
	QueryType int
	MaxLength int
	Input     tableView
	Output    tableView
}

func newTableView(caption, class string, t *dataset.Table) tableView {
	view := tableView{
		Caption: caption,
		Class:   class,
		Headers: t.Names(),
		Rows:    make([][]cellView, t.RowCount()),
	}
	for r := range view.Rows {
		row := t.Row(r)
		cells := make([]cellView, len(row))
		for i, v := range row {
			cells[i] = cellView{Text: export.FormatCell(v), Missing: dataset.IsMissing(v)}
		}
		view.Rows[r] = cells
	}
	return view
}

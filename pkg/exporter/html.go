package exporter

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"manabify/pkg/config"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

const pageTitle = "manabaスタイル時間割表示"

// Table builds the manaba style timetable: a header row of day labels, then one row
// per period. Empty cells carry the "empty" class.
func Table(g *timetable.Grid, lang schedule.Lang) *html.Node {
	table := element(atom.Table, "stdlist", "manaba-timetable")

	header := element(atom.Tr, "title")
	header.AppendChild(headerCell("", "top", "courselistweekly-period"))
	for _, d := range timetable.Days {
		header.AppendChild(headerCell(d.Label(lang), "top", "day"))
	}
	table.AppendChild(header)

	for _, p := range timetable.Periods {
		row := element(atom.Tr)
		row.AppendChild(headerCell(strconv.Itoa(p), "period"))

		for _, d := range timetable.Days {
			cell := element(atom.Td, "course", "course-cell")
			placements := g.Cell(d, p)
			if len(placements) == 0 {
				addClass(cell, "empty")
			}
			for _, pl := range placements {
				cell.AppendChild(courseEntry(pl))
			}
			row.AppendChild(cell)
		}
		table.AppendChild(row)
	}

	return table
}

// WriteTable renders only the table element
func WriteTable(w io.Writer, g *timetable.Grid, lang schedule.Lang) error {
	return html.Render(w, Table(g, lang))
}

// WritePage renders a standalone HTML document styled with the configured colors
func WritePage(w io.Writer, g *timetable.Grid, lang schedule.Lang, colors config.Colors) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}

	doc := element(atom.Html)
	doc.Attr = append(doc.Attr, html.Attribute{Key: "lang", Val: string(lang)})

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = append(meta.Attr, html.Attribute{Key: "charset", Val: "utf-8"})
	head.AppendChild(meta)
	title := element(atom.Title)
	title.AppendChild(text(pageTitle))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(text(stylesheet(colors)))
	head.AppendChild(style)
	doc.AppendChild(head)

	body := element(atom.Body)
	wrapper := element(atom.Div, "manaba-timetable-container")
	wrapper.Attr = append(wrapper.Attr, html.Attribute{Key: "id", Val: "manaba-timetable-wrapper"})
	h3 := element(atom.H3)
	h3.AppendChild(text(pageTitle))
	wrapper.AppendChild(h3)
	wrapper.AppendChild(Table(g, lang))
	body.AppendChild(wrapper)
	doc.AppendChild(body)

	return html.Render(w, doc)
}

func stylesheet(c config.Colors) string {
	return fmt.Sprintf(`
.manaba-timetable { width: 100%%; border-collapse: collapse; table-layout: fixed; }
.manaba-timetable th, .manaba-timetable td { border: 1px solid %s; padding: 4px; vertical-align: top; }
.manaba-timetable th { background: %s; }
.manaba-timetable td.course-cell { background: %s; }
.manaba-timetable td.empty { background: %s; }
.manaba-timetable a.course-link { color: %s; }
.manaba-course-entry + .manaba-course-entry { margin-top: 4px; }
.course-location { font-size: smaller; }
`, c.Border, c.Header, c.CourseCell, c.EmptyCell, c.Link)
}

func courseEntry(pl timetable.Placement) *html.Node {
	container := element(atom.Div, "courselistweekly-nonborder", "courselistweekly-c", "manaba-course-entry")

	link := element(atom.A, "course-link")
	link.Attr = append(link.Attr,
		html.Attribute{Key: "href", Val: pl.Course.URL},
		html.Attribute{Key: "target", Val: "_self"},
	)
	link.AppendChild(text(pl.Course.Name))
	container.AppendChild(link)

	if pl.Entry.Classroom != "" {
		location := element(atom.Div, "course-location")
		location.AppendChild(text(pl.Entry.Classroom))
		container.AppendChild(location)
	}

	return container
}

func headerCell(label string, classes ...string) *html.Node {
	th := element(atom.Th, classes...)
	th.AppendChild(text(label))
	return th
}

func element(a atom.Atom, classes ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range classes {
		addClass(n, c)
	}
	return n
}

func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key == "class" {
			n.Attr[i].Val += " " + class
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

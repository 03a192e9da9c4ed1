package sheet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoTables is returned when a markup export contains no table rows.
var ErrNoTables = errors.New("markup has no tables")

const spreadsheetNS = "urn:schemas-microsoft-com:office:spreadsheet"

const (
	maxColspan = 1000
	maxRows    = 1048576
	maxCols    = 16384
)

// ReadMarkup returns every table found in an HTML export or an XML
// Spreadsheet 2003 workbook, in document order.
func ReadMarkup(text string) ([]Grid, error) {
	if isSpreadsheetML(text) {
		return ReadSpreadsheetML(text)
	}
	return ReadHTML(text)
}

func isSpreadsheetML(text string) bool {
	return strings.Contains(text, spreadsheetNS) || strings.Contains(text, "<Workbook")
}

// ReadHTML returns the rows of every <table> in an HTML document. Cells
// spanning several columns are padded with empty cells so columns stay
// aligned with the header.
func ReadHTML(text string) ([]Grid, error) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var grids []Grid
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			if g := htmlTableRows(n); len(g) > 0 {
				grids = append(grids, g)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(grids) == 0 {
		return nil, ErrNoTables
	}
	return grids, nil
}

// htmlTableRows collects <tr> rows of t, skipping rows of nested tables.
func htmlTableRows(t *html.Node) Grid {
	var grid Grid
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue
			case atom.Tr:
				grid = append(grid, htmlRowCells(c))
			default:
				walk(c)
			}
		}
	}
	walk(t)
	return grid
}

func htmlRowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cells = append(cells, nodeText(c))
		for span := colspan(c); span > 1; span-- {
			cells = append(cells, "")
		}
	}
	return cells
}

func colspan(n *html.Node) int {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "colspan") {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				return min(v, maxColspan)
			}
		}
	}
	return 1
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

type xmlWorkbook struct {
	Worksheets []struct {
		Table struct {
			Rows []xmlRow `xml:"Row"`
		} `xml:"Table"`
	} `xml:"Worksheet"`
}

type xmlRow struct {
	Index int       `xml:"Index,attr"`
	Cells []xmlCell `xml:"Cell"`
}

type xmlCell struct {
	Index int    `xml:"Index,attr"`
	Data  string `xml:"Data"`
}

// ReadSpreadsheetML reads an XML Spreadsheet 2003 document. Sparse rows
// and cells positioned with ss:Index are expanded to their real position.
func ReadSpreadsheetML(text string) ([]Grid, error) {
	var wb xmlWorkbook
	if err := xml.Unmarshal([]byte(text), &wb); err != nil {
		return nil, fmt.Errorf("parsing spreadsheet xml: %w", err)
	}

	var grids []Grid
	for _, ws := range wb.Worksheets {
		var grid Grid
		for _, r := range ws.Table.Rows {
			if r.Index > maxRows {
				return nil, fmt.Errorf("spreadsheet xml: row index %d exceeds %d", r.Index, maxRows)
			}
			for r.Index > 0 && len(grid) < r.Index-1 {
				grid = append(grid, nil)
			}
			var cells []string
			for _, c := range r.Cells {
				if c.Index > maxCols {
					return nil, fmt.Errorf("spreadsheet xml: cell index %d exceeds %d", c.Index, maxCols)
				}
				for c.Index > 0 && len(cells) < c.Index-1 {
					cells = append(cells, "")
				}
				cells = append(cells, strings.TrimSpace(c.Data))
			}
			grid = append(grid, cells)
		}
		if len(grid) > 0 {
			grids = append(grids, grid)
		}
	}

	if len(grids) == 0 {
		return nil, ErrNoTables
	}
	return grids, nil
}

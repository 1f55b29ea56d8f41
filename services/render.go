package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Shared palette for both report variants.
var (
	chromeDark  = props.Color{Red: 33, Green: 37, Blue: 41}
	chromeGray  = props.Color{Red: 100, Green: 100, Blue: 100}
	titleBarBg  = props.Color{Red: 52, Green: 73, Blue: 94}
	headerBg    = props.Color{Red: 33, Green: 37, Blue: 41}
	zebraBg     = props.Color{Red: 248, Green: 249, Blue: 250}
	whiteText   = props.Color{Red: 255, Green: 255, Blue: 255}
	faintNumber = props.Color{Red: 120, Green: 120, Blue: 120}
)

// RenderPDF executes a finalized command list against maroto and returns the
// document bytes. Pages are built explicitly from the CmdPageStart markers;
// maroto's own auto-pagination is never relied on, so the composer's break
// decisions are exactly what ends up in the file. Any failure aborts with no
// partial output.
func RenderPDF(cmds []Command) ([]byte, error) {
	if len(cmds) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if cmds[0].Kind != CmdPageStart {
		return nil, fmt.Errorf("document does not begin with a page")
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &faintNumber,
		}).
		Build()

	m := maroto.New(cfg)

	var pages []core.Page
	var current []core.Row
	zebra := 0

	flush := func() {
		if current != nil {
			pages = append(pages, page.New().Add(current...))
			current = nil
		}
	}

	for _, cmd := range cmds {
		if cmd.Kind != CmdTableRow {
			zebra = 0
		}
		switch cmd.Kind {
		case CmdPageStart:
			flush()
			current = []core.Row{}
		case CmdTitleBar:
			current = append(current, renderTitleBar(cmd))
		case CmdTableHead:
			r, err := renderTableHead(cmd)
			if err != nil {
				return nil, err
			}
			current = append(current, r)
		case CmdTableRow:
			r, err := renderTableRow(cmd, zebra%2 == 1)
			if err != nil {
				return nil, err
			}
			current = append(current, r)
			zebra++
		case CmdKeyValue:
			current = append(current, renderKeyValue(cmd))
		case CmdText:
			current = append(current, renderText(cmd))
		case CmdSpacer:
			current = append(current, row.New(cmd.Height))
		case CmdImage:
			if len(cmd.Image) == 0 {
				return nil, fmt.Errorf("image command with no bytes")
			}
			current = append(current, row.New(cmd.Height).Add(
				col.New(12).Add(image.NewFromBytes(cmd.Image, cmd.ImageExt, props.Rect{
					Center:  true,
					Percent: 100,
				})),
			))
		case CmdRule:
			current = append(current, row.New(cmd.Height).Add(
				col.New(12).Add(line.New(props.Line{
					Color:     &chromeDark,
					Thickness: 0.4,
				})),
			))
		default:
			return nil, fmt.Errorf("unknown draw command %d", cmd.Kind)
		}
	}
	flush()

	m.AddPages(pages...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func renderTitleBar(cmd Command) core.Row {
	return row.New(cmd.Height).Add(
		col.New(12).Add(
			text.New(cmd.Text, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
				Left:  2,
				Color: &whiteText,
			}),
		).WithStyle(&props.Cell{BackgroundColor: &titleBarBg}),
	)
}

func renderTableHead(cmd Command) (core.Row, error) {
	if len(cmd.Cells) != len(cmd.Widths) {
		return nil, fmt.Errorf("table head has %d cells but %d widths", len(cmd.Cells), len(cmd.Widths))
	}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &whiteText,
	}
	cell := props.Cell{BackgroundColor: &headerBg}

	cols := make([]core.Col, 0, len(cmd.Cells))
	for i, c := range cmd.Cells {
		cols = append(cols, col.New(cmd.Widths[i]).
			Add(text.New(c, headerText)).
			WithStyle(&cell))
	}
	return row.New(cmd.Height).Add(cols...), nil
}

func renderTableRow(cmd Command, shaded bool) (core.Row, error) {
	if len(cmd.Cells) != len(cmd.Widths) {
		return nil, fmt.Errorf("table row has %d cells but %d widths", len(cmd.Cells), len(cmd.Widths))
	}
	bodyText := props.Text{Size: 7, Align: align.Left, Left: 1}
	if cmd.Emphasis {
		bodyText.Style = fontstyle.Bold
	}

	var cellStyle *props.Cell
	if shaded {
		cellStyle = &props.Cell{BackgroundColor: &zebraBg}
	}

	cols := make([]core.Col, 0, len(cmd.Cells))
	for i, c := range cmd.Cells {
		cc := col.New(cmd.Widths[i]).Add(text.New(c, bodyText))
		if cellStyle != nil {
			cc = cc.WithStyle(cellStyle)
		}
		cols = append(cols, cc)
	}
	return row.New(cmd.Height).Add(cols...), nil
}

func renderKeyValue(cmd Command) core.Row {
	return row.New(cmd.Height).Add(
		col.New(4).Add(text.New(cmd.Text, props.Text{
			Size:  7,
			Style: fontstyle.Bold,
			Align: align.Left,
			Color: &chromeGray,
		})),
		col.New(8).Add(text.New(cmd.Value, props.Text{
			Size:  8,
			Align: align.Left,
		})),
	)
}

func renderText(cmd Command) core.Row {
	style := props.Text{Size: 10, Align: align.Left}
	if cmd.Emphasis {
		style.Style = fontstyle.Bold
		style.Size = 12
	}
	return row.New(cmd.Height).Add(
		col.New(12).Add(text.New(cmd.Text, style)),
	)
}

package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// Page geometry in millimeters (A4 portrait). The bottom safety margin is the
// reserve kept below the last block on every page; a titled block that would
// cross into it moves wholly to the next page.
const (
	pageHeightMM    = 297.0
	pageTopMargin   = 10.0
	pageSafetyMM    = 15.0
	usablePageBreak = pageHeightMM - pageSafetyMM
)

// Standard row heights, matching the densities used across all documents.
const (
	rowTitleBar  = 8.0
	rowTableHead = 8.0
	rowTableBody = 7.0
	rowKeyValue  = 7.0
	rowText      = 7.0
)

// CommandKind enumerates the declarative draw operations the renderer
// understands.
type CommandKind int

const (
	CmdPageStart CommandKind = iota
	CmdTitleBar
	CmdTableHead
	CmdTableRow
	CmdKeyValue
	CmdText
	CmdSpacer
	CmdImage
	CmdRule
)

// Command is one declarative draw operation. The composer produces a flat
// command list; the renderer executes it against a real PDF surface. Keeping
// the two apart lets pagination be tested without rendering anything.
type Command struct {
	Kind   CommandKind
	Page   int
	Height float64

	Text     string   // CmdTitleBar, CmdText, CmdKeyValue key
	Value    string   // CmdKeyValue value
	Cells    []string // CmdTableHead, CmdTableRow
	Widths   []int    // 12-grid column spans for table cells
	Emphasis bool     // bold/filled styling for CmdText and CmdTableRow

	Image    []byte
	ImageExt extension.Type
}

// Block is one titled unit of vertical content. A block is never split across
// pages: either it fits below the cursor or the whole block moves to a fresh
// page.
type Block struct {
	cmds   []Command
	height float64
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{}
}

func (b *Block) add(c Command) *Block {
	b.cmds = append(b.cmds, c)
	b.height += c.Height
	return b
}

// TitleBar adds a colored section-title bar.
func (b *Block) TitleBar(title string) *Block {
	return b.add(Command{Kind: CmdTitleBar, Height: rowTitleBar, Text: title})
}

// TableHead adds a styled header row with fixed column spans. Sections that
// render pure key/value listings skip this and use KeyValue rows only.
func (b *Block) TableHead(cells []string, widths []int) *Block {
	return b.add(Command{Kind: CmdTableHead, Height: rowTableHead, Cells: cells, Widths: widths})
}

// TableRow adds one body row using the column spans of the preceding head.
func (b *Block) TableRow(cells []string, widths []int) *Block {
	return b.add(Command{Kind: CmdTableRow, Height: rowTableBody, Cells: cells, Widths: widths})
}

// KeyValue adds a label/value listing row.
func (b *Block) KeyValue(key, value string) *Block {
	return b.add(Command{Kind: CmdKeyValue, Height: rowKeyValue, Text: key, Value: value})
}

// Text adds a plain text row. Emphasized text renders bold.
func (b *Block) Text(s string, emphasis bool) *Block {
	return b.add(Command{Kind: CmdText, Height: rowText, Text: s, Emphasis: emphasis})
}

// Spacer adds vertical whitespace.
func (b *Block) Spacer(h float64) *Block {
	return b.add(Command{Kind: CmdSpacer, Height: h})
}

// Image adds a fully loaded image occupying h millimeters of height. The
// bytes must already be resident; the composer never schedules deferred
// loads, which keeps draw order deterministic.
func (b *Block) Image(data []byte, ext extension.Type, h float64) *Block {
	return b.add(Command{Kind: CmdImage, Height: h, Image: data, ImageExt: ext})
}

// Rule adds a thin horizontal divider line.
func (b *Block) Rule() *Block {
	return b.add(Command{Kind: CmdRule, Height: 2})
}

// Height is the projected vertical size of the block.
func (b *Block) Height() float64 {
	return b.height
}

// Composer lays blocks onto pages, tracking a vertical cursor per page.
// Before each block it compares the projected block height against the
// remaining page height minus the bottom safety reserve; when the block does
// not fit it starts a new page, redraws the constant chrome and resets the
// cursor. Pages only move forward; there is no transition back to an earlier
// page.
type Composer struct {
	chrome    *Block
	page      int
	cursor    float64
	cmds      []Command
	finalized bool
}

// NewComposer creates a composer. chrome is redrawn at the top of every page
// and may be nil for chrome-less documents.
func NewComposer(chrome *Block) *Composer {
	c := &Composer{chrome: chrome}
	c.startPage()
	return c
}

func (c *Composer) startPage() {
	c.page++
	c.cursor = pageTopMargin
	c.cmds = append(c.cmds, Command{Kind: CmdPageStart, Page: c.page})
	if c.chrome != nil {
		for _, cmd := range c.chrome.cmds {
			cmd.Page = c.page
			c.cmds = append(c.cmds, cmd)
		}
		c.cursor += c.chrome.height
	}
}

// Add places a block on the current page, breaking to a new page first when
// it does not fit. A block taller than a whole page is still drawn after a
// single break rather than looping forever.
func (c *Composer) Add(b *Block) error {
	if c.finalized {
		return fmt.Errorf("document already finalized")
	}
	if c.cursor+b.Height() > usablePageBreak && c.cursor > c.pageTop() {
		c.startPage()
	}
	for _, cmd := range b.cmds {
		cmd.Page = c.page
		c.cmds = append(c.cmds, cmd)
	}
	c.cursor += b.Height()
	return nil
}

// pageTop is the cursor position immediately after chrome on a fresh page.
func (c *Composer) pageTop() float64 {
	top := pageTopMargin
	if c.chrome != nil {
		top += c.chrome.height
	}
	return top
}

// Finalize seals the document and returns the full command list. No further
// blocks can be added afterwards.
func (c *Composer) Finalize() []Command {
	c.finalized = true
	return c.cmds
}

// PageCount reports how many pages have been started.
func (c *Composer) PageCount() int {
	return c.page
}

// Cursor exposes the current vertical position for layout assertions.
func (c *Composer) Cursor() float64 {
	return c.cursor
}

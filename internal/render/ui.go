package render

import (
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-devpick/internal/clipboard"
	"github.com/opd-ai/go-devpick/internal/errstack"
)

// Layout constants in logical pixels.
const (
	itemSpacing   = 6.0
	buttonPadding = 6.0
	boxSize       = 14.0
	strokeWidth   = 1.0
	tooltipOffset = 14.0
)

// Input is the user input captured for one tick.
type Input struct {
	Cursor Vec
	// Pressed is true on the tick the primary button went down.
	Pressed bool
	// Down is true while the primary button is held.
	Down bool
	// SecondaryPressed is true on the tick the secondary button went down.
	SecondaryPressed bool
	Chars            []rune
	Backspace        bool
	Enter            bool
	Escape           bool
	Paste            bool
	Copy             bool
}

// layout tracks placement inside one vertical or horizontal group.
type layout struct {
	origin     Vec
	cursor     Vec
	horizontal bool
	rowHeight  float64
	extent     Vec // bottom-right of everything placed so far
}

func (l *layout) place(w, h float64) Rect {
	r := Rect{X: l.cursor.X, Y: l.cursor.Y, W: w, H: h}
	if l.horizontal {
		l.cursor.X += w + itemSpacing
		l.rowHeight = max(l.rowHeight, h)
	} else {
		l.cursor.Y += h + itemSpacing
	}
	l.extent.X = max(l.extent.X, r.X+r.W)
	l.extent.Y = max(l.extent.Y, r.Y+r.H)
	return r
}

// UI is an immediate-mode widget context. A pass starts with Begin and
// ends with End; widgets called in between record into the draw list and
// report interaction through their Response.
type UI struct {
	theme     Theme
	text      TextRendererInterface
	clipboard clipboard.Clipboard
	errors    *errstack.Stack

	input   Input
	screen  Vec
	layouts []layout
	cmds    DrawList

	focus      string
	active     string
	blurOnEnd  bool
	tooltip    string
	cursor     ebiten.CursorShapeType
	occluders  []Rect
	overlay    bool
	typedInto  bool
	charWidth  float64
	lineHeight float64

	// reported holds the last error message pushed per source.
	reported map[string]string
}

// NewUI creates a UI context. clip and errs may be nil.
func NewUI(theme Theme, tr TextRendererInterface, clip clipboard.Clipboard, errs *errstack.Stack) *UI {
	if clip == nil {
		clip = &clipboard.Memory{}
	}
	if errs == nil {
		errs = errstack.NewStack()
	}
	return &UI{theme: theme, text: tr, clipboard: clip, errors: errs, reported: make(map[string]string)}
}

// Report pushes err unless the last error reported for source had the
// same message. A nil err clears source so its next failure shows again.
func (u *UI) Report(source string, category errstack.Category, err error) {
	if err == nil {
		delete(u.reported, source)
		return
	}
	msg := err.Error()
	if u.reported[source] == msg {
		return
	}
	u.reported[source] = msg
	u.errors.Push(category, err)
}

// SetTheme changes the palette for the next pass.
func (u *UI) SetTheme(t Theme) { u.theme = t }

// Theme returns the active palette.
func (u *UI) Theme() Theme { return u.theme }

// Begin starts a pass over a screen of the given size.
func (u *UI) Begin(screen Vec, in Input) {
	u.input = in
	u.screen = screen
	u.cmds = u.cmds[:0:0]
	u.layouts = u.layouts[:0]
	u.layouts = append(u.layouts, layout{})
	u.tooltip = ""
	u.cursor = ebiten.CursorShapeDefault
	u.occluders = u.occluders[:0]
	u.overlay = false
	u.typedInto = false
	u.blurOnEnd = in.Pressed || in.Escape
	if !in.Down {
		u.active = ""
	}
	u.lineHeight = u.text.LineHeight()
	u.charWidth, _ = u.text.MeasureText("M")
	if u.charWidth <= 0 {
		u.charWidth = u.lineHeight / 2
	}
}

// End finishes the pass and returns the recorded draw list.
func (u *UI) End() DrawList {
	if u.blurOnEnd {
		u.focus = ""
	}
	if u.tooltip != "" {
		u.drawTooltip()
	}
	return u.cmds
}

// Input returns the input of the current pass.
func (u *UI) Input() Input { return u.input }

// Screen returns the size of the current pass.
func (u *UI) Screen() Vec { return u.screen }

// CursorShape returns the pointer shape requested during the pass.
func (u *UI) CursorShape() ebiten.CursorShapeType { return u.cursor }

// SetCursor requests a pointer shape for this frame.
func (u *UI) SetCursor(shape ebiten.CursorShapeType) { u.cursor = shape }

// Focused returns the id of the text field with keyboard focus.
func (u *UI) Focused() string { return u.focus }

// Typing reports whether a text field consumed keyboard input this pass.
func (u *UI) Typing() bool { return u.focus != "" }

// Tooltip shows text next to the pointer at the end of the pass.
func (u *UI) Tooltip(text string) { u.tooltip = text }

// Occlude marks r as covered by an overlay; widgets outside Overlay
// do not react to the pointer there.
func (u *UI) Occlude(r Rect) { u.occluders = append(u.occluders, r) }

func (u *UI) top() *layout { return &u.layouts[len(u.layouts)-1] }

// Area lays out fn inside r, independent of the current layout.
func (u *UI) Area(r Rect, fn func()) {
	u.layouts = append(u.layouts, layout{origin: Vec{r.X, r.Y}, cursor: Vec{r.X, r.Y}})
	fn()
	u.layouts = u.layouts[:len(u.layouts)-1]
}

// Overlay is Area for content drawn above occluded regions.
func (u *UI) Overlay(r Rect, fn func()) {
	prev := u.overlay
	u.overlay = true
	u.Area(r, fn)
	u.overlay = prev
}

// Horizontal places the widgets of fn side by side.
func (u *UI) Horizontal(fn func()) { u.group(true, fn) }

// Vertical stacks the widgets of fn top to bottom.
func (u *UI) Vertical(fn func()) { u.group(false, fn) }

func (u *UI) group(horizontal bool, fn func()) {
	start := u.top().cursor
	u.layouts = append(u.layouts, layout{origin: start, cursor: start, horizontal: horizontal, extent: start})
	fn()
	child := u.layouts[len(u.layouts)-1]
	u.layouts = u.layouts[:len(u.layouts)-1]
	u.allocate(child.extent.X-start.X, child.extent.Y-start.Y)
}

// Space leaves an empty gap in the layout direction.
func (u *UI) Space(size float64) {
	l := u.top()
	if l.horizontal {
		l.cursor.X += size
	} else {
		l.cursor.Y += size
	}
}

// Cursor returns where the next widget will be placed.
func (u *UI) Cursor() Vec { return u.top().cursor }

// allocate reserves a w by h rectangle in the current layout.
func (u *UI) allocate(w, h float64) Rect { return u.top().place(w, h) }

func (u *UI) occluded(p Vec) bool {
	if u.overlay {
		return false
	}
	for _, r := range u.occluders {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// interact computes pointer interaction for r.
func (u *UI) interact(r Rect) Response {
	hovered := r.Contains(u.input.Cursor) && !u.occluded(u.input.Cursor)
	return Response{
		Rect:           r,
		Hovered:        hovered,
		Clicked:        hovered && u.input.Pressed,
		SecondaryClick: hovered && u.input.SecondaryPressed,
	}
}

func (u *UI) push(c command) { u.cmds = append(u.cmds, c) }

// Fill records a filled rectangle.
func (u *UI) Fill(r Rect, clr color.RGBA) {
	u.push(command{kind: cmdFill, rect: r, color: clr})
}

// Stroke records a rectangle outline.
func (u *UI) Stroke(r Rect, clr color.RGBA) {
	u.push(command{kind: cmdStroke, rect: r, color: clr, width: strokeWidth})
}

// DrawText records text at an absolute position.
func (u *UI) DrawText(s string, p Vec, clr color.RGBA) {
	u.push(command{kind: cmdText, rect: Rect{X: p.X, Y: p.Y}, text: s, color: clr})
}

func (u *UI) measure(s string) Vec {
	w, h := u.text.MeasureText(s)
	return Vec{X: w, Y: max(h, u.lineHeight)}
}

// Label shows a line of text in the default color.
func (u *UI) Label(s string) Response {
	return u.ColoredLabel(s, u.theme.Text)
}

// WeakLabel shows secondary text.
func (u *UI) WeakLabel(s string) Response {
	return u.ColoredLabel(s, u.theme.WeakText)
}

// ColoredLabel shows text in clr.
func (u *UI) ColoredLabel(s string, clr color.RGBA) Response {
	size := u.measure(s)
	r := u.allocate(size.X, size.Y)
	u.DrawText(s, Vec{r.X, r.Y}, clr)
	return u.interact(r)
}

// Heading shows a section title followed by extra space.
func (u *UI) Heading(s string) Response {
	resp := u.ColoredLabel(s, u.theme.Heading)
	u.Space(itemSpacing)
	return resp
}

// Separator draws a horizontal rule across width.
func (u *UI) Separator(width float64) {
	r := u.allocate(width, strokeWidth)
	u.Fill(r, u.theme.Stroke)
}

func (u *UI) frame(r Rect, resp Response, selected bool) {
	fill := u.theme.Widget
	switch {
	case selected:
		fill = u.theme.Selected
	case resp.Hovered && u.input.Down:
		fill = u.theme.Active
	case resp.Hovered:
		fill = u.theme.Hovered
	}
	u.Fill(r, fill)
}

// Button shows a clickable text button.
func (u *UI) Button(label string) Response {
	size := u.measure(label)
	r := u.allocate(size.X+2*buttonPadding, size.Y+buttonPadding)
	resp := u.interact(r)
	u.frame(r, resp, false)
	u.DrawText(label, Vec{r.X + buttonPadding, r.Y + buttonPadding/2}, u.theme.Text)
	if resp.Hovered {
		u.cursor = ebiten.CursorShapePointer
	}
	return resp
}

// Selectable is a button that shows a selected state.
func (u *UI) Selectable(label string, selected bool) Response {
	size := u.measure(label)
	r := u.allocate(size.X+2*buttonPadding, size.Y+buttonPadding)
	resp := u.interact(r)
	if selected || resp.Hovered {
		u.frame(r, resp, selected)
	}
	u.DrawText(label, Vec{r.X + buttonPadding, r.Y + buttonPadding/2}, u.theme.Text)
	if resp.Hovered {
		u.cursor = ebiten.CursorShapePointer
	}
	return resp
}

// Checkbox toggles *value on click. Changed is set when it flips.
func (u *UI) Checkbox(label string, value *bool) Response {
	size := u.measure(label)
	h := max(size.Y, boxSize)
	r := u.allocate(boxSize+itemSpacing+size.X, h)
	resp := u.interact(r)
	box := Rect{X: r.X, Y: r.Y + (h-boxSize)/2, W: boxSize, H: boxSize}
	u.frame(box, resp, false)
	if resp.Clicked {
		*value = !*value
		resp.Changed = true
	}
	if *value {
		u.Fill(box.Inset(3), u.theme.Text)
	}
	u.DrawText(label, Vec{r.X + boxSize + itemSpacing, r.Y + (h-size.Y)/2}, u.theme.Text)
	if resp.Hovered {
		u.cursor = ebiten.CursorShapePointer
	}
	return resp
}

// Radio shows an option of a group. The caller applies the selection
// when Clicked is set.
func (u *UI) Radio(label string, selected bool) Response {
	size := u.measure(label)
	h := max(size.Y, boxSize)
	r := u.allocate(boxSize+itemSpacing/2+size.X, h)
	resp := u.interact(r)
	circle := Rect{X: r.X, Y: r.Y + (h-boxSize)/2, W: boxSize, H: boxSize}
	fill := u.theme.Widget
	if resp.Hovered {
		fill = u.theme.Hovered
	}
	u.push(command{kind: cmdCircle, rect: circle, color: fill})
	if selected {
		u.push(command{kind: cmdCircle, rect: circle.Inset(4), color: u.theme.Text})
	}
	u.DrawText(label, Vec{r.X + boxSize + itemSpacing/2, r.Y + (h-size.Y)/2}, u.theme.Text)
	if resp.Hovered {
		u.cursor = ebiten.CursorShapePointer
	}
	return resp
}

// Slider edits *value in [lo, hi] by dragging. id must be unique in
// the pass. step rounds the value when positive.
func (u *UI) Slider(id string, value *float64, lo, hi, step, width float64) Response {
	h := boxSize
	r := u.allocate(width, h)
	resp := u.interact(r)
	if resp.Clicked {
		u.active = id
	}
	if u.active == id && u.input.Down && width > 0 {
		t := math.Max(0, math.Min(1, (u.input.Cursor.X-r.X)/width))
		v := lo + t*(hi-lo)
		if step > 0 {
			v = math.Round(v/step) * step
		}
		v = math.Max(lo, math.Min(hi, v))
		if v != *value {
			*value = v
			resp.Changed = true
		}
	}
	if resp.Hovered || u.active == id {
		u.cursor = ebiten.CursorShapeEWResize
	}

	track := Rect{X: r.X, Y: r.Y + h/2 - 2, W: width, H: 4}
	u.Fill(track, u.theme.Widget)
	t := 0.0
	if hi > lo {
		t = (*value - lo) / (hi - lo)
	}
	knob := Rect{X: r.X + t*width - h/2, Y: r.Y, W: h, H: h}
	u.push(command{kind: cmdCircle, rect: knob, color: u.theme.Active})
	return resp
}

// FieldOptions configures a TextField.
type FieldOptions struct {
	// Width of the field; 0 uses 24 columns.
	Width float64
	// Lines is the visible line count. Fields with more than one line
	// accept Enter and wrap long lines.
	Lines int
	// Masked replaces every character with a bullet.
	Masked bool
	// ReadOnly allows focus and copy but not editing.
	ReadOnly bool
}

// TextField edits *value. Clicking focuses it; while focused it takes
// typed characters, Backspace, Enter (multi-line only), paste and copy.
// id must be unique in the pass.
func (u *UI) TextField(id string, value *string, opts FieldOptions) Response {
	lines := max(opts.Lines, 1)
	width := opts.Width
	if width <= 0 {
		width = 24 * u.charWidth
	}
	r := u.allocate(width, float64(lines)*u.lineHeight+buttonPadding)
	resp := u.interact(r)
	if resp.Hovered {
		u.cursor = ebiten.CursorShapeText
	}
	if resp.Clicked {
		u.focus = id
		u.blurOnEnd = false
	}
	focused := u.focus == id
	if focused && !u.typedInto {
		resp.Changed = u.edit(value, lines > 1, opts.ReadOnly)
		u.typedInto = true
	}

	u.Fill(r, u.theme.Panel)
	border := u.theme.Widget
	if focused {
		border = u.theme.Selected
	}
	u.Stroke(r, border)

	shown := *value
	if opts.Masked {
		shown = strings.Repeat("•", utf8.RuneCountInString(shown))
	}
	cols := max(int((width-buttonPadding)/u.charWidth), 1)
	visual := wrapColumns(shown, cols)
	if len(visual) > lines {
		if focused {
			visual = visual[len(visual)-lines:]
		} else {
			visual = visual[:lines]
		}
	}
	inner := Vec{X: r.X + buttonPadding/2, Y: r.Y + buttonPadding/2}
	for i, line := range visual {
		u.DrawText(line, Vec{inner.X, inner.Y + float64(i)*u.lineHeight}, u.theme.Text)
	}
	if focused && !opts.ReadOnly {
		last := ""
		if len(visual) > 0 {
			last = visual[len(visual)-1]
		}
		row := max(len(visual)-1, 0)
		caret := Rect{
			X: inner.X + float64(utf8.RuneCountInString(last))*u.charWidth,
			Y: inner.Y + float64(row)*u.lineHeight,
			W: strokeWidth,
			H: u.lineHeight,
		}
		u.Fill(caret, u.theme.Text)
	}
	return resp
}

// edit applies this pass's keyboard input to value.
func (u *UI) edit(value *string, multiline, readOnly bool) bool {
	in := u.input
	if in.Copy && *value != "" {
		if err := u.clipboard.WriteText(*value); err != nil {
			u.errors.Push(errstack.CategoryClipboard, err)
		}
	}
	if readOnly {
		return false
	}
	before := *value
	s := *value
	if in.Paste {
		pasted, err := u.clipboard.ReadText()
		if err != nil {
			u.errors.Push(errstack.CategoryClipboard, err)
		} else {
			if !multiline {
				pasted = strings.ReplaceAll(strings.ReplaceAll(pasted, "\r", ""), "\n", "")
			}
			s += pasted
		}
	}
	for _, c := range in.Chars {
		if c >= 0x20 && c != 0x7f {
			s += string(c)
		}
	}
	if in.Enter && multiline {
		s += "\n"
	}
	if in.Backspace && s != "" {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	*value = s
	return s != before
}

// wrapColumns splits s at newlines and then every cols runes.
func wrapColumns(s string, cols int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			out = append(out, "")
			continue
		}
		for len(runes) > cols {
			out = append(out, string(runes[:cols]))
			runes = runes[cols:]
		}
		out = append(out, string(runes))
	}
	return out
}

// Image shows img scaled to size.
func (u *UI) Image(img *ebiten.Image, size Vec) Response {
	r := u.allocate(size.X, size.Y)
	u.push(command{kind: cmdImage, rect: r, image: img})
	return u.interact(r)
}

func (u *UI) drawTooltip() {
	size := u.measure(u.tooltip)
	p := Vec{X: u.input.Cursor.X + tooltipOffset, Y: u.input.Cursor.Y + tooltipOffset}
	if u.screen.X > 0 && p.X+size.X+2*buttonPadding > u.screen.X {
		p.X = max(u.screen.X-size.X-2*buttonPadding, 0)
	}
	if u.screen.Y > 0 && p.Y+size.Y+buttonPadding > u.screen.Y {
		p.Y = max(u.input.Cursor.Y-size.Y-buttonPadding, 0)
	}
	r := Rect{X: p.X, Y: p.Y, W: size.X + 2*buttonPadding, H: size.Y + buttonPadding}
	u.Fill(r, u.theme.Panel)
	u.Stroke(r, u.theme.Stroke)
	u.DrawText(u.tooltip, Vec{r.X + buttonPadding, r.Y + buttonPadding/2}, u.theme.Text)
}

// Package ui draws the presentational surfaces above the scene: the hover tooltip,
// the detail panel, the message and search prompts, and toasts. It holds no scene
// state of its own; actions are reported through Actions
package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/detail"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/search"
	"github.com/lixenwraith/living-cosmos/status"
	"github.com/lixenwraith/living-cosmos/terminal"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	// SuccessMillis is how long the delivery notice stays up
	SuccessMillis = 15000
	errorMillis   = 6000

	messageLimit = 1000
	queryLimit   = 100
)

// Text shown by the overlay
const (
	TextSendFailed   = "メッセージの送信に失敗しました。"
	TextSendFailHint = "(開発中: webhook URLを確認してください)"
	TextDelivered    = "メッセージが届きました"
	TextDeliveredSub = "あなたの想いは星空を越えて、大切な人のもとへ届きました"
	TextBirthday     = "🎂 お誕生日おめでとう 🎂"

	textMessageTitle = "星への手紙"
	textMessageHint  = "想いを宇宙に届ける..."
	textSearchTitle  = "観測所 THE OBSERVATORY"
	textSearchHint   = "曲名を入力してください..."
	textSending      = "送信中..."
	textScanning     = "スキャン中..."
	textNoResults    = "検索結果がここに表示されます"
)

var (
	gold     = render.RGB{R: 255, G: 215, B: 0}
	amber    = render.RGB{R: 251, G: 191, B: 36}
	cyan     = render.RGB{R: 103, G: 232, B: 249}
	panelBg  = render.RGB{R: 8, G: 4, B: 26}
	textDim  = render.RGB{R: 160, G: 150, B: 190}
	textMain = render.RGB{R: 240, G: 235, B: 255}
)

// Mode is the overlay's input focus
type Mode uint8

const (
	ModeScene Mode = iota
	ModeMessage
	ModeSearch
	ModeResults
)

// Actions are the side effects the overlay requests. Nil entries are ignored
type Actions struct {
	SendMessage  func(text string)
	Search       func(query string)
	TogglePlayer func() error
	CloseDetail  func()
}

// HoverSource supplies the current hover for the tooltip
type HoverSource interface {
	Hovered() *event.HoverPayload
}

// DetailSource supplies the detail surface state
type DetailSource interface {
	View() detail.View
}

// StatsSource supplies the diagnostics panel
type StatsSource interface {
	Snapshot() []status.Metric
}

// Overlay is the topmost renderer and first click target
type Overlay struct {
	hover   HoverSource
	detail  DetailSource
	actions Actions
	logger  *zap.Logger
	stats   StatsSource
	showHUD bool
	hidden  bool

	vp      render.Viewport
	mode    Mode
	field   Field
	pending bool // request in flight
	results search.Response
	toasts  *Toasts

	// hit areas from the last render
	searchBtn       Rect
	panel, closeBtn Rect
	prompt          Rect
}

func New(hover HoverSource, det DetailSource, actions Actions, logger *zap.Logger) *Overlay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Overlay{
		hover:   hover,
		detail:  det,
		actions: actions,
		logger:  logger.Named("ui"),
		toasts:  NewToasts(3),
	}
}

// SetStats attaches the diagnostics source shown by the d key
func (o *Overlay) SetStats(s StatsSource) { o.stats = s }

func (o *Overlay) StatsVisible() bool        { return o.showHUD }
func (o *Overlay) Mode() Mode                { return o.mode }
func (o *Overlay) Toasts() *Toasts           { return o.toasts }
func (o *Overlay) Value() string             { return o.field.Value() }
func (o *Overlay) Pending() bool             { return o.pending }
func (o *Overlay) IsVisible() bool           { return !o.hidden }
func (o *Overlay) Resize(vp render.Viewport) { o.vp = vp }

// SetHidden takes the overlay out of rendering and input. Hiding drops any open prompt
func (o *Overlay) SetHidden(h bool) {
	if h && !o.hidden {
		o.Dismiss()
	}
	o.hidden = h
}

// Step ages toasts
func (o *Overlay) Step(f clock.Frame) { o.toasts.Step(f.Delta) }

// Notify shows a toast
func (o *Overlay) Notify(sev Severity, millis float64, lines ...string) {
	o.toasts.Push(sev, millis, lines...)
}

func (o *Overlay) detailView() detail.View {
	if o.detail == nil {
		return detail.View{}
	}
	return o.detail.View()
}

// Open focuses a prompt
func (o *Overlay) Open(m Mode) {
	o.mode = m
	o.pending = false
	o.field.Clear()
	switch m {
	case ModeMessage:
		o.field.Limit = messageLimit
	case ModeSearch:
		o.field.Limit = queryLimit
	}
}

// Dismiss returns focus to the scene
func (o *Overlay) Dismiss() {
	o.mode = ModeScene
	o.pending = false
	o.field.Clear()
}

// MessageResult applies the outcome of a send
func (o *Overlay) MessageResult(p *event.MessagePayload) {
	o.pending = false
	if p == nil {
		return
	}
	if p.Err != nil {
		o.logger.Warn("message send failed", zap.Error(p.Err))
		o.Notify(Failure, errorMillis, TextSendFailed, TextSendFailHint)
		return
	}
	if o.mode == ModeMessage {
		o.Dismiss()
	}
	lines := []string{TextDelivered, TextDeliveredSub, TextBirthday}
	if p.Warning != "" {
		lines = append(lines, p.Warning)
	}
	o.Notify(Success, SuccessMillis, lines...)
}

// SearchResult shows links or the failure
func (o *Overlay) SearchResult(p *event.SearchPayload) {
	o.pending = false
	if p == nil {
		return
	}
	if p.Err != nil {
		o.logger.Warn("search failed", zap.String("query", p.Query), zap.Error(p.Err))
		o.Notify(Failure, errorMillis, "検索に失敗しました", p.Err.Error())
		return
	}
	if o.mode != ModeSearch && o.mode != ModeResults {
		return
	}
	o.results = search.Response{Results: p.Results, Query: p.Query, TotalResults: len(p.Results)}
	o.mode = ModeResults
}

// HandleKey consumes keys for the focused surface. Unconsumed keys fall through to the engine
func (o *Overlay) HandleKey(ev terminal.Event) bool {
	if o.hidden {
		return false
	}
	switch o.mode {
	case ModeMessage, ModeSearch:
		switch ev.Key {
		case terminal.KeyEscape:
			o.Dismiss()
		case terminal.KeyEnter:
			o.submit()
		default:
			o.field.HandleKey(ev.Key, ev.Rune)
		}
		return true
	case ModeResults:
		if ev.Key == terminal.KeyEscape || ev.Key == terminal.KeyEnter {
			o.Dismiss()
		}
		return true
	}

	if o.detailView().State.Open() {
		switch ev.Key {
		case terminal.KeyEscape:
			o.closeDetail()
			return true
		case terminal.KeySpace:
			o.togglePlayer()
			return true
		}
		return false
	}

	if ev.Key == terminal.KeyRune {
		switch ev.Rune {
		case 'm':
			o.Open(ModeMessage)
			return true
		case '/', 's':
			o.Open(ModeSearch)
			return true
		case 'd':
			if o.stats == nil {
				return false
			}
			o.showHUD = !o.showHUD
			return true
		}
	}
	return false
}

func (o *Overlay) submit() {
	if o.pending {
		return
	}
	v := strings.TrimSpace(o.field.Value())
	if v == "" {
		return
	}
	switch o.mode {
	case ModeMessage:
		if o.actions.SendMessage != nil {
			o.pending = true
			o.actions.SendMessage(v)
		}
	case ModeSearch:
		if o.actions.Search != nil {
			o.pending = true
			o.actions.Search(v)
		}
	}
}

func (o *Overlay) closeDetail() {
	if o.actions.CloseDetail != nil {
		o.actions.CloseDetail()
	}
}

func (o *Overlay) togglePlayer() {
	if o.actions.TogglePlayer == nil {
		return
	}
	if err := o.actions.TogglePlayer(); err != nil {
		o.logger.Warn("player toggle failed", zap.Error(err))
		o.Notify(Failure, errorMillis, "再生できません", err.Error())
	}
}

// Click claims presses that land on overlay surfaces. While a prompt is open every
// click is claimed and a click outside it dismisses the prompt
func (o *Overlay) Click(p vmath.Vec2) bool {
	if o.hidden || o.vp.Empty() {
		return false
	}
	x, y := o.vp.ToCell(p)
	if o.mode != ModeScene {
		if !o.prompt.Contains(x, y) {
			o.Dismiss()
		}
		return true
	}
	if o.detailView().State.Open() {
		if o.closeBtn.Contains(x, y) {
			o.closeDetail()
			return true
		}
		return o.panel.Contains(x, y)
	}
	if o.searchBtn.Contains(x, y) {
		o.Open(ModeSearch)
		return true
	}
	return false
}

func (o *Overlay) Render(ctx render.Context, c *render.Canvas) {
	o.vp = c.VP
	buf := c.Buf
	view := o.detailView()

	o.renderButtons(buf)
	if view.State.Open() {
		o.renderDetail(buf, view)
	} else {
		o.panel, o.closeBtn = Rect{}, Rect{}
		o.renderTooltip(buf)
	}
	switch o.mode {
	case ModeMessage, ModeSearch:
		o.renderPrompt(buf, ctx)
	case ModeResults:
		o.renderResults(buf)
	default:
		o.prompt = Rect{}
	}
	if o.showHUD {
		o.renderStats(buf)
	}
	o.toasts.render(buf)
}

func (o *Overlay) renderStats(buf *render.Buffer) {
	if o.stats == nil {
		return
	}
	snap := o.stats.Snapshot()
	w := 0
	for _, m := range snap {
		w = max(w, render.TextWidth(m.Key)+render.TextWidth(m.Value)+2)
	}
	r := Rect{X: 0, Y: 1, W: min(w+4, buf.Width()), H: min(len(snap)+2, buf.Height()-1)}
	if r.Empty() {
		return
	}
	box(buf, r, textDim, panelBg, 0.75)
	in := r.Inner()
	for i, m := range snap {
		if i >= in.H {
			break
		}
		n := text(buf, in.X+1, in.Y+i, in.W-2, m.Key, textDim, false)
		text(buf, in.X+1+n+1, in.Y+i, in.W-3-n, m.Value, textMain, true)
	}
}

func (o *Overlay) renderButtons(buf *render.Buffer) {
	obs := " ✧ 観測所 "
	ow := render.TextWidth(obs)
	o.searchBtn = Rect{X: buf.Width() - ow - 1, Y: 0, W: ow, H: 1}
	if o.searchBtn.X < 0 {
		o.searchBtn = Rect{}
		return
	}
	fill(buf, o.searchBtn, panelBg, 0.7)
	text(buf, o.searchBtn.X, 0, ow, obs, cyan, false)
}

func (o *Overlay) renderTooltip(buf *render.Buffer) {
	if o.hover == nil || o.mode != ModeScene {
		return
	}
	hp := o.hover.Hovered()
	if hp == nil || hp.Song == nil {
		return
	}
	title, artist := hp.Song.Title, hp.Song.Artist
	w := max(render.TextWidth(title), render.TextWidth(artist)) + 4
	w = min(w, buf.Width())
	x, y := o.vp.ToCell(hp.Pos)
	r := Rect{X: x - w/2, Y: y + 2, W: w, H: 4}
	if r.Y+r.H > buf.Height() {
		r.Y = y - r.H - 1
	}
	r.X = max(0, min(r.X, buf.Width()-w))
	r.Y = max(0, r.Y)
	accent := textMain
	if hp.Color != nil {
		accent = *hp.Color
	}
	box(buf, r, accent, panelBg, 0.85)
	in := r.Inner()
	text(buf, in.X+1, in.Y, in.W-2, title, textMain, true)
	text(buf, in.X+1, in.Y+1, in.W-2, artist, textDim, false)
}

// kindLabel names the selected object the way the panel subtitle shows it
func kindLabel(sel event.SelectPayload) string {
	switch sel.Form {
	case entity.Spiral.String():
		return "渦巻銀河"
	case entity.Elliptical.String():
		return "楕円銀河"
	case entity.Cloud.String():
		return "星雲"
	case entity.Pillar.String():
		return "創造の柱"
	}
	if sel.Kind == entity.KindStar {
		return "記憶の星"
	}
	return "天体"
}

func describe(sel event.SelectPayload) string {
	if sel.Song != nil {
		if sel.Song.Description != "" {
			return sel.Song.Description
		}
		return "美しいピアノの旋律。"
	}
	switch sel.Form {
	case entity.Spiral.String():
		return "塵とガス、星々が回転する円盤状の銀河。"
	case entity.Elliptical.String():
		return "滑らかな楕円形の星の集まり。"
	}
	return "宇宙に広がるガスと塵の巨大な雲。"
}

func stateLine(v detail.View) string {
	switch v.State {
	case detail.StateLoading:
		return "◌ 読み込み中..."
	case detail.StateReady:
		return "▷ 準備完了"
	case detail.StatePlaying:
		return "▶ 再生中"
	case detail.StatePaused:
		return "❚❚ 一時停止"
	case detail.StateUnavailable:
		if v.Err != nil {
			return fmt.Sprintf("✗ 再生できません (%v)", v.Err)
		}
		return "✗ 再生できません"
	}
	return ""
}

func (o *Overlay) renderDetail(buf *render.Buffer, v detail.View) {
	r := centered(buf.Width(), buf.Height(), 60, 14)
	o.panel = r
	if r.W < 10 || r.H < 6 {
		o.closeBtn = Rect{}
		return
	}
	sel := v.Selection
	accent := sel.Color
	if accent == (render.RGB{}) {
		accent = gold
	}
	box(buf, r, accent, panelBg, 0.92)
	in := r.Inner()
	o.closeBtn = Rect{X: r.X + r.W - 4, Y: r.Y, W: 3, H: 1}
	text(buf, o.closeBtn.X, o.closeBtn.Y, 3, "[×]", textDim, false)

	row := in.Y
	text(buf, in.X+1, row, in.W-2, kindLabel(sel), accent, false)
	row++
	title, artist := "", ""
	if sel.Song != nil {
		title, artist = sel.Song.Title, sel.Song.Artist
	} else {
		title = kindLabel(sel)
		artist = "星間雲"
		if sel.Kind == entity.KindGalaxy {
			artist = "銀河系"
		}
	}
	text(buf, in.X+1, row, in.W-2, title, textMain, true)
	row++
	text(buf, in.X+1, row, in.W-2, artist, textDim, false)
	row += 2
	for _, l := range wrap(describe(sel), in.W-2) {
		if row >= in.Y+in.H-3 {
			break
		}
		text(buf, in.X+1, row, in.W-2, l, textMain, false)
		row++
	}

	foot := in.Y + in.H - 1
	text(buf, in.X+1, foot-2, in.W-2, stateLine(v), accent, false)
	if v.VideoID != "" {
		text(buf, in.X+1, foot-1, in.W-2, detail.WatchURL(v.VideoID), textDim, false)
	}
	text(buf, in.X+1, foot, in.W-2, "[space] 再生/一時停止  [esc] 閉じる", textDim, false)
}

func (o *Overlay) renderPrompt(buf *render.Buffer, ctx render.Context) {
	title, hint, accent, busy := textMessageTitle, textMessageHint, amber, textSending
	if o.mode == ModeSearch {
		title, hint, accent, busy = textSearchTitle, textSearchHint, cyan, textScanning
	}
	r := centered(buf.Width(), buf.Height(), 64, 7)
	o.prompt = r
	if r.W < 10 || r.H < 5 {
		return
	}
	box(buf, r, accent, panelBg, 0.92)
	in := r.Inner()
	textCentered(buf, in.X, in.Y, in.W, title, accent, true)

	fw := in.W - 4
	o.field.AdjustScroll(fw)
	fy := in.Y + 2
	fill(buf, Rect{X: in.X + 1, Y: fy, W: in.W - 2, H: 1}, render.RGB{R: 20, G: 14, B: 40}, 0.9)
	if len(o.field.Text) == 0 {
		text(buf, in.X+2, fy, fw, hint, textDim, false)
	} else {
		end := min(len(o.field.Text), o.field.Scroll+fw)
		text(buf, in.X+2, fy, fw, string(o.field.Text[o.field.Scroll:end]), textMain, false)
	}
	// blink at ~2Hz
	if !o.pending && int(ctx.Millis()/500)%2 == 0 {
		cx := in.X + 2 + render.TextWidth(string(o.field.Text[o.field.Scroll:o.field.Cursor]))
		buf.Set(cx, fy, 0, accent, accent, render.BlendAlphaBg, 0.8)
	}

	status := "[enter] 送信  [esc] キャンセル"
	if o.pending {
		status = busy
	}
	text(buf, in.X+1, in.Y+in.H-1, in.W-2, status, textDim, false)
}

func (o *Overlay) renderResults(buf *render.Buffer) {
	n := len(o.results.Results)
	r := centered(buf.Width(), buf.Height(), 72, max(n*2+4, 6))
	o.prompt = r
	if r.W < 10 || r.H < 5 {
		return
	}
	box(buf, r, cyan, panelBg, 0.92)
	in := r.Inner()
	textCentered(buf, in.X, in.Y, in.W, fmt.Sprintf("%s  「%s」 %d件", textSearchTitle, o.results.Query, n), cyan, true)
	if n == 0 {
		text(buf, in.X+1, in.Y+2, in.W-2, textNoResults, textDim, false)
		return
	}
	row := in.Y + 2
	for _, res := range o.results.Results {
		if row+1 >= in.Y+in.H {
			break
		}
		icon := "▶"
		if res.Type == search.KindSheet {
			icon = "♫"
		}
		text(buf, in.X+1, row, in.W-2, icon+" "+res.Title, textMain, false)
		text(buf, in.X+3, row+1, in.W-4, res.URL, textDim, false)
		row += 2
	}
}

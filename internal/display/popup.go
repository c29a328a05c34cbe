package display

import (
	"log/slog"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// Popup is the layer-shell window showing one card.
type Popup struct {
	window *gtk.Window
	config *config.Config
	logger *slog.Logger
	id     string

	// Widgets
	box         *gtk.Box
	iconImage   *gtk.Image
	titleLbl    *gtk.Label
	messageLbl  *gtk.Label
	closeBtn    *gtk.Button
	progressBar *gtk.ProgressBar

	// Callbacks
	onDismiss func()
	onHover   func(hovering bool)

	// State
	offset   int
	opacity  float64
	target   float64
	state    model.CardState
	progress stack.Progress
	closed   bool
}

// NewPopup creates the window for c. It is not shown until Present.
func NewPopup(app *gtk.Application, c *stack.Card, cfg *config.Config, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Popup{
		config: cfg,
		logger: logger,
		id:     c.ID,
		offset: -1,
		state:  c.State(),
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.AddCSSClass("aurora-window")
	p.window.SetDefaultSize(cfg.Display.Width, cfg.Display.CardHeight)
	p.window.SetSizeRequest(cfg.Display.Width, cfg.Display.CardHeight)
	p.window.SetOpacity(0)

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "aurora-notification")

	p.buildUI(c)
	p.connectSignals()

	return p
}

// buildUI constructs the card widget hierarchy:
// header (icon, title, close) above the message and the countdown bar.
func (p *Popup) buildUI(c *stack.Card) {
	p.box = gtk.NewBox(gtk.OrientationVertical, 6)
	p.box.AddCSSClass("aurora-card")
	p.box.AddCSSClass(c.Severity.String())
	p.box.AddCSSClass(p.colorSchemeClass())

	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	header.AddCSSClass("card-header")

	p.iconImage = gtk.NewImageFromIconName(c.Severity.Icon())
	p.iconImage.AddCSSClass("card-icon")
	p.iconImage.SetPixelSize(20)
	header.Append(p.iconImage)

	p.titleLbl = gtk.NewLabel(c.Severity.Title())
	p.titleLbl.AddCSSClass("card-title")
	p.titleLbl.SetXAlign(0)
	p.titleLbl.SetHExpand(true)
	header.Append(p.titleLbl)

	p.closeBtn = gtk.NewButtonFromIconName("window-close-symbolic")
	p.closeBtn.AddCSSClass("card-close")
	p.closeBtn.AddCSSClass("flat")
	p.closeBtn.SetTooltipText("Dismiss")
	header.Append(p.closeBtn)

	p.box.Append(header)

	// Card messages are escaped or sanitised before they reach us, so they
	// are always valid Pango markup.
	p.messageLbl = gtk.NewLabel("")
	p.messageLbl.AddCSSClass("card-message")
	p.messageLbl.SetXAlign(0)
	p.messageLbl.SetWrap(true)
	p.messageLbl.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	p.messageLbl.SetMaxWidthChars(50)
	p.messageLbl.SetVExpand(true)
	p.messageLbl.SetMarkup(c.Message)
	p.box.Append(p.messageLbl)

	p.progressBar = gtk.NewProgressBar()
	p.progressBar.AddCSSClass("card-progress")
	p.progressBar.SetFraction(1)
	p.box.Append(p.progressBar)

	p.window.SetChild(p.box)
}

func (p *Popup) connectSignals() {
	p.closeBtn.ConnectClicked(func() {
		if p.onDismiss != nil {
			p.onDismiss()
		}
	})

	motionCtrl := gtk.NewEventControllerMotion()
	motionCtrl.ConnectEnter(func(x, y float64) {
		if p.onHover != nil {
			p.onHover(true)
		}
	})
	motionCtrl.ConnectLeave(func() {
		if p.onHover != nil {
			p.onHover(false)
		}
	})
	p.window.AddController(motionCtrl)
}

// Present maps the window.
func (p *Popup) Present() {
	p.window.Present()
}

// Sync applies a card's state to the window. Opacity changes are animated
// by Tick rather than applied here.
func (p *Popup) Sync(c *stack.Card, expanded bool, now time.Time) {
	if p.closed {
		return
	}

	p.state = c.State()
	p.target = Opacity(c.State(), c.Index(), expanded)
	p.progress = c.Progress()
	p.progressBar.SetFraction(p.progress.At(now))

	setClass(p.box, "entering", p.state == model.StateEntering)
	setClass(p.box, "paused", p.state == model.StatePaused)
	setClass(p.box, "exiting", p.state == model.StateExiting)

	// Suppressed cards are tracked by the stack but never drawn or hit.
	p.window.SetVisible(!c.Suppressed())
	p.closeBtn.SetSensitive(p.state != model.StateExiting)

	offset := Offset(c.Index(), expanded, p.config.Display.CardHeight, p.config.Display.Gap)
	if offset != p.offset {
		p.offset = offset
		p.updateAnchorPosition()
	}
}

// Tick advances the fade and redraws the progress bar. It reports whether
// the popup still needs frames.
func (p *Popup) Tick(now time.Time, dt time.Duration) bool {
	if p.closed {
		return false
	}

	if p.opacity != p.target {
		p.opacity = Approach(p.opacity, p.target, dt, p.config.Timeouts.Exit.Duration())
		p.window.SetOpacity(p.opacity)
	}
	if !p.progress.Frozen() {
		p.progressBar.SetFraction(p.progress.At(now))
	}

	return p.opacity != p.target || !p.progress.Frozen()
}

// UpdateConfig swaps the configuration and re-anchors the window.
func (p *Popup) UpdateConfig(cfg *config.Config) {
	p.config = cfg
	p.window.SetSizeRequest(cfg.Display.Width, cfg.Display.CardHeight)
	setClass(p.box, "light", p.colorSchemeClass() == "light")
	setClass(p.box, "dark", p.colorSchemeClass() == "dark")
	p.offset = -1
}

// Close destroys the window. Repeated calls are no-ops.
func (p *Popup) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.window.Close()
}

// updateAnchorPosition sets the layer-shell anchors and margins based on config.
func (p *Popup) updateAnchorPosition() {
	pos := config.Position(p.config.Display.Position)
	offsetX := p.config.Display.OffsetX
	offsetY := p.config.Display.OffsetY + p.offset

	// Reset all anchors first
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeRight, false)

	switch pos {
	case config.PositionTopRight:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, offsetY)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeRight, offsetX)

	case config.PositionTopLeft:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, offsetY)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeLeft, offsetX)

	case config.PositionTopCenter:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, offsetY)

	case config.PositionBottomRight:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeBottom, offsetY)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeRight, offsetX)

	case config.PositionBottomCenter:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeBottom, offsetY)

	default:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeBottom, offsetY)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeLeft, offsetX)
	}
}

// OnDismiss sets the callback for the close button.
func (p *Popup) OnDismiss(cb func()) {
	p.onDismiss = cb
}

// OnHover sets the callback for pointer enter and leave.
func (p *Popup) OnHover(cb func(hovering bool)) {
	p.onHover = cb
}

// colorSchemeClass returns "light" or "dark" based on config or system preference.
func (p *Popup) colorSchemeClass() string {
	switch config.ColorScheme(p.config.Theme.ColorScheme) {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if adw.StyleManagerGetDefault().Dark() {
			return "dark"
		}
		return "light"
	}
}

func setClass(w *gtk.Box, class string, on bool) {
	if on {
		w.AddCSSClass(class)
	} else {
		w.RemoveCSSClass(class)
	}
}

// Command leveled is the level-editor front-end: an element tree with
// delegated event handling, context menus, and the panels that edit a
// YAML level.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/leveled/asset"
	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/input"
	"github.com/milk9111/leveled/level"
	"github.com/milk9111/leveled/logging"
	"github.com/milk9111/leveled/menu"
	"github.com/milk9111/leveled/panel"
	"github.com/milk9111/leveled/script"
	"github.com/milk9111/leveled/store"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

type Game struct {
	width, height int

	doc      *ui.Document
	reg      *event.Registry
	pump     *input.Pump
	global   *menu.GlobalInput
	menus    *menu.Controller
	renderer *ui.Renderer
	th       *theme.Theme
	st       *store.Store

	ed       *panel.Editor
	toolbar  *panel.Toolbar
	layers   *panel.Layers
	outliner *panel.Outliner
	assets   *panel.Assets
	canvas   *panel.Canvas
	dialog   *panel.Dialog

	watcher *asset.Watcher
	runner  *script.Runner
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	for _, ev := range g.pump.Poll(g.doc, g.width, g.height) {
		g.global.Handle(ev)
		if !ev.Stopped() {
			g.reg.Dispatch(ev)
		}
	}

	if g.dialog.Visible() {
		g.dialog.AppendRunes(ebiten.AppendInputChars(nil))
	} else if g.doc.Focused() == nil {
		g.hotkeys()
	}

	g.menus.Update(dt)
	g.drainWatcher()
	g.toolbar.SetStatus(g.ed.StatusLine)
	return nil
}

// hotkeys are edge-detected tool shortcuts, suppressed whenever a text
// field has focus.
func (g *Game) hotkeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.ed.SetTool(panel.ToolBrush)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.ed.SetTool(panel.ToolErase)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.ed.SetTool(panel.ToolFill)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.ed.SetTool(panel.ToolSelect)
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.ed.Undo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := g.ed.Save(); err != nil {
			logging.Errorf("save: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		g.ed.DeleteSelected()
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			logging.Debugf("watch: %s changed", path)
			g.assets.Refresh()
			g.runner.Reload()
		case err := <-g.watcher.Errors:
			if err != nil {
				logging.Warnf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(theme.Color(g.th.Colors.Background))
	g.canvas.Draw(screen)
	g.renderer.Draw(screen, g.doc)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func main() {
	var (
		levelPath = flag.String("level", "", "level file to open")
		assetsDir = flag.String("assets", "assets", "asset directory")
		macrosDir = flag.String("macros", "macros", "macro script directory")
		themePath = flag.String("theme", "theme.toml", "theme file")
		storePath = flag.String("store", ".leveled.json", "editor settings file")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()
	logging.SetVerbose(*verbose)

	th := theme.Load(*themePath)
	st := store.Open(*storePath)

	lvl := level.New("untitled", 64, 36, 16)
	filename := *levelPath
	if filename == "" {
		filename, _ = st.GetString("last_level")
	}

	const width, height = 1280, 800
	doc := ui.NewDocument(width, height)
	reg := event.NewRegistry(doc)
	gestures := gesture.NewState()
	renderer := ui.NewRenderer(th.FontSize)
	menus := menu.NewController(doc, reg, th, renderer.TextWidth)

	ed := panel.NewEditor(lvl, gestures)
	if filename != "" {
		if err := ed.Load(filename); err != nil {
			logging.Warnf("load %s: %v", filename, err)
		}
	}

	dialog, err := panel.NewDialog(doc, reg, th)
	if err != nil {
		log.Fatalf("dialog: %v", err)
	}
	runner := script.NewRunner(*macrosDir)

	g := &Game{
		width:    width,
		height:   height,
		doc:      doc,
		reg:      reg,
		pump:     input.NewPump(),
		global:   menu.NewGlobalInput(doc, gestures, menus),
		menus:    menus,
		renderer: renderer,
		th:       th,
		st:       st,
		ed:       ed,
		dialog:   dialog,
		runner:   runner,
	}
	g.canvas = panel.NewCanvas(ed, doc, reg, menus, th, st)
	g.toolbar = panel.NewToolbar(ed, runner, doc, reg, menus, dialog, th, st)
	g.layers = panel.NewLayers(ed, doc, reg, menus, dialog, th, st)
	g.outliner = panel.NewOutliner(ed, doc, reg, menus, dialog, th, st)
	g.assets = panel.NewAssets(*assetsDir, ed, doc, reg, menus, th, st)

	if w, err := asset.NewWatcher(*assetsDir, *macrosDir); err == nil {
		g.watcher = w
	} else {
		logging.Warnf("watch: %v", err)
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("leveled")

	err = ebiten.RunGame(g)

	// explicit close rather than a defer: os.Exit below would skip it
	if g.watcher != nil {
		g.watcher.Close()
	}

	// persist panel bounds and the open file for the next session
	for _, p := range []*panel.Panel{g.toolbar.Panel, g.layers.Panel, g.outliner.Panel, g.assets.Panel, g.canvas.Panel} {
		p.Persist(st)
	}
	if ed.Filename != "" {
		st.SetString("last_level", ed.Filename)
	}
	if serr := st.Save(); serr != nil {
		logging.Warnf("store: %v", serr)
	}

	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

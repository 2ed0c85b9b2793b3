package stats

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window shows the statistics, the last seven days and today's flow.
type Window struct {
	window  fyne.Window
	summary *fyne.Container
	week    *fyne.Container
	flow    *fyne.Container
}

// New creates the hidden statistics window.
func New(app fyne.App) *Window {
	window := app.NewWindow("Statistics")
	view := &Window{
		window:  window,
		summary: container.NewVBox(),
		week:    container.NewVBox(),
		flow:    container.NewVBox(),
	}

	tabs := container.NewAppTabs(
		container.NewTabItem("Overview", container.NewVScroll(container.NewVBox(
			view.summary,
			widget.NewSeparator(),
			widget.NewLabelWithStyle("Last 7 days", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			view.week,
		))),
		container.NewTabItem("Today", container.NewVScroll(view.flow)),
	)
	window.SetContent(tabs)
	window.Resize(fyne.NewSize(360, 420))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Update replaces the displayed report on the UI goroutine.
func (view *Window) Update(report Report) {
	fyne.Do(func() {
		view.applyUnsafe(report)
	})
}

func (view *Window) applyUnsafe(report Report) {
	fillLabels(view.summary, SummaryLines(report.Summary))
	fillLabels(view.week, WeekRows(report.Week))
	rows := FlowRows(report.Flow)
	if len(rows) == 0 {
		rows = []string{"No sessions yet"}
	}
	fillLabels(view.flow, rows)
}

func fillLabels(box *fyne.Container, lines []string) {
	objects := make([]fyne.CanvasObject, 0, len(lines))
	for _, line := range lines {
		objects = append(objects, widget.NewLabel(line))
	}
	box.Objects = objects
	box.Refresh()
}

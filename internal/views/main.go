package views

import (
	"fmt"
	"image"

	"country-capital/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const WindowTitle = "Get the capital of every country"

// MainView is the single lookup window. Every update is marshalled with fyne.Do
// so the controller may call it from any goroutine.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	searchBar     *components.SearchBar
	resultPanel   *components.ResultPanel
	statusBar     *components.StatusBar

	submitHandler func(string)
}

// NewMainView builds the window content; flagSize is the flag area in device-independent pixels.
func NewMainView(window fyne.Window, flagSize fyne.Size) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(flagSize)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(flagSize fyne.Size) {
	mv.searchBar = components.NewSearchBar()
	mv.resultPanel = components.NewResultPanel(flagSize.Width, flagSize.Height)
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	content := container.NewVBox(
		mv.searchBar.GetContainer(),
		widget.NewSeparator(),
		mv.resultPanel.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		nil,                         // top
		mv.statusBar.GetContainer(), // bottom
		nil,                         // left
		nil,                         // right
		container.NewPadded(content),
	)

	mv.window.SetTitle(WindowTitle)
	mv.window.SetContent(mv.mainContainer)
	mv.window.Canvas().Focus(mv.searchBar.Entry())
}

// setupEventHandlers forwards search bar submissions to the controller
func (mv *MainView) setupEventHandlers() {
	mv.searchBar.SetSubmitHandler(func(text string) {
		if mv.submitHandler != nil {
			mv.submitHandler(text)
		}
	})
}

// SetSubmitHandler sets the handler for lookup requests
func (mv *MainView) SetSubmitHandler(handler func(string)) {
	mv.submitHandler = handler
}

// ShowLoading displays the transient loading indicator
func (mv *MainView) ShowLoading(message string) {
	fyne.Do(func() {
		mv.resultPanel.ShowLoading(message)
		mv.resultPanel.ClearFlag()
	})
}

// ShowCapital displays the capital name; the previous flag is dropped until the new one arrives
func (mv *MainView) ShowCapital(capital string) {
	fyne.Do(func() {
		mv.resultPanel.ShowCapital(capital)
		mv.resultPanel.ClearFlag()
	})
}

// ShowFlag displays the flag image
func (mv *MainView) ShowFlag(img image.Image, description string) {
	fyne.Do(func() {
		mv.resultPanel.ShowFlag(img, description)
	})
}

// ShowFlagUnavailable shows the text fallback in the flag area
func (mv *MainView) ShowFlagUnavailable(message string) {
	fyne.Do(func() {
		mv.resultPanel.ShowFlagText(message)
	})
}

// ShowError replaces the result area with message and clears the flag
func (mv *MainView) ShowError(message string) {
	fyne.Do(func() {
		mv.resultPanel.ShowError(message)
	})
}

// SetBusy toggles the activity indicator while a lookup runs
func (mv *MainView) SetBusy(busy bool) {
	fyne.Do(func() {
		mv.searchBar.SetBusy(busy)
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// SetAPIInfo shows the API root in the status bar
func (mv *MainView) SetAPIInfo(baseURL string) {
	fyne.Do(func() {
		mv.statusBar.SetAPIInfo(baseURL)
	})
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// ShowAboutDialog displays application information
func (mv *MainView) ShowAboutDialog(appName, version string) {
	fyne.Do(func() {
		content := container.NewVBox(
			widget.NewLabel(appName),
			widget.NewLabel(fmt.Sprintf("Version: %s", version)),
			widget.NewLabel("Country data from restcountries.com"),
		)
		dialog.ShowCustom("About", "Close", content, mv.window)
	})
}

// Reset clears the entry, the result area and the status line
func (mv *MainView) Reset() {
	fyne.Do(func() {
		mv.searchBar.Clear()
		mv.resultPanel.Reset()
		mv.statusBar.Reset()
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetSearchBar returns the search bar component
func (mv *MainView) GetSearchBar() *components.SearchBar {
	return mv.searchBar
}

// GetResultPanel returns the result panel component
func (mv *MainView) GetResultPanel() *components.ResultPanel {
	return mv.resultPanel
}

// GetStatusBar returns the status bar component
func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

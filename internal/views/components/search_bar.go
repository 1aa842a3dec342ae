package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SearchBar holds the country name entry and the submit button
type SearchBar struct {
	container *fyne.Container
	prompt    *widget.Label
	entry     *widget.Entry
	button    *widget.Button
	activity  *widget.Activity

	submitHandler func(string)
}

// NewSearchBar creates a new search bar component
func NewSearchBar() *SearchBar {
	sb := &SearchBar{}
	sb.createComponents()
	sb.buildLayout()
	sb.setupEventHandlers()
	return sb
}

func (sb *SearchBar) createComponents() {
	sb.prompt = widget.NewLabelWithStyle("Enter country name", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	sb.entry = widget.NewEntry()
	sb.entry.SetPlaceHolder("e.g. France")

	sb.button = widget.NewButton("Get Capital", nil)
	sb.button.Importance = widget.HighImportance
	sb.activity = widget.NewActivity()
	sb.activity.Hide()
}

func (sb *SearchBar) buildLayout() {
	sb.container = container.NewVBox(
		sb.prompt,
		sb.entry,
		container.NewStack(sb.button, container.NewCenter(sb.activity)),
	)
}

// setupEventHandlers submits on button tap and on Enter
func (sb *SearchBar) setupEventHandlers() {
	sb.button.OnTapped = func() {
		sb.submit(sb.entry.Text)
	}
	sb.entry.OnSubmitted = func(text string) {
		sb.submit(text)
	}
}

func (sb *SearchBar) submit(text string) {
	if sb.submitHandler != nil {
		sb.submitHandler(text)
	}
}

// SetSubmitHandler sets the handler for lookup requests
func (sb *SearchBar) SetSubmitHandler(handler func(string)) {
	sb.submitHandler = handler
}

// SetBusy shows the activity indicator while a lookup is running. The button stays
// enabled so a new query can be queued behind the running one.
func (sb *SearchBar) SetBusy(busy bool) {
	if busy {
		sb.activity.Show()
		sb.activity.Start()
	} else {
		sb.activity.Stop()
		sb.activity.Hide()
	}
}

// Busy reports whether the activity indicator is showing
func (sb *SearchBar) Busy() bool {
	return sb.activity.Visible()
}

// Text returns the current entry content
func (sb *SearchBar) Text() string {
	return sb.entry.Text
}

// Clear empties the entry
func (sb *SearchBar) Clear() {
	sb.entry.SetText("")
}

// Entry exposes the input field, used for focus handling
func (sb *SearchBar) Entry() *widget.Entry {
	return sb.entry
}

// Button returns the submit button
func (sb *SearchBar) Button() *widget.Button {
	return sb.button
}

// GetContainer returns the search bar container
func (sb *SearchBar) GetContainer() *fyne.Container {
	return sb.container
}

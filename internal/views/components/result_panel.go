package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ResultPanel shows the capital name and the flag, or the text standing in for either
type ResultPanel struct {
	container *fyne.Container
	capital   *widget.RichText
	flagImage *canvas.Image
	flagText  *widget.Label

	hasFlag         bool
	flagDescription string
}

// NewResultPanel creates a result panel whose flag area is flagWidth x flagHeight
func NewResultPanel(flagWidth, flagHeight float32) *ResultPanel {
	rp := &ResultPanel{}
	rp.createComponents(flagWidth, flagHeight)
	rp.buildLayout()
	return rp
}

func (rp *ResultPanel) createComponents(flagWidth, flagHeight float32) {
	rp.capital = widget.NewRichText()
	rp.capital.Wrapping = fyne.TextWrapWord

	rp.flagImage = canvas.NewImageFromImage(nil)
	rp.flagImage.FillMode = canvas.ImageFillContain
	rp.flagImage.ScaleMode = canvas.ImageScaleSmooth
	rp.flagImage.SetMinSize(fyne.NewSize(flagWidth, flagHeight))
	rp.flagImage.Hide()

	rp.flagText = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	rp.flagText.Hide()
}

func (rp *ResultPanel) buildLayout() {
	rp.container = container.NewVBox(
		rp.capital,
		container.NewCenter(container.NewStack(rp.flagImage, rp.flagText)),
	)
}

// ShowCapital displays a resolved capital name in heading size
func (rp *ResultPanel) ShowCapital(name string) {
	rp.setCapital(name, theme.SizeNameHeadingText, theme.ColorNameForeground, true)
}

// ShowLoading displays the transient loading indicator
func (rp *ResultPanel) ShowLoading(message string) {
	rp.setCapital(message, theme.SizeNameSubHeadingText, theme.ColorNameDisabled, false)
}

// ShowError replaces the result area with message and clears the flag
func (rp *ResultPanel) ShowError(message string) {
	rp.setCapital(message, theme.SizeNameSubHeadingText, theme.ColorNameError, false)
	rp.ClearFlag()
}

// ShowFlag displays the flag image
func (rp *ResultPanel) ShowFlag(img image.Image, description string) {
	rp.flagImage.Image = img
	rp.flagImage.Refresh()
	rp.flagImage.Show()
	rp.flagText.Hide()
	rp.flagDescription = description
	rp.hasFlag = true
}

// ShowFlagText shows message where the flag would be
func (rp *ResultPanel) ShowFlagText(message string) {
	rp.flagImage.Image = nil
	rp.flagImage.Hide()
	rp.flagText.SetText(message)
	rp.flagText.Show()
	rp.hasFlag = false
	rp.flagDescription = ""
}

// ClearFlag empties the flag area
func (rp *ResultPanel) ClearFlag() {
	rp.flagImage.Image = nil
	rp.flagImage.Hide()
	rp.flagText.SetText("")
	rp.flagText.Hide()
	rp.hasFlag = false
	rp.flagDescription = ""
}

// Reset returns the panel to its empty initial state
func (rp *ResultPanel) Reset() {
	rp.capital.Segments = nil
	rp.capital.Refresh()
	rp.ClearFlag()
}

// CapitalText returns the text currently in the capital area
func (rp *ResultPanel) CapitalText() string {
	return rp.capital.String()
}

// FlagText returns the fallback text shown in the flag area, empty when an image or nothing is shown
func (rp *ResultPanel) FlagText() string {
	if !rp.flagText.Visible() {
		return ""
	}
	return rp.flagText.Text
}

// FlagDescription returns the alt text of the displayed flag
func (rp *ResultPanel) FlagDescription() string {
	return rp.flagDescription
}

// HasFlag returns true if a flag image is displayed
func (rp *ResultPanel) HasFlag() bool {
	return rp.hasFlag
}

// GetContainer returns the result panel container
func (rp *ResultPanel) GetContainer() *fyne.Container {
	return rp.container
}

func (rp *ResultPanel) setCapital(text string, size fyne.ThemeSizeName, color fyne.ThemeColorName, bold bool) {
	rp.capital.Segments = []widget.RichTextSegment{
		&widget.TextSegment{
			Text: text,
			Style: widget.RichTextStyle{
				Alignment: fyne.TextAlignCenter,
				ColorName: color,
				SizeName:  size,
				TextStyle: fyne.TextStyle{Bold: bold},
			},
		},
	}
	rp.capital.Refresh()
}

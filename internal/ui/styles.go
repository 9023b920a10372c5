package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// Palette shared by every report and by the fang help screen.
var (
	ColorPrimary   = lipgloss.Color("#15803D") // Jabar green
	ColorSecondary = lipgloss.Color("#0EA5E9") // Sky
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorHighlight = lipgloss.Color("#EAB308") // Gold

	ColorText     = lipgloss.Color("#F9FAFB")
	ColorTextDim  = lipgloss.Color("#9CA3AF")
	ColorTextMute = lipgloss.Color("#6B7280")
)

// styleWrapper wraps a lipgloss style
type styleWrapper struct {
	style lipgloss.Style
}

// Render renders the string with the style
func (s styleWrapper) Render(str string) string {
	return s.style.Render(str)
}

// Bold returns a new style with bold enabled
func (s styleWrapper) Bold(v bool) styleWrapper {
	return styleWrapper{s.style.Bold(v)}
}

// Text styles.
var (
	Bold      = styleWrapper{lipgloss.NewStyle().Bold(true)}
	Dim       = styleWrapper{lipgloss.NewStyle().Foreground(ColorTextDim)}
	Muted     = styleWrapper{lipgloss.NewStyle().Foreground(ColorTextMute)}
	Success   = styleWrapper{lipgloss.NewStyle().Foreground(ColorSuccess)}
	Warning   = styleWrapper{lipgloss.NewStyle().Foreground(ColorWarning)}
	Error     = styleWrapper{lipgloss.NewStyle().Foreground(ColorError)}
	Primary   = styleWrapper{lipgloss.NewStyle().Foreground(ColorPrimary)}
	Secondary = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary)}
	Highlight = styleWrapper{lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)}

	SectionHeader = styleWrapper{lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)}
)

// GetCheckMark returns a styled check mark
func GetCheckMark() string { return Success.Render("✓") }

// GetCrossMark returns a styled cross mark
func GetCrossMark() string { return Error.Render("✗") }

// GetWarnMark returns a styled warning mark
func GetWarnMark() string { return Warning.Render("⚠") }

// GetBullet returns a styled bullet point
func GetBullet() string { return Muted.Render("•") }

type boxWrapper struct {
	style lipgloss.Style
}

func (b boxWrapper) Render(str string) string {
	return b.style.Render(str)
}

var (
	Box = boxWrapper{lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)}

	SuccessBox = boxWrapper{lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 1)}

	WarningBox = boxWrapper{lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1)}
)

// FormatKeyValue formats a key-value pair with styling
func FormatKeyValue(key, value string) string {
	return Dim.Render(key+": ") + value
}

// FangColorScheme maps the palette onto fang's help and error screens.
func FangColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           ColorText,
		Title:          ColorPrimary,
		Description:    ColorTextDim,
		Codeblock:      c(lipgloss.Color("#1F2937"), lipgloss.Color("#2F2E36")),
		Program:        ColorSecondary,
		DimmedArgument: ColorMuted,
		Comment:        ColorMuted,
		Flag:           ColorSuccess,
		FlagDefault:    ColorTextDim,
		Command:        ColorHighlight,
		QuotedString:   ColorSecondary,
		Argument:       ColorText,
		Help:           ColorTextDim,
		Dash:           ColorMuted,
		ErrorHeader:    [2]color.Color{ColorText, ColorError},
		ErrorDetails:   ColorError,
	}
}

// BannerASCII is printed above the root help text.
const BannerASCII = `
                   _                    _              _
 _   _  _ __ ___  | | __ _ __ ___    __| |  __ _  ___ | |__
| | | || '_ ' _ \ | |/ /| '_ ' _ \  / _' | / _' |/ __|| '_ \
| |_| || | | | | ||   < | | | | | || (_| || (_| |\__ \| | | |
 \__,_||_| |_| |_||_|\_\|_| |_| |_| \__,_| \__,_||___/|_| |_|
`

// RenderBanner renders the banner in the secondary color.
func RenderBanner(banner string) string {
	return Secondary.Render(banner)
}

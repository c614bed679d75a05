package bundle

// FontChoice selects a typeface family for the index or the footers.
type FontChoice string

const (
	FontSerif       FontChoice = "serif"
	FontSans        FontChoice = "sans"
	FontMono        FontChoice = "mono"
	FontTraditional FontChoice = "traditional"
)

func ParseFontChoice(s string) FontChoice {
	switch s {
	case "serif", "sans", "mono", "traditional":
		return FontChoice(s)
	}
	return FontSans
}

// Alignment positions the running footer on the page.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignCentre Alignment = "centre"
)

func ParseAlignment(s string) Alignment {
	switch s {
	case "left", "right":
		return Alignment(s)
	}
	return AlignCentre
}

// NumberStyle selects the footer page number format.
type NumberStyle string

const (
	StyleX        NumberStyle = "x"
	StyleXOfY     NumberStyle = "x_of_y"
	StylePageX    NumberStyle = "page_x"
	StylePageXOfY NumberStyle = "page_x_of_y"
	StyleXSlashY  NumberStyle = "x_slash_y"
)

func ParseNumberStyle(s string) NumberStyle {
	switch s {
	case "x", "x_of_y", "page_x", "x_slash_y":
		return NumberStyle(s)
	}
	return StylePageXOfY
}

// DateSetting controls whether the index shows a date column.
type DateSetting string

const (
	ShowDate DateSetting = "show_date"
	HideDate DateSetting = "hide_date"
)

func ParseDateSetting(s string) DateSetting {
	if s == "hide_date" {
		return HideDate
	}
	return ShowDate
}

// Config is the per-run configuration. It is assembled once, from the upload
// form or CLI flags, and treated as read-only by every pipeline stage.
type Config struct {
	SessionID string
	Timestamp string // yyyymmdd_hhmmss, used in output names

	BundleTitle string
	CaseName    string
	ClaimNumber string

	Confidential bool
	DateSetting  DateSetting
	IndexFont    FontChoice
	FooterFont   FontChoice
	Alignment    Alignment
	NumberStyle  NumberStyle
	FooterPrefix string
	RomanPreface bool
	Zip          bool

	TempDir  string // per-session scratch directory, also holds the outputs
	LogsDir  string
	FontsDir string // TTF faces for the traditional font choice
}

// ShowDates reports whether the index carries its date column.
func (c Config) ShowDates() bool {
	return c.DateSetting != HideDate
}

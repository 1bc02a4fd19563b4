package tui

// Key bindings.
const (
	keyQuit       = "q"
	keyCtrlC      = "ctrl+c"
	keyEnter      = "enter"
	keyEsc        = "esc"
	keySlash      = "/"
	keySort       = "s"
	keyCountry    = "o"
	keyColors     = "c"
	keyDelete     = "d"
	keyRestore    = "u"
	keyReset      = "r"
	keyMore       = "m"
	keyMoreAlt    = "n"
	keyHelpToggle = "?"
)

// Layout.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
	// chromeHeight is the rows used by title, header, status and help.
	chromeHeight = 8

	filterInputCharLimit = 64
	filterInputWidth     = 30

	colWidthFirst   = 14
	colWidthLast    = 16
	colWidthCountry = 16
	colWidthEmail   = 34
)

package config

import (
	"strings"

	"github.com/rshade/userfeed/internal/logging"
)

// ToLoggingConfig maps the logging section onto a logging.Config. When
// interactive is set the terminal belongs to the TUI, so events go to the
// configured file (or the default log path) and never to stderr.
func (c *Config) ToLoggingConfig(debug, interactive bool) logging.Config {
	lc := logging.Config{
		Level:  c.Logging.Level,
		Format: strings.ToLower(c.Logging.Format),
		Output: logging.OutputStderr,
		File:   c.Logging.File,
	}
	if debug {
		lc.Level = "debug"
		lc.Format = logging.FormatConsole
		lc.Caller = true
	}
	if lc.File != "" {
		lc.Output = logging.OutputFile
	}

	if interactive {
		if lc.File == "" {
			path, err := LogPath()
			if err != nil {
				lc.Output = logging.OutputDiscard
				return lc
			}
			lc.File = path
		}
		lc.Output = logging.OutputFile
		lc.Format = logging.FormatJSON
	}
	return lc
}

package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔═══════════════════════════════════════════════════════╗
    ║ ██╗   ██╗██╗  ██╗███████╗ ██████╗ █████╗ ███╗   ██╗    ║
    ║ ██║   ██║██║ ██╔╝██╔════╝██╔════╝██╔══██╗████╗  ██║    ║
    ║ ██║   ██║█████╔╝ ███████╗██║     ███████║██╔██╗ ██║    ║
    ║ ╚██╗ ██╔╝██╔═██╗ ╚════██║██║     ██╔══██║██║╚██╗██║    ║
    ║  ╚████╔╝ ██║  ██╗███████║╚██████╗██║  ██║██║ ╚████║    ║
    ║   ╚═══╝  ╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═══╝    ║
    ║          VK VIDEO CATALOGUE SCANNER                    ║
    ╚═══════════════════════════════════════════════════════╝
`

var (
	mu       sync.RWMutex
	out      io.Writer = os.Stdout
	quiet    bool
	noColors bool
)

// SetOutput redirects all console output. nil restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Output returns the current console writer
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// SetQuietMode suppresses informational output. Errors are still printed.
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuietMode reports whether informational output is suppressed
func IsQuietMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// SetColors turns ANSI colors on or off
func SetColors(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	noColors = !enabled
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.RLock()
		plain := noColors
		mu.RUnlock()
		if plain {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

func printf(format string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintf(Output(), format, args...)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	printf("%s", Cyan(ASCIILogo))
}

// PrintError prints an error message in red, even in quiet mode
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(Output(), Red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printf("%s\n", Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	printf("%s\n", Yellow(msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printf("%s\n", Magenta(msg))
}

package display

import (
	"fmt"
	"io"

	"github.com/backmassage/thumbmaster/internal/term"
)

const banner = ` _____ _                     _                         _
|_   _| |__  _   _ _ __ ___ | |__  _ __ ___   __ _ ___| |_ ___ _ __
  | | | '_ \| | | | '_ ` + "`" + ` _ \| '_ \| '_ ` + "`" + ` _ \ / _` + "`" + ` / __| __/ _ \ '__|
  | | | | | | |_| | | | | | | |_) | | | | | | (_| \__ \ ||  __/ |
  |_| |_| |_|\__,_|_| |_| |_|_.__/|_| |_| |_|\__,_|___/\__\___|_|
`

// PrintBanner writes the ASCII art banner to w, in magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Paint(term.Magenta, banner))
}

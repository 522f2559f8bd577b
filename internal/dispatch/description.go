package dispatch

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/model"
)

// Description returns the human-readable summary shown to the host and by
// "recnotify describe".
func Description(s config.Settings) string {
	var b strings.Builder

	b.WriteString("Recording notification overlay\n\n")
	b.WriteString("Shows visual + audio notifications for:\n")
	b.WriteString("  - Recording Start/Stop/Pause/Resume\n")
	b.WriteString("  - Replay Buffer Saved\n\n")

	b.WriteString("Events:\n")
	for _, e := range model.AllHostEvents() {
		sound, req, ok := model.Action(e)
		switch {
		case ok:
			fmt.Fprintf(&b, "  %-20s %-20s sound %s\n", e.String(), req.Label(), sound.Name)
		case e == model.EventFinishedLoading:
			fmt.Fprintf(&b, "  %-20s starts the popup and warms up audio\n", e.String())
		default:
			fmt.Fprintf(&b, "  %-20s stops the popup\n", e.String())
		}
	}

	b.WriteString("\nSettings:\n")
	fmt.Fprintf(&b, "  sounds_enabled   %-5t  Enable sound notifications\n", s.SoundsEnabled)
	fmt.Fprintf(&b, "  position_center  %-5t  Center notification (false for top-right)\n", s.PositionCenter)

	return b.String()
}

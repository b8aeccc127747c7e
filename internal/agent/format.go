package agent

import (
	"fmt"
	"strings"

	"github.com/bookslot/bookslot/internal/schedule"
)

// FormatSlots renders slots for display in a conversation
func FormatSlots(slots []schedule.Slot) string {
	if len(slots) == 0 {
		return "No available time slots found for the requested date."
	}

	var b strings.Builder
	b.WriteString("Here are the available time slots:\n\n")
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1,
			slot.Start.Format("03:04 PM"),
			slot.End.Format("03:04 PM"))
	}

	return b.String()
}

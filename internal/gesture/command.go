// Package gesture turns calibrated band orientation into discrete
// directional commands.
package gesture

// Command is a discrete directional instruction derived from the band's
// orientation delta. The zero value None means "no gesture"; its wire
// form is the empty string, matching the relay protocol.
type Command string

const (
	None    Command = ""
	Forward Command = "forward"
	Back    Command = "back"
	Left    Command = "left"
	Right   Command = "right"
	Stop    Command = "stop"
)

// ParseCommand maps a wire token back to a Command. Anything
// unrecognized decodes as None so a garbled relay response degrades to
// "no gesture" instead of a phantom motion.
func ParseCommand(s string) Command {
	switch Command(s) {
	case Forward, Back, Left, Right, Stop:
		return Command(s)
	default:
		return None
	}
}

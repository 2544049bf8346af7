package chat

import (
	"fmt"

	"github.com/arlenmoss/herald/internal/host"
)

// Send renders an arbitrary handler return value to the sender.
//
// Strings are sent after style decoding; string and value slices are sent
// line by line; errors are sent as red fault lines; fmt.Stringer values use
// their String form. Anything else is formatted with %v. A nil value sends
// nothing.
func Send(sender host.Sender, value any) {
	if sender == nil || value == nil {
		return
	}
	switch v := value.(type) {
	case string:
		sender.SendMessage(Decode(v))
	case []string:
		for _, line := range v {
			sender.SendMessage(Decode(line))
		}
	case []any:
		for _, item := range v {
			Send(sender, item)
		}
	case error:
		sender.SendMessage(Decode("&c" + v.Error()))
	case fmt.Stringer:
		sender.SendMessage(Decode(v.String()))
	default:
		sender.SendMessage(fmt.Sprintf("%v", v))
	}
}

// Renderer is the message-render collaborator handed to the dispatcher.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Send implements the dispatcher's renderer contract.
func (r *Renderer) Send(sender host.Sender, value any) {
	Send(sender, value)
}

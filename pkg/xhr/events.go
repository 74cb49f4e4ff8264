package xhr

// EventType names a point in a transfer's lifecycle.
type EventType string

// Lifecycle events, in dispatch order. Exactly one of load, error and abort
// fires per channel, between loadstart and loadend.
const (
	EventLoadStart EventType = "loadstart"
	EventProgress  EventType = "progress"
	EventLoad      EventType = "load"
	EventError     EventType = "error"
	EventAbort     EventType = "abort"
	EventLoadEnd   EventType = "loadend"
)

// Event is handed to every Handler.
type Event struct {
	Type EventType
	// Target is the transfer the event belongs to, for both channels.
	Target *Transfer
	// Upload is set for events raised by the request payload channel.
	Upload           bool
	Loaded           int64
	Total            int64
	LengthComputable bool
}

// Handler runs on a lifecycle event. resolve and reject settle the
// transfer's Promise; calls after the first settlement are ignored.
type Handler func(ev *Event, resolve ResolveFunc, reject RejectFunc)

// Callbacks holds one optional handler per lifecycle event.
type Callbacks struct {
	Start    Handler
	Progress Handler
	Load     Handler
	Error    Handler
	Abort    Handler
	End      Handler
}

func (c Callbacks) handler(typ EventType) Handler {
	switch typ {
	case EventLoadStart:
		return c.Start
	case EventProgress:
		return c.Progress
	case EventLoad:
		return c.Load
	case EventError:
		return c.Error
	case EventAbort:
		return c.Abort
	case EventLoadEnd:
		return c.End
	default:
		return nil
	}
}

// merge overlays the non-nil handlers of user onto c.
func (c Callbacks) merge(user Callbacks) Callbacks {
	if user.Start != nil {
		c.Start = user.Start
	}
	if user.Progress != nil {
		c.Progress = user.Progress
	}
	if user.Load != nil {
		c.Load = user.Load
	}
	if user.Error != nil {
		c.Error = user.Error
	}
	if user.Abort != nil {
		c.Abort = user.Abort
	}
	if user.End != nil {
		c.End = user.End
	}
	return c
}

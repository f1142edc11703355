package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// EventSource is IEventSource. Only passive listeners are supported:
// register with active false and poll with GetEvent.
type EventSource struct {
	object
}

// EventListener is IEventListener.
type EventListener struct {
	object
}

// Event is IEvent. Detail decodes the concrete event interface for the
// types listed in detailDecoders.
type Event struct {
	object
}

func (s *EventSource) CreateListener() (*EventListener, error) {
	o, err := api.CallObject(s.obj, "CreateListener", "IEventListener")
	if err != nil {
		return nil, err
	}
	return &EventListener{object{o}}, nil
}

// RegisterListener subscribes l to the given event types. An empty list
// subscribes to EventTypeAny.
func (s *EventSource) RegisterListener(l *EventListener, interesting []types.EventType, active bool) error {
	if len(interesting) == 0 {
		interesting = []types.EventType{types.EventTypeAny}
	}
	raw := make([]uint32, len(interesting))
	for i, t := range interesting {
		raw[i] = uint32(t)
	}
	return api.CallUnit(s.obj, "RegisterListener",
		api.Obj("listener", l.obj),
		api.U32s("interesting", raw),
		api.Bool("active", active),
	)
}

func (s *EventSource) UnregisterListener(l *EventListener) error {
	return api.CallUnit(s.obj, "UnregisterListener", api.Obj("listener", l.obj))
}

// GetEvent waits up to timeoutMS for the next event of a passive
// listener. ok is false when the wait timed out.
func (s *EventSource) GetEvent(l *EventListener, timeoutMS int32) (*Event, bool, error) {
	o, ok, err := api.CallOptionalObject(s.obj, "GetEvent", "IEvent",
		api.Obj("listener", l.obj),
		api.I32("timeout", timeoutMS),
	)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Event{object{o}}, true, nil
}

// EventProcessed must follow every event returned by GetEvent.
func (s *EventSource) EventProcessed(l *EventListener, e *Event) error {
	return api.CallUnit(s.obj, "EventProcessed",
		api.Obj("listener", l.obj),
		api.Obj("event", e.obj),
	)
}

func (e *Event) Type() (types.EventType, error) {
	raw, err := api.CallNumber[uint32](e.obj, "GetType")
	return types.EventType(raw), err
}

func (e *Event) Source() (*EventSource, error) {
	o, err := api.CallObject(e.obj, "GetSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

func (e *Event) Waitable() (bool, error) {
	return api.CallBool(e.obj, "GetWaitable")
}

func (e *Event) SetProcessed() error {
	return api.CallUnit(e.obj, "SetProcessed")
}

// WaitProcessed reports whether the event was processed within timeoutMS.
func (e *Event) WaitProcessed(timeoutMS int32) (bool, error) {
	return api.CallBool(e.obj, "WaitProcessed", api.I32("timeout", timeoutMS))
}

// EventDetail is the decoded payload of a concrete event interface.
type EventDetail interface {
	EventType() types.EventType
}

type MachineStateChanged struct {
	MachineID string
	State     types.MachineState
}

type MachineRegistered struct {
	MachineID  string
	Registered bool
}

type SessionStateChanged struct {
	MachineID string
	State     types.SessionState
}

type SnapshotTaken struct {
	MachineID  string
	SnapshotID string
}

type SnapshotDeleted struct {
	MachineID  string
	SnapshotID string
}

type ProgressPercentageChanged struct {
	ProgressID string
	Percent    int32
}

type ProgressTaskCompleted struct {
	ProgressID string
}

// VBoxSVCAvailabilityChanged is fired by the client when the VBoxSVC
// server process goes away or comes back.
type VBoxSVCAvailabilityChanged struct {
	Available bool
}

func (MachineStateChanged) EventType() types.EventType { return types.EventTypeOnMachineStateChanged }
func (MachineRegistered) EventType() types.EventType { return types.EventTypeOnMachineRegistered }
func (SessionStateChanged) EventType() types.EventType { return types.EventTypeOnSessionStateChanged }
func (SnapshotTaken) EventType() types.EventType { return types.EventTypeOnSnapshotTaken }
func (SnapshotDeleted) EventType() types.EventType { return types.EventTypeOnSnapshotDeleted }
func (ProgressPercentageChanged) EventType() types.EventType {
	return types.EventTypeOnProgressPercentageChanged
}
func (ProgressTaskCompleted) EventType() types.EventType {
	return types.EventTypeOnProgressTaskCompleted
}
func (VBoxSVCAvailabilityChanged) EventType() types.EventType {
	return types.EventTypeOnVBoxSVCAvailabilityChanged
}

type detailDecoder struct {
	iface  string
	decode func(o *api.Object) (EventDetail, error)
}

var detailDecoders = map[types.EventType]detailDecoder{
	types.EventTypeOnMachineStateChanged: {"IMachineStateChangedEvent", func(o *api.Object) (EventDetail, error) {
		var d MachineStateChanged
		var err error
		if d.MachineID, err = api.CallString(o, "GetMachineId"); err != nil {
			return nil, err
		}
		raw, err := api.CallNumber[uint32](o, "GetState")
		if err != nil {
			return nil, err
		}
		d.State = types.MachineStateFromRaw(raw, o.Runtime().Version())
		return d, nil
	}},
	types.EventTypeOnMachineRegistered: {"IMachineRegisteredEvent", func(o *api.Object) (EventDetail, error) {
		var d MachineRegistered
		var err error
		if d.MachineID, err = api.CallString(o, "GetMachineId"); err != nil {
			return nil, err
		}
		if d.Registered, err = api.CallBool(o, "GetRegistered"); err != nil {
			return nil, err
		}
		return d, nil
	}},
	types.EventTypeOnSessionStateChanged: {"ISessionStateChangedEvent", func(o *api.Object) (EventDetail, error) {
		var d SessionStateChanged
		var err error
		if d.MachineID, err = api.CallString(o, "GetMachineId"); err != nil {
			return nil, err
		}
		raw, err := api.CallNumber[uint32](o, "GetState")
		if err != nil {
			return nil, err
		}
		d.State = types.SessionState(raw)
		return d, nil
	}},
	types.EventTypeOnSnapshotTaken: {"ISnapshotTakenEvent", func(o *api.Object) (EventDetail, error) {
		m, s, err := snapshotEventIDs(o)
		return SnapshotTaken{MachineID: m, SnapshotID: s}, err
	}},
	types.EventTypeOnSnapshotDeleted: {"ISnapshotDeletedEvent", func(o *api.Object) (EventDetail, error) {
		m, s, err := snapshotEventIDs(o)
		return SnapshotDeleted{MachineID: m, SnapshotID: s}, err
	}},
	types.EventTypeOnProgressPercentageChanged: {"IProgressPercentageChangedEvent", func(o *api.Object) (EventDetail, error) {
		var d ProgressPercentageChanged
		var err error
		if d.ProgressID, err = api.CallString(o, "GetProgressId"); err != nil {
			return nil, err
		}
		if d.Percent, err = api.CallNumber[int32](o, "GetPercent"); err != nil {
			return nil, err
		}
		return d, nil
	}},
	types.EventTypeOnProgressTaskCompleted: {"IProgressTaskCompletedEvent", func(o *api.Object) (EventDetail, error) {
		id, err := api.CallString(o, "GetProgressId")
		if err != nil {
			return nil, err
		}
		return ProgressTaskCompleted{ProgressID: id}, nil
	}},
	types.EventTypeOnVBoxSVCAvailabilityChanged: {"IVBoxSVCAvailabilityChangedEvent", func(o *api.Object) (EventDetail, error) {
		ok, err := api.CallBool(o, "GetAvailable")
		if err != nil {
			return nil, err
		}
		return VBoxSVCAvailabilityChanged{Available: ok}, nil
	}},
}

func snapshotEventIDs(o *api.Object) (string, string, error) {
	machine, err := api.CallString(o, "GetMachineId")
	if err != nil {
		return "", "", err
	}
	snapshot, err := api.CallString(o, "GetSnapshotId")
	if err != nil {
		return "", "", err
	}
	return machine, snapshot, nil
}

// Detail queries the concrete interface for the event's type and decodes
// it. ok is false for event types without a decoder.
func (e *Event) Detail() (EventDetail, bool, error) {
	kind, err := e.Type()
	if err != nil {
		return nil, false, err
	}
	dec, found := detailDecoders[kind]
	if !found {
		return nil, false, nil
	}
	o, err := e.obj.QueryInterface(dec.iface)
	if err != nil {
		return nil, false, err
	}
	d, err := dec.decode(o)
	if rerr := o.Release(); err == nil && rerr != nil {
		err = rerr
	}
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

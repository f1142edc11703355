package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Session is ISession, the handle through which a machine is locked and
// its console reached.
type Session struct {
	object
}

func (s *Session) State() (types.SessionState, error) {
	raw, err := api.CallNumber[uint32](s.obj, "GetState")
	return types.SessionState(raw), err
}

func (s *Session) Type() (types.SessionType, error) {
	raw, err := api.CallNumber[uint32](s.obj, "GetType")
	return types.SessionType(raw), err
}

func (s *Session) Name() (string, error) {
	return api.CallString(s.obj, "GetName")
}

func (s *Session) SetName(name string) error {
	return api.CallUnit(s.obj, "SetName", api.Str("name", name))
}

// Machine is the session's mutable copy of the locked machine.
func (s *Session) Machine() (*Machine, error) {
	o, err := api.CallObject(s.obj, "GetMachine", "IMachine")
	if err != nil {
		return nil, err
	}
	return &Machine{object{o}}, nil
}

// Console is only available while the machine runs.
func (s *Session) Console() (*Console, error) {
	o, err := api.CallObject(s.obj, "GetConsole", "IConsole")
	if err != nil {
		return nil, err
	}
	return &Console{object{o}}, nil
}

func (s *Session) UnlockMachine() error {
	return api.CallUnit(s.obj, "UnlockMachine")
}

// Console is IConsole, the control surface of a running machine.
type Console struct {
	object
}

func (c *Console) Machine() (*Machine, error) {
	o, err := api.CallObject(c.obj, "GetMachine", "IMachine")
	if err != nil {
		return nil, err
	}
	return &Machine{object{o}}, nil
}

func (c *Console) State() (types.MachineState, error) {
	raw, err := api.CallNumber[uint32](c.obj, "GetState")
	if err != nil {
		return types.MachineStateNull, err
	}
	return types.MachineStateFromRaw(raw, c.obj.Runtime().Version()), nil
}

func (c *Console) Display() (*Display, error) {
	o, err := api.CallObject(c.obj, "GetDisplay", "IDisplay")
	if err != nil {
		return nil, err
	}
	return &Display{object{o}}, nil
}

func (c *Console) Keyboard() (*Keyboard, error) {
	o, err := api.CallObject(c.obj, "GetKeyboard", "IKeyboard")
	if err != nil {
		return nil, err
	}
	return &Keyboard{object{o}}, nil
}

func (c *Console) Mouse() (*Mouse, error) {
	o, err := api.CallObject(c.obj, "GetMouse", "IMouse")
	if err != nil {
		return nil, err
	}
	return &Mouse{object{o}}, nil
}

func (c *Console) EventSource() (*EventSource, error) {
	o, err := api.CallObject(c.obj, "GetEventSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

func (c *Console) PowerUp() (*Progress, error) {
	return c.progress("PowerUp")
}

func (c *Console) PowerDown() (*Progress, error) {
	return c.progress("PowerDown")
}

func (c *Console) progress(method string) (*Progress, error) {
	o, err := api.CallObject(c.obj, method, "IProgress")
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}

func (c *Console) Reset() error {
	return api.CallUnit(c.obj, "Reset")
}

func (c *Console) Pause() error {
	return api.CallUnit(c.obj, "Pause")
}

func (c *Console) Resume() error {
	return api.CallUnit(c.obj, "Resume")
}

// PowerButton sends an ACPI power button press.
func (c *Console) PowerButton() error {
	return api.CallUnit(c.obj, "PowerButton")
}

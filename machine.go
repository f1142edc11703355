package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Machine is IMachine. Setters only work on a machine obtained from a
// session locked for writing, or on a new unregistered machine.
type Machine struct {
	object
}

func (m *Machine) Name() (string, error) {
	return api.CallString(m.obj, "GetName")
}

func (m *Machine) SetName(name string) error {
	return api.CallUnit(m.obj, "SetName", api.Str("name", name))
}

func (m *Machine) Description() (string, error) {
	return api.CallString(m.obj, "GetDescription")
}

func (m *Machine) SetDescription(description string) error {
	return api.CallUnit(m.obj, "SetDescription", api.Str("description", description))
}

// ID is the machine UUID.
func (m *Machine) ID() (string, error) {
	return api.CallString(m.obj, "GetId")
}

func (m *Machine) Groups() ([]string, error) {
	return api.CallStringSlice(m.obj, "GetGroups")
}

func (m *Machine) SetGroups(groups []string) error {
	return api.CallUnit(m.obj, "SetGroups", api.Strs("groups", groups))
}

func (m *Machine) OSTypeID() (string, error) {
	return api.CallString(m.obj, "GetOSTypeId")
}

func (m *Machine) CPUCount() (uint32, error) {
	return api.CallNumber[uint32](m.obj, "GetCPUCount")
}

func (m *Machine) SetCPUCount(n uint32) error {
	return api.CallUnit(m.obj, "SetCPUCount", api.U32("CPUCount", n))
}

// MemorySize is in MiB.
func (m *Machine) MemorySize() (uint32, error) {
	return api.CallNumber[uint32](m.obj, "GetMemorySize")
}

func (m *Machine) SetMemorySize(mib uint32) error {
	return api.CallUnit(m.obj, "SetMemorySize", api.U32("memorySize", mib))
}

func (m *Machine) SettingsFilePath() (string, error) {
	return api.CallString(m.obj, "GetSettingsFilePath")
}

func (m *Machine) State() (types.MachineState, error) {
	raw, err := api.CallNumber[uint32](m.obj, "GetState")
	if err != nil {
		return types.MachineStateNull, err
	}
	return types.MachineStateFromRaw(raw, m.obj.Runtime().Version()), nil
}

func (m *Machine) SessionState() (types.SessionState, error) {
	raw, err := api.CallNumber[uint32](m.obj, "GetSessionState")
	return types.SessionState(raw), err
}

// LockMachine locks the machine for session. Release the lock with
// Session.UnlockMachine.
func (m *Machine) LockMachine(s *Session, lockType types.LockType) error {
	return api.CallUnit(m.obj, "LockMachine",
		api.Obj("session", s.obj),
		api.U32("lockType", uint32(lockType)),
	)
}

// LaunchVMProcess starts the machine in a new process bound to session.
// env entries have the form NAME=VALUE; NAME alone unsets a variable.
func (m *Machine) LaunchVMProcess(s *Session, frontEnd types.FrontEnd, env []string) (*Progress, error) {
	o, err := api.CallObject(m.obj, "LaunchVMProcess", "IProgress",
		api.Obj("session", s.obj),
		api.Str("name", string(frontEnd)),
		api.Strs("environmentChanges", env),
	)
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}

func (m *Machine) SaveSettings() error {
	return api.CallUnit(m.obj, "SaveSettings")
}

func (m *Machine) DiscardSettings() error {
	return api.CallUnit(m.obj, "DiscardSettings")
}

// Platform needs 7.1 or later.
func (m *Machine) Platform() (*Platform, error) {
	o, err := api.CallObject(m.obj, "GetPlatform", "IPlatform")
	if err != nil {
		return nil, err
	}
	return &Platform{object{o}}, nil
}

package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// VirtualBox is IVirtualBox, the root of the object tree.
type VirtualBox struct {
	object
}

// Version is the release, e.g. "7.1.4".
func (v *VirtualBox) Version() (string, error) {
	return api.CallString(v.obj, "GetVersion")
}

// VersionNormalized strips any build suffix from Version.
func (v *VirtualBox) VersionNormalized() (string, error) {
	return api.CallString(v.obj, "GetVersionNormalized")
}

func (v *VirtualBox) Revision() (uint32, error) {
	return api.CallNumber[uint32](v.obj, "GetRevision")
}

// APIVersion is the API generation string, e.g. "7_1".
func (v *VirtualBox) APIVersion() (string, error) {
	return api.CallString(v.obj, "GetAPIVersion")
}

func (v *VirtualBox) HomeFolder() (string, error) {
	return api.CallString(v.obj, "GetHomeFolder")
}

func (v *VirtualBox) SettingsFilePath() (string, error) {
	return api.CallString(v.obj, "GetSettingsFilePath")
}

func (v *VirtualBox) SystemProperties() (*SystemProperties, error) {
	o, err := api.CallObject(v.obj, "GetSystemProperties", "ISystemProperties")
	if err != nil {
		return nil, err
	}
	return &SystemProperties{object{o}}, nil
}

// Machines lists the registered machines.
func (v *VirtualBox) Machines() ([]*Machine, error) {
	objs, err := api.CallObjectSlice(v.obj, "GetMachines", "IMachine")
	if err != nil {
		return nil, err
	}
	out := make([]*Machine, len(objs))
	for i, o := range objs {
		out[i] = &Machine{object{o}}
	}
	return out, nil
}

// MachineGroups lists every group used by a registered machine.
func (v *VirtualBox) MachineGroups() ([]string, error) {
	return api.CallStringSlice(v.obj, "GetMachineGroups")
}

func (v *VirtualBox) EventSource() (*EventSource, error) {
	o, err := api.CallObject(v.obj, "GetEventSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

// FindMachine looks a registered machine up by name or UUID.
func (v *VirtualBox) FindMachine(nameOrID string) (*Machine, error) {
	o, err := api.CallObject(v.obj, "FindMachine", "IMachine", api.Str("nameOrId", nameOrID))
	if err != nil {
		return nil, err
	}
	return &Machine{object{o}}, nil
}

// CreateMachineOptions are the arguments of CreateMachine. Fields a
// version does not know are ignored: Platform before 7.1, the encryption
// fields before 7.0.
type CreateMachineOptions struct {
	// SettingsFile is empty to derive it from Name.
	SettingsFile string
	Name         string
	Platform     types.PlatformArchitecture
	Groups       []string
	OSTypeID     string
	// Flags is a comma separated list such as "UUID=...,forceOverwrite=1".
	Flags      string
	Cipher     string
	PasswordID string
	Password   string
}

// CreateMachine creates an unregistered machine. Call SaveSettings and
// RegisterMachine to keep it.
func (v *VirtualBox) CreateMachine(opts CreateMachineOptions) (*Machine, error) {
	var args []api.Arg
	switch v.obj.Runtime().Version() {
	case types.APIv6_1:
		args = []api.Arg{
			api.Str("settingsFile", opts.SettingsFile),
			api.Str("name", opts.Name),
			api.Strs("groups", opts.Groups),
			api.Str("osTypeId", opts.OSTypeID),
			api.Str("flags", opts.Flags),
		}
	case types.APIv7_0:
		args = []api.Arg{
			api.Str("settingsFile", opts.SettingsFile),
			api.Str("name", opts.Name),
			api.Strs("groups", opts.Groups),
			api.Str("osTypeId", opts.OSTypeID),
			api.Str("flags", opts.Flags),
			api.Str("cipher", opts.Cipher),
			api.Str("passwordId", opts.PasswordID),
			api.Str("password", opts.Password),
		}
	default:
		args = []api.Arg{
			api.Str("settingsFile", opts.SettingsFile),
			api.Str("name", opts.Name),
			api.U32("platform", uint32(opts.Platform)),
			api.Strs("groups", opts.Groups),
			api.Str("osTypeId", opts.OSTypeID),
			api.Str("flags", opts.Flags),
			api.Str("cipher", opts.Cipher),
			api.Str("passwordId", opts.PasswordID),
			api.Str("password", opts.Password),
		}
	}
	o, err := api.CallObject(v.obj, "CreateMachine", "IMachine", args...)
	if err != nil {
		return nil, err
	}
	return &Machine{object{o}}, nil
}

// OpenMachine loads a machine from its settings file without registering
// it. The password is only passed from 7.0 on.
func (v *VirtualBox) OpenMachine(settingsFile, password string) (*Machine, error) {
	args := []api.Arg{api.Str("settingsFile", settingsFile)}
	if v.obj.Runtime().Version() != types.APIv6_1 {
		args = append(args, api.Str("password", password))
	}
	o, err := api.CallObject(v.obj, "OpenMachine", "IMachine", args...)
	if err != nil {
		return nil, err
	}
	return &Machine{object{o}}, nil
}

func (v *VirtualBox) RegisterMachine(m *Machine) error {
	return api.CallUnit(v.obj, "RegisterMachine", api.Obj("machine", m.obj))
}

func (v *VirtualBox) CreateAppliance() (*Appliance, error) {
	o, err := api.CallObject(v.obj, "CreateAppliance", "IAppliance")
	if err != nil {
		return nil, err
	}
	return &Appliance{object{o}}, nil
}

// HostOnlyNetworks needs 7.0 or later.
func (v *VirtualBox) HostOnlyNetworks() ([]*HostOnlyNetwork, error) {
	objs, err := api.CallObjectSlice(v.obj, "GetHostOnlyNetworks", "IHostOnlyNetwork")
	if err != nil {
		return nil, err
	}
	out := make([]*HostOnlyNetwork, len(objs))
	for i, o := range objs {
		out[i] = &HostOnlyNetwork{object{o}}
	}
	return out, nil
}

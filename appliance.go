package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Appliance is IAppliance, used to import OVF/OVA files.
type Appliance struct {
	object
}

// Path is the file last passed to Read.
func (a *Appliance) Path() (string, error) {
	return api.CallString(a.obj, "GetPath")
}

func (a *Appliance) Disks() ([]string, error) {
	return api.CallStringSlice(a.obj, "GetDisks")
}

// Read starts parsing the OVF or OVA file.
func (a *Appliance) Read(file string) (*Progress, error) {
	o, err := api.CallObject(a.obj, "Read", "IProgress", api.Str("file", file))
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}

// Interpret fills VirtualSystemDescriptions once Read has completed.
func (a *Appliance) Interpret() error {
	return api.CallUnit(a.obj, "Interpret")
}

// Warnings collected by Interpret.
func (a *Appliance) Warnings() ([]string, error) {
	return api.CallStringSlice(a.obj, "GetWarnings")
}

func (a *Appliance) VirtualSystemDescriptions() ([]*VirtualSystemDescription, error) {
	objs, err := api.CallObjectSlice(a.obj, "GetVirtualSystemDescriptions", "IVirtualSystemDescription")
	if err != nil {
		return nil, err
	}
	out := make([]*VirtualSystemDescription, len(objs))
	for i, o := range objs {
		out[i] = &VirtualSystemDescription{object{o}}
	}
	return out, nil
}

// ImportMachines creates machines from the (possibly edited) descriptions.
func (a *Appliance) ImportMachines(options ...types.ImportOptions) (*Progress, error) {
	raw := make([]uint32, len(options))
	for i, opt := range options {
		raw[i] = uint32(opt)
	}
	o, err := api.CallObject(a.obj, "ImportMachines", "IProgress", api.U32s("options", raw))
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}

// Machines lists the UUIDs of the machines created by ImportMachines.
func (a *Appliance) Machines() ([]string, error) {
	return api.CallStringSlice(a.obj, "GetMachines")
}

// VirtualSystemDescription is IVirtualSystemDescription, one machine of
// an appliance.
type VirtualSystemDescription struct {
	object
}

// VirtualSystemDescriptionEntry is one row of a description. The native
// side returns the columns as parallel arrays.
type VirtualSystemDescriptionEntry struct {
	Type        types.VirtualSystemDescriptionType
	Ref         string
	OVFValue    string
	VBoxValue   string
	ExtraConfig string
}

func (d *VirtualSystemDescription) Count() (uint32, error) {
	return api.CallNumber[uint32](d.obj, "GetCount")
}

func (d *VirtualSystemDescription) Description() ([]VirtualSystemDescriptionEntry, error) {
	return d.entries("GetDescription")
}

// DescriptionByType returns only the entries of type t.
func (d *VirtualSystemDescription) DescriptionByType(t types.VirtualSystemDescriptionType) ([]VirtualSystemDescriptionEntry, error) {
	return d.entries("GetDescriptionByType", api.U32("type", uint32(t)))
}

func (d *VirtualSystemDescription) entries(method string, args ...api.Arg) ([]VirtualSystemDescriptionEntry, error) {
	arrays, err := api.CallArrays(d.obj, method, 5, args...)
	if err != nil {
		return nil, err
	}
	kinds := arrays.U32s(0)
	refs := arrays.Strings(1)
	ovf := arrays.Strings(2)
	vbox := arrays.Strings(3)
	extra := arrays.Strings(4)
	if err := arrays.Err(); err != nil {
		return nil, err
	}
	if err := api.RequireParallel(arrays.Op(), len(kinds), len(refs), len(ovf), len(vbox), len(extra)); err != nil {
		return nil, err
	}
	out := make([]VirtualSystemDescriptionEntry, len(kinds))
	for i := range kinds {
		out[i] = VirtualSystemDescriptionEntry{
			Type:        types.VirtualSystemDescriptionType(kinds[i]),
			Ref:         refs[i],
			OVFValue:    ovf[i],
			VBoxValue:   vbox[i],
			ExtraConfig: extra[i],
		}
	}
	return out, nil
}

// SetFinalValues edits the description before import. The three slices
// are parallel to the entries returned by Description.
func (d *VirtualSystemDescription) SetFinalValues(enabled []bool, vboxValues, extraConfig []string) error {
	if err := api.RequireParallel("IVirtualSystemDescription.SetFinalValues", len(enabled), len(vboxValues), len(extraConfig)); err != nil {
		return err
	}
	return api.CallUnit(d.obj, "SetFinalValues",
		api.Bools("enabled", enabled),
		api.Strs("VBoxValues", vboxValues),
		api.Strs("extraConfigValues", extraConfig),
	)
}

func (d *VirtualSystemDescription) AddDescription(t types.VirtualSystemDescriptionType, vboxValue, extraConfig string) error {
	return api.CallUnit(d.obj, "AddDescription",
		api.U32("type", uint32(t)),
		api.Str("VBoxValue", vboxValue),
		api.Str("extraConfigValue", extraConfig),
	)
}

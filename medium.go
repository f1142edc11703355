package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// SystemProperties is ISystemProperties.
type SystemProperties struct {
	object
}

func (s *SystemProperties) DefaultMachineFolder() (string, error) {
	return api.CallString(s.obj, "GetDefaultMachineFolder")
}

func (s *SystemProperties) DefaultHardDiskFormat() (string, error) {
	return api.CallString(s.obj, "GetDefaultHardDiskFormat")
}

// MediumFormats lists the disk image backends, VDI first.
func (s *SystemProperties) MediumFormats() ([]*MediumFormat, error) {
	objs, err := api.CallObjectSlice(s.obj, "GetMediumFormats", "IMediumFormat")
	if err != nil {
		return nil, err
	}
	out := make([]*MediumFormat, len(objs))
	for i, o := range objs {
		out[i] = &MediumFormat{object{o}}
	}
	return out, nil
}

// MediumFormat is IMediumFormat, a disk image backend.
type MediumFormat struct {
	object
}

// ID is the backend key, e.g. "VDI".
func (f *MediumFormat) ID() (string, error) {
	return api.CallString(f.obj, "GetId")
}

func (f *MediumFormat) Name() (string, error) {
	return api.CallString(f.obj, "GetName")
}

// Capabilities folds the capability list into one mask.
func (f *MediumFormat) Capabilities() (types.MediumFormatCapabilities, error) {
	raw, err := api.CallSlice[uint32](f.obj, "GetCapabilities")
	if err != nil {
		return 0, err
	}
	var caps types.MediumFormatCapabilities
	for _, c := range raw {
		caps |= types.MediumFormatCapabilities(c)
	}
	return caps, nil
}

// FileExtension is a file suffix the backend handles and the device type
// it is used for.
type FileExtension struct {
	Extension string
	Type      types.DeviceType
}

func (f *MediumFormat) DescribeFileExtensions() ([]FileExtension, error) {
	arrays, err := api.CallArrays(f.obj, "DescribeFileExtensions", 2)
	if err != nil {
		return nil, err
	}
	exts := arrays.Strings(0)
	kinds := arrays.U32s(1)
	if err := arrays.Err(); err != nil {
		return nil, err
	}
	if err := api.RequireParallel(arrays.Op(), len(exts), len(kinds)); err != nil {
		return nil, err
	}
	out := make([]FileExtension, len(exts))
	for i := range exts {
		out[i] = FileExtension{Extension: exts[i], Type: types.DeviceType(kinds[i])}
	}
	return out, nil
}

// MediumProperty is one configurable property of a backend.
type MediumProperty struct {
	Name        string
	Description string
	Type        types.DataType
	Flags       uint32
	Default     string
}

func (f *MediumFormat) DescribeProperties() ([]MediumProperty, error) {
	arrays, err := api.CallArrays(f.obj, "DescribeProperties", 5)
	if err != nil {
		return nil, err
	}
	names := arrays.Strings(0)
	descs := arrays.Strings(1)
	kinds := arrays.U32s(2)
	flags := arrays.U32s(3)
	defaults := arrays.Strings(4)
	if err := arrays.Err(); err != nil {
		return nil, err
	}
	if err := api.RequireParallel(arrays.Op(), len(names), len(descs), len(kinds), len(flags), len(defaults)); err != nil {
		return nil, err
	}
	out := make([]MediumProperty, len(names))
	for i := range names {
		out[i] = MediumProperty{
			Name:        names[i],
			Description: descs[i],
			Type:        types.DataType(kinds[i]),
			Flags:       flags[i],
			Default:     defaults[i],
		}
	}
	return out, nil
}

package vboxapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

func newFakeMediumFormat(f *fixture) *nativetest.Object {
	return f.w.NewObject("IMediumFormat").
		On("GetCapabilities", func(this, n, p uintptr) uint32 {
			caps := []uint32{
				uint32(types.MediumFormatCapUUID),
				uint32(types.MediumFormatCapCreateDynamic),
				uint32(types.MediumFormatCapFile),
			}
			nativetest.PutU32(n, uint32(len(caps)))
			nativetest.PutPtr(p, f.w.U32Array(caps))
			return 0
		}).
		On("DescribeFileExtensions", func(this, en, ep, tn, tp uintptr) uint32 {
			nativetest.PutU32(en, 1)
			nativetest.PutPtr(ep, f.w.StringArray([]string{"vdi"}))
			nativetest.PutU32(tn, 1)
			nativetest.PutPtr(tp, f.w.U32Array([]uint32{uint32(types.DeviceTypeHardDisk)}))
			return 0
		}).
		On("DescribeProperties", func(this, nn, np, dn, dp, tn, tp, fn, fp, vn, vp uintptr) uint32 {
			nativetest.PutU32(nn, 1)
			nativetest.PutPtr(np, f.w.StringArray([]string{"TargetName"}))
			nativetest.PutU32(dn, 1)
			nativetest.PutPtr(dp, f.w.StringArray([]string{"iSCSI target name"}))
			nativetest.PutU32(tn, 1)
			nativetest.PutPtr(tp, f.w.U32Array([]uint32{uint32(types.DataTypeString)}))
			nativetest.PutU32(fn, 1)
			nativetest.PutPtr(fp, f.w.U32Array([]uint32{0x04}))
			// Null default value.
			nativetest.PutU32(vn, 1)
			nativetest.PutPtr(vp, f.w.PtrArray([]uintptr{0}))
			return 0
		})
}

func TestMediumFormat(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	mf := &MediumFormat{f.wrap(newFakeMediumFormat(f))}

	caps, err := mf.Capabilities()
	require.NoError(t, err)
	assert.True(t, caps.Has(types.MediumFormatCapCreateDynamic))
	assert.True(t, caps.Has(types.MediumFormatCapUUID|types.MediumFormatCapFile))
	assert.False(t, caps.Has(types.MediumFormatCapDifferencing))

	exts, err := mf.DescribeFileExtensions()
	require.NoError(t, err)
	assert.Equal(t, []FileExtension{{Extension: "vdi", Type: types.DeviceTypeHardDisk}}, exts)

	props, err := mf.DescribeProperties()
	require.NoError(t, err)
	assert.Equal(t, []MediumProperty{{
		Name:        "TargetName",
		Description: "iSCSI target name",
		Type:        types.DataTypeString,
		Flags:       0x04,
	}}, props)

	assert.Zero(t, f.w.LiveArrays())
	assert.Zero(t, f.w.LiveStrings())
	assert.Empty(t, f.w.BadFrees())
}

func TestSystemPropertiesMediumFormats(t *testing.T) {
	f := newFixture(t, types.APIv6_1)
	vdi := newFakeMediumFormat(f)
	native := f.w.NewObject("ISystemProperties").
		On("GetMediumFormats", func(this, n, p uintptr) uint32 {
			nativetest.PutU32(n, 1)
			nativetest.PutPtr(p, f.w.PtrArray([]uintptr{vdi.Ptr}))
			return 0
		}).
		On("GetDefaultHardDiskFormat", func(this, out uintptr) uint32 {
			nativetest.PutPtr(out, f.w.String("VDI"))
			return 0
		})
	sp := &SystemProperties{f.wrap(native)}

	formats, err := sp.MediumFormats()
	require.NoError(t, err)
	require.Len(t, formats, 1)
	name, err := sp.DefaultHardDiskFormat()
	require.NoError(t, err)
	assert.Equal(t, "VDI", name)
	require.NoError(t, formats[0].Release())
	assert.Zero(t, vdi.Refs())
}

package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Platform is IPlatform, the 7.1 split of the machine's hardware
// architecture settings.
type Platform struct {
	object
}

func (p *Platform) Architecture() (types.PlatformArchitecture, error) {
	raw, err := api.CallNumber[uint32](p.obj, "GetArchitecture")
	return types.PlatformArchitecture(raw), err
}

// SetArchitecture needs a machine locked for writing.
func (p *Platform) SetArchitecture(arch types.PlatformArchitecture) error {
	return api.CallUnit(p.obj, "SetArchitecture", api.U32("architecture", uint32(arch)))
}

func (p *Platform) ChipsetType() (types.ChipsetType, error) {
	raw, err := api.CallNumber[uint32](p.obj, "GetChipsetType")
	return types.ChipsetType(raw), err
}

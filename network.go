package vboxapi

import "github.com/vboxgo/vboxapi/internal/api"

// HostOnlyNetwork is IHostOnlyNetwork, available from 7.0.
type HostOnlyNetwork struct {
	object
}

func (n *HostOnlyNetwork) Name() (string, error) {
	return api.CallString(n.obj, "GetNetworkName")
}

func (n *HostOnlyNetwork) ID() (string, error) {
	return api.CallString(n.obj, "GetId")
}

func (n *HostOnlyNetwork) Enabled() (bool, error) {
	return api.CallBool(n.obj, "GetEnabled")
}

func (n *HostOnlyNetwork) NetworkMask() (string, error) {
	return api.CallString(n.obj, "GetNetworkMask")
}

// LowerIP and UpperIP bound the DHCP range.
func (n *HostOnlyNetwork) LowerIP() (string, error) {
	return api.CallString(n.obj, "GetLowerIP")
}

func (n *HostOnlyNetwork) UpperIP() (string, error) {
	return api.CallString(n.obj, "GetUpperIP")
}

package types

import "fmt"

// BitmapFormat is the FourCC pixel format of a framebuffer or screenshot.
type BitmapFormat uint32

const (
	BitmapFormatOpaque BitmapFormat = 0
	BitmapFormatBGR    BitmapFormat = 0x20524742
	BitmapFormatBGR0   BitmapFormat = 0x30524742
	BitmapFormatBGRA   BitmapFormat = 0x41524742
	BitmapFormatRGBA   BitmapFormat = 0x41424752
	BitmapFormatPNG    BitmapFormat = 0x20474E50
	BitmapFormatJPEG   BitmapFormat = 0x4745504A
)

func (f BitmapFormat) String() string {
	switch f {
	case BitmapFormatOpaque:
		return "Opaque"
	case BitmapFormatBGR:
		return "BGR"
	case BitmapFormatBGR0:
		return "BGR0"
	case BitmapFormatBGRA:
		return "BGRA"
	case BitmapFormatRGBA:
		return "RGBA"
	case BitmapFormatPNG:
		return "PNG"
	case BitmapFormatJPEG:
		return "JPEG"
	}
	return fmt.Sprintf("BitmapFormat(0x%08X)", uint32(f))
}

// FramebufferCapabilities are the bits a framebuffer reports to the display.
type FramebufferCapabilities uint32

const (
	FramebufferCapUpdateImage   FramebufferCapabilities = 0x01
	FramebufferCapVHWA          FramebufferCapabilities = 0x02
	FramebufferCapVisibleRegion FramebufferCapabilities = 0x04
	FramebufferCapRenderCursor  FramebufferCapabilities = 0x08
	FramebufferCapMoveCursor    FramebufferCapabilities = 0x10
)

// MachineState of a virtual machine. The numeric encoding shifted in 7.0,
// when AbortedSaved was inserted, so raw values go through
// MachineStateFromRaw.
type MachineState int

const (
	MachineStateNull MachineState = iota
	MachineStatePoweredOff
	MachineStateSaved
	MachineStateTeleported
	MachineStateAborted
	MachineStateAbortedSaved
	MachineStateRunning
	MachineStatePaused
	MachineStateStuck
	MachineStateTeleporting
	MachineStateLiveSnapshotting
	MachineStateStarting
	MachineStateStopping
	MachineStateSaving
	MachineStateRestoring
	MachineStateTeleportingPausedVM
	MachineStateTeleportingIn
	MachineStateDeletingSnapshotOnline
	MachineStateDeletingSnapshotPaused
	MachineStateOnlineSnapshotting
	MachineStateRestoringSnapshot
	MachineStateDeletingSnapshot
	MachineStateSettingUp
	MachineStateSnapshotting
)

var machineStateNames = [...]string{
	"Null", "PoweredOff", "Saved", "Teleported", "Aborted", "AbortedSaved",
	"Running", "Paused", "Stuck", "Teleporting", "LiveSnapshotting", "Starting",
	"Stopping", "Saving", "Restoring", "TeleportingPausedVM", "TeleportingIn",
	"DeletingSnapshotOnline", "DeletingSnapshotPaused", "OnlineSnapshotting",
	"RestoringSnapshot", "DeletingSnapshot", "SettingUp", "Snapshotting",
}

func (s MachineState) String() string {
	if s >= 0 && int(s) < len(machineStateNames) {
		return machineStateNames[s]
	}
	return fmt.Sprintf("MachineState(%d)", int(s))
}

// MachineStateFromRaw decodes the native value for the given API version.
func MachineStateFromRaw(raw uint32, ver APIVersion) MachineState {
	if ver == APIv6_1 && raw >= uint32(MachineStateAbortedSaved) {
		raw++
	}
	if int(raw) >= len(machineStateNames) {
		return MachineState(-1)
	}
	return MachineState(raw)
}

// IsRunning reports states in which a console is available.
func (s MachineState) IsRunning() bool {
	switch s {
	case MachineStateRunning, MachineStatePaused, MachineStateStuck,
		MachineStateLiveSnapshotting, MachineStateTeleporting,
		MachineStateOnlineSnapshotting:
		return true
	}
	return false
}

type SessionState uint32

const (
	SessionStateNull SessionState = iota
	SessionStateUnlocked
	SessionStateLocked
	SessionStateSpawning
	SessionStateUnlocking
)

func (s SessionState) String() string {
	switch s {
	case SessionStateNull:
		return "Null"
	case SessionStateUnlocked:
		return "Unlocked"
	case SessionStateLocked:
		return "Locked"
	case SessionStateSpawning:
		return "Spawning"
	case SessionStateUnlocking:
		return "Unlocking"
	}
	return fmt.Sprintf("SessionState(%d)", uint32(s))
}

type SessionType uint32

const (
	SessionTypeNull SessionType = iota
	SessionTypeWriteLock
	SessionTypeRemote
	SessionTypeShared
)

type LockType uint32

const (
	LockTypeNull LockType = iota
	LockTypeShared
	LockTypeWrite
	LockTypeVM
)

type DeviceType uint32

const (
	DeviceTypeNull DeviceType = iota
	DeviceTypeFloppy
	DeviceTypeDVD
	DeviceTypeHardDisk
	DeviceTypeNetwork
	DeviceTypeUSB
	DeviceTypeSharedFolder
	DeviceTypeGraphics3D
)

func (d DeviceType) String() string {
	switch d {
	case DeviceTypeNull:
		return "Null"
	case DeviceTypeFloppy:
		return "Floppy"
	case DeviceTypeDVD:
		return "DVD"
	case DeviceTypeHardDisk:
		return "HardDisk"
	case DeviceTypeNetwork:
		return "Network"
	case DeviceTypeUSB:
		return "USB"
	case DeviceTypeSharedFolder:
		return "SharedFolder"
	case DeviceTypeGraphics3D:
		return "Graphics3D"
	}
	return fmt.Sprintf("DeviceType(%d)", uint32(d))
}

// MediumFormatCapabilities bits.
type MediumFormatCapabilities uint32

const (
	MediumFormatCapUUID          MediumFormatCapabilities = 0x01
	MediumFormatCapCreateFixed   MediumFormatCapabilities = 0x02
	MediumFormatCapCreateDynamic MediumFormatCapabilities = 0x04
	MediumFormatCapCreateSplit2G MediumFormatCapabilities = 0x08
	MediumFormatCapDifferencing  MediumFormatCapabilities = 0x10
	MediumFormatCapAsynchronous  MediumFormatCapabilities = 0x20
	MediumFormatCapFile          MediumFormatCapabilities = 0x40
	MediumFormatCapProperties    MediumFormatCapabilities = 0x80
	MediumFormatCapTCPNetworking MediumFormatCapabilities = 0x100
	MediumFormatCapVFS           MediumFormatCapabilities = 0x200
	MediumFormatCapDiscard       MediumFormatCapabilities = 0x400
	MediumFormatCapPreferred     MediumFormatCapabilities = 0x800
)

func (c MediumFormatCapabilities) Has(bit MediumFormatCapabilities) bool {
	return c&bit == bit
}

// DataType of a medium format property.
type DataType uint32

const (
	DataTypeInt32 DataType = iota
	DataTypeInt8
	DataTypeString
)

// VirtualSystemDescriptionType tags one entry of an appliance description.
type VirtualSystemDescriptionType uint32

const (
	VSDTypeIgnore        VirtualSystemDescriptionType = 1
	VSDTypeOS            VirtualSystemDescriptionType = 2
	VSDTypeName          VirtualSystemDescriptionType = 3
	VSDTypeProduct       VirtualSystemDescriptionType = 4
	VSDTypeVendor        VirtualSystemDescriptionType = 5
	VSDTypeVersion       VirtualSystemDescriptionType = 6
	VSDTypeProductURL    VirtualSystemDescriptionType = 7
	VSDTypeVendorURL     VirtualSystemDescriptionType = 8
	VSDTypeDescription   VirtualSystemDescriptionType = 9
	VSDTypeLicense       VirtualSystemDescriptionType = 10
	VSDTypeMiscellaneous VirtualSystemDescriptionType = 11
	VSDTypeCPU           VirtualSystemDescriptionType = 12
	VSDTypeMemory        VirtualSystemDescriptionType = 13
)

// ImportOptions for IAppliance.ImportMachines.
type ImportOptions uint32

const (
	ImportKeepAllMACs ImportOptions = 1
	ImportKeepNATMACs ImportOptions = 2
	ImportToVDI       ImportOptions = 3
)

// EventType is VBoxEventType.
type EventType uint32

const (
	EventTypeInvalid                      EventType = 0
	EventTypeAny                          EventType = 1
	EventTypeVetoable                     EventType = 2
	EventTypeMachineEvent                 EventType = 3
	EventTypeSnapshotEvent                EventType = 4
	EventTypeInputEvent                   EventType = 5
	EventTypeOnMachineStateChanged        EventType = 32
	EventTypeOnMachineDataChanged         EventType = 33
	EventTypeOnExtraDataChanged           EventType = 34
	EventTypeOnExtraDataCanChange         EventType = 35
	EventTypeOnMediumRegistered           EventType = 36
	EventTypeOnMachineRegistered          EventType = 37
	EventTypeOnSessionStateChanged        EventType = 38
	EventTypeOnSnapshotTaken              EventType = 39
	EventTypeOnSnapshotDeleted            EventType = 40
	EventTypeOnSnapshotChanged            EventType = 41
	EventTypeOnGuestPropertyChanged       EventType = 42
	EventTypeOnKeyboardLedsChanged        EventType = 45
	EventTypeOnVBoxSVCAvailabilityChanged EventType = 68
	EventTypeOnSnapshotRestored           EventType = 95
	EventTypeOnProgressPercentageChanged  EventType = 98
	EventTypeOnProgressTaskCompleted      EventType = 99
)

// PlatformArchitecture of a 7.1 machine.
type PlatformArchitecture uint32

const (
	PlatformArchitectureNone PlatformArchitecture = 0
	PlatformArchitectureX86  PlatformArchitecture = 1
	PlatformArchitectureARM  PlatformArchitecture = 2
)

func (a PlatformArchitecture) String() string {
	switch a {
	case PlatformArchitectureNone:
		return "None"
	case PlatformArchitectureX86:
		return "x86"
	case PlatformArchitectureARM:
		return "ARM"
	}
	return fmt.Sprintf("PlatformArchitecture(%d)", uint32(a))
}

// FrontEnd names the process IMachine.LaunchVMProcess starts.
type FrontEnd string

const (
	FrontEndGUI      FrontEnd = "gui"
	FrontEndHeadless FrontEnd = "headless"
	FrontEndSDL      FrontEnd = "sdl"
	FrontEndSeparate FrontEnd = "separate"
	// FrontEndDefault lets VirtualBox pick from the machine settings.
	FrontEndDefault FrontEnd = ""
)

// GuestMonitorStatus is reported with a screen resolution.
type GuestMonitorStatus uint32

const (
	GuestMonitorDisabled GuestMonitorStatus = iota
	GuestMonitorEnabled
	GuestMonitorBlank
)

// ChipsetType of an x86 machine.
type ChipsetType uint32

const (
	ChipsetNull ChipsetType = iota
	ChipsetPIIX3
	ChipsetICH9
	ChipsetARMv8Virtual
)

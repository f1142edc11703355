package types

import "fmt"

// ResultCode is the 32 bit status every native method returns.
type ResultCode uint32

// XPCOM status codes.
const (
	NS_OK                           ResultCode = 0x00000000
	NS_ERROR_NOT_IMPLEMENTED        ResultCode = 0x80004001
	NS_NOINTERFACE                  ResultCode = 0x80004002
	NS_ERROR_INVALID_POINTER        ResultCode = 0x80004003
	NS_ERROR_ABORT                  ResultCode = 0x80004004
	NS_ERROR_FAILURE                ResultCode = 0x80004005
	NS_ERROR_UNEXPECTED             ResultCode = 0x8000FFFF
	NS_ERROR_OUT_OF_MEMORY          ResultCode = 0x8007000E
	NS_ERROR_ILLEGAL_VALUE          ResultCode = 0x80070057
	E_ACCESSDENIED                  ResultCode = 0x80070005
	NS_ERROR_NO_AGGREGATION         ResultCode = 0x80040110
	NS_ERROR_NOT_AVAILABLE          ResultCode = 0x80040111
	NS_ERROR_FACTORY_NOT_REGISTERED ResultCode = 0x80040154
	NS_ERROR_FACTORY_REGISTER_AGAIN ResultCode = 0x80040155
	NS_ERROR_FACTORY_NOT_LOADED     ResultCode = 0x800401F8
	NS_ERROR_BASE                   ResultCode = 0xC1F30000
)

// VirtualBox specific status codes.
const (
	VBOX_E_OBJECT_NOT_FOUND            ResultCode = 0x80BB0001
	VBOX_E_INVALID_VM_STATE            ResultCode = 0x80BB0002
	VBOX_E_VM_ERROR                    ResultCode = 0x80BB0003
	VBOX_E_FILE_ERROR                  ResultCode = 0x80BB0004
	VBOX_E_IPRT_ERROR                  ResultCode = 0x80BB0005
	VBOX_E_PDM_ERROR                   ResultCode = 0x80BB0006
	VBOX_E_INVALID_OBJECT_STATE        ResultCode = 0x80BB0007
	VBOX_E_HOST_ERROR                  ResultCode = 0x80BB0008
	VBOX_E_NOT_SUPPORTED               ResultCode = 0x80BB0009
	VBOX_E_XML_ERROR                   ResultCode = 0x80BB000A
	VBOX_E_INVALID_SESSION_STATE       ResultCode = 0x80BB000B
	VBOX_E_OBJECT_IN_USE               ResultCode = 0x80BB000C
	VBOX_E_PASSWORD_INCORRECT          ResultCode = 0x80BB000D
	VBOX_E_MAXIMUM_REACHED             ResultCode = 0x80BB000E
	VBOX_E_GSTCTL_GUEST_ERROR          ResultCode = 0x80BB000F
	VBOX_E_TIMEOUT                     ResultCode = 0x80BB0010
	VBOX_E_DND_ERROR                   ResultCode = 0x80BB0011
	VBOX_E_PLATFORM_ARCH_NOT_SUPPORTED ResultCode = 0x80BB0012
	VBOX_E_RECORDING_ERROR             ResultCode = 0x80BB0013
)

var resultCodeNames = map[ResultCode]string{
	NS_OK:                              "NS_OK",
	NS_ERROR_NOT_IMPLEMENTED:           "NS_ERROR_NOT_IMPLEMENTED",
	NS_NOINTERFACE:                     "NS_NOINTERFACE",
	NS_ERROR_INVALID_POINTER:           "NS_ERROR_INVALID_POINTER",
	NS_ERROR_ABORT:                     "NS_ERROR_ABORT",
	NS_ERROR_FAILURE:                   "NS_ERROR_FAILURE",
	NS_ERROR_UNEXPECTED:                "NS_ERROR_UNEXPECTED",
	NS_ERROR_OUT_OF_MEMORY:             "NS_ERROR_OUT_OF_MEMORY",
	NS_ERROR_ILLEGAL_VALUE:             "NS_ERROR_ILLEGAL_VALUE",
	E_ACCESSDENIED:                     "E_ACCESSDENIED",
	NS_ERROR_NO_AGGREGATION:            "NS_ERROR_NO_AGGREGATION",
	NS_ERROR_NOT_AVAILABLE:             "NS_ERROR_NOT_AVAILABLE",
	NS_ERROR_FACTORY_NOT_REGISTERED:    "NS_ERROR_FACTORY_NOT_REGISTERED",
	NS_ERROR_FACTORY_REGISTER_AGAIN:    "NS_ERROR_FACTORY_REGISTER_AGAIN",
	NS_ERROR_FACTORY_NOT_LOADED:        "NS_ERROR_FACTORY_NOT_LOADED",
	NS_ERROR_BASE:                      "NS_ERROR_BASE",
	VBOX_E_OBJECT_NOT_FOUND:            "VBOX_E_OBJECT_NOT_FOUND",
	VBOX_E_INVALID_VM_STATE:            "VBOX_E_INVALID_VM_STATE",
	VBOX_E_VM_ERROR:                    "VBOX_E_VM_ERROR",
	VBOX_E_FILE_ERROR:                  "VBOX_E_FILE_ERROR",
	VBOX_E_IPRT_ERROR:                  "VBOX_E_IPRT_ERROR",
	VBOX_E_PDM_ERROR:                   "VBOX_E_PDM_ERROR",
	VBOX_E_INVALID_OBJECT_STATE:        "VBOX_E_INVALID_OBJECT_STATE",
	VBOX_E_HOST_ERROR:                  "VBOX_E_HOST_ERROR",
	VBOX_E_NOT_SUPPORTED:               "VBOX_E_NOT_SUPPORTED",
	VBOX_E_XML_ERROR:                   "VBOX_E_XML_ERROR",
	VBOX_E_INVALID_SESSION_STATE:       "VBOX_E_INVALID_SESSION_STATE",
	VBOX_E_OBJECT_IN_USE:               "VBOX_E_OBJECT_IN_USE",
	VBOX_E_PASSWORD_INCORRECT:          "VBOX_E_PASSWORD_INCORRECT",
	VBOX_E_MAXIMUM_REACHED:             "VBOX_E_MAXIMUM_REACHED",
	VBOX_E_GSTCTL_GUEST_ERROR:          "VBOX_E_GSTCTL_GUEST_ERROR",
	VBOX_E_TIMEOUT:                     "VBOX_E_TIMEOUT",
	VBOX_E_DND_ERROR:                   "VBOX_E_DND_ERROR",
	VBOX_E_PLATFORM_ARCH_NOT_SUPPORTED: "VBOX_E_PLATFORM_ARCH_NOT_SUPPORTED",
	VBOX_E_RECORDING_ERROR:             "VBOX_E_RECORDING_ERROR",
}

// String returns the symbolic name of a known code, or UNKNOWN(0x...).
func (c ResultCode) String() string {
	if name, ok := resultCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%08X)", uint32(c))
}

// Failed reports whether the code signals an error.
func (c ResultCode) Failed() bool {
	return c != NS_OK
}

// Package ffi contains pure-Go representations of the C ABI structs the
// VirtualBox C glue library exposes, and the primitives to call through
// them. Every struct must match the field layout of VBoxCAPI.h exactly.
package ffi

import "unsafe"

// CAPIVersion is the VBOX_CAPI_VERSION requested from VBoxGetCAPIFunctions.
const CAPIVersion uint32 = 0x00040001

// PtrSize is the size of one vtable slot.
const PtrSize = unsafe.Sizeof(uintptr(0))

// CAPI mirrors VBOXCAPI, the function table returned by
// VBoxGetCAPIFunctions. Function pointers are kept as uintptr and invoked
// through a Caller.
type CAPI struct {
	Version uint32

	GetVersion                     uintptr // unsigned int (*)(void)
	GetAPIVersion                  uintptr // unsigned int (*)(void)
	ClientInitialize               uintptr // HRESULT (*)(const char *iid, IVirtualBoxClient **out)
	ClientThreadInitialize         uintptr // HRESULT (*)(void)
	ClientThreadUninitialize       uintptr // HRESULT (*)(void)
	ClientUninitialize             uintptr // void (*)(void)
	ComInitialize                  uintptr
	ComUninitialize                uintptr
	ComUnallocString               uintptr // void (*)(BSTR)
	Utf16ToUtf8                    uintptr
	Utf8ToUtf16                    uintptr
	Utf8Free                       uintptr
	Utf16Free                      uintptr // void (*)(BSTR)
	SafeArrayCreateVector          uintptr
	SafeArrayOutParamAlloc         uintptr
	SafeArrayCopyInParamHelper     uintptr
	SafeArrayCopyOutParamHelper    uintptr
	SafeArrayCopyOutIfaceParamHelp uintptr
	SafeArrayDestroy               uintptr
	SafeArrayGetValue              uintptr
	GetException                   uintptr // HRESULT (*)(IErrorInfo **out)
	ClearException                 uintptr // HRESULT (*)(void)
	ProcessEventQueue              uintptr // int (*)(LONG64 timeoutMS)
	InterruptEventQueueProcessing  uintptr // int (*)(void)
	Utf16Len                       uintptr
	Utf8Len                        uintptr
	ComUnallocMem                  uintptr // void (*)(void *)
	Utf16Clear                     uintptr
	Utf8Clear                      uintptr

	EndVersion uint32
}

// UnknownVtbl mirrors the nsISupports prefix every interface vtable starts with.
type UnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// Slot indexes of the nsISupports methods.
const (
	SlotQueryInterface = 0
	SlotAddRef         = 1
	SlotRelease        = 2
)

// Unknown is the in-memory shape of any native object: a vtable pointer
// followed by data the binding never looks at.
type Unknown struct {
	Vtbl uintptr
}

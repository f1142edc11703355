package ffi

import "github.com/pkg/errors"

// validateCAPI checks the table returned for CAPIVersion: the major part
// must match and the trailing version must repeat the leading one.
func validateCAPI(c *CAPI) error {
	if c.Version&0xffff0000 != CAPIVersion&0xffff0000 {
		return errors.Errorf("glue library speaks VBOX_CAPI_VERSION 0x%08x, want 0x%08x", c.Version, CAPIVersion)
	}
	if c.EndVersion != c.Version {
		return errors.Errorf("function table is truncated: end version 0x%08x, version 0x%08x", c.EndVersion, c.Version)
	}
	for _, fn := range []struct {
		name string
		ptr  uintptr
	}{
		{"pfnGetVersion", c.GetVersion},
		{"pfnGetAPIVersion", c.GetAPIVersion},
		{"pfnClientInitialize", c.ClientInitialize},
		{"pfnClientUninitialize", c.ClientUninitialize},
		{"pfnUtf16Free", c.Utf16Free},
		{"pfnComUnallocMem", c.ComUnallocMem},
	} {
		if fn.ptr == 0 {
			return errors.Errorf("function table has no %s", fn.name)
		}
	}
	return nil
}

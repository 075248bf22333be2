//go:build windows

package winapi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/npackd/npackd-go/pkg/npkgerrors"
	"github.com/npackd/npackd-go/pkg/platform"
)

var (
	msi           = windows.NewLazySystemDLL("msi.dll")
	procEnumProds = msi.NewProc("MsiEnumProductsW")
	procProductInfo = msi.NewProc("MsiGetProductInfoW")

	version_       = windows.NewLazySystemDLL("version.dll")
	procVerInfoSize = version_.NewProc("GetFileVersionInfoSizeW")
	procGetVerInfo  = version_.NewProc("GetFileVersionInfoW")
	procVerQuery    = version_.NewProc("VerQueryValueW")

	user32             = windows.NewLazySystemDLL("user32.dll")
	procBroadcastSystemMessage = user32.NewProc("BroadcastSystemMessageW")
)

// Real is the production WinAPI, calling directly into msi.dll, version.dll
// and the registry package rather than a fake.
type Real struct{}

// New returns the production WinAPI implementation.
func New() Real { return Real{} }

func (Real) OSVersion() (OSVersion, error) {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	return OSVersion{Major: int(major), Minor: int(minor), Build: int(build)}, nil
}

func rootKeyFor(view platform.RegistryView) uint32 {
	if view == platform.View64 {
		return registry.WOW64_64KEY
	}
	return registry.WOW64_32KEY
}

func (Real) RegistrySubKeys(view platform.RegistryView, path string) ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.READ|rootKeyFor(view))
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, nil
		}
		return nil, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()
	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	return names, nil
}

func (Real) RegistryStringValue(view platform.RegistryView, path, name string) (string, bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.READ|rootKeyFor(view))
	if err != nil {
		if err == registry.ErrNotExist {
			return "", false, nil
		}
		return "", false, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()
	v, _, err := k.GetStringValue(name)
	if err == registry.ErrNotExist {
		return "", false, nil
	}
	if err != nil {
		return "", false, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	return v, true, nil
}

func (Real) RegistryDWORDValue(path, name string) (uint32, bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.READ)
	if err != nil {
		if err == registry.ErrNotExist {
			return 0, false, nil
		}
		return 0, false, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()
	v, _, err := k.GetIntegerValue(name)
	if err == registry.ErrNotExist {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	return uint32(v), true, nil
}

func (Real) SetRegistryDWORDValue(path, name string, value uint32) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, path, registry.WRITE)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()
	if err := k.SetDWordValue(name, value); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	return nil
}

// MSIProducts enumerates installed product codes via MsiEnumProductsW, then
// reads each product's INSTALLLOCATION via MsiGetProductInfoW.
func (Real) MSIProducts() ([]MSIProduct, error) {
	var out []MSIProduct
	for i := uint32(0); ; i++ {
		var buf [39]uint16 // product codes are fixed-width GUIDs, 38 chars + NUL
		ret, _, _ := procEnumProds.Call(uintptr(i), uintptr(unsafe.Pointer(&buf[0])))
		if ret != 0 { // ERROR_NO_MORE_ITEMS or failure
			break
		}
		code := windows.UTF16ToString(buf[:])

		loc, err := productInfo(code, "InstallLocation")
		if err != nil {
			loc = "" // fall back to %WINDIR% at the call site, per the spec
		}
		out = append(out, MSIProduct{ProductCode: code, InstallLocation: loc})
	}
	return out, nil
}

func productInfo(productCode, property string) (string, error) {
	pc, err := windows.UTF16PtrFromString(productCode)
	if err != nil {
		return "", err
	}
	prop, err := windows.UTF16PtrFromString(property)
	if err != nil {
		return "", err
	}
	var size uint32 = 512
	buf := make([]uint16, size)
	ret, _, _ := procProductInfo.Call(
		uintptr(unsafe.Pointer(pc)),
		uintptr(unsafe.Pointer(prop)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)),
	)
	if ret != 0 {
		return "", fmt.Errorf("MsiGetProductInfoW(%s, %s): %d", productCode, property, ret)
	}
	return windows.UTF16ToString(buf), nil
}

// FileVersion reads path's VS_FIXEDFILEINFO-derived "major.minor.build.revision"
// string via GetFileVersionInfoW/VerQueryValueW.
func (Real) FileVersion(path string) (string, bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", false, err
	}
	size, _, _ := procVerInfoSize.Call(uintptr(unsafe.Pointer(p)), 0)
	if size == 0 {
		return "", false, nil // file absent or carries no version resource
	}
	data := make([]byte, size)
	ret, _, _ := procGetVerInfo.Call(uintptr(unsafe.Pointer(p)), 0, size, uintptr(unsafe.Pointer(&data[0])))
	if ret == 0 {
		return "", false, nil
	}

	var fixedInfo uintptr
	var fixedLen uint32
	sub, err := windows.UTF16PtrFromString(`\`)
	if err != nil {
		return "", false, err
	}
	ret, _, _ = procVerQuery.Call(
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(unsafe.Pointer(sub)),
		uintptr(unsafe.Pointer(&fixedInfo)),
		uintptr(unsafe.Pointer(&fixedLen)),
	)
	if ret == 0 || fixedLen < 13*4 {
		return "", false, nil
	}

	type fixedFileInfo struct {
		Signature        uint32
		StrucVersion     uint32
		FileVersionMS    uint32
		FileVersionLS    uint32
		ProductVersionMS uint32
		ProductVersionLS uint32
	}
	info := (*fixedFileInfo)(unsafe.Pointer(fixedInfo))
	major := info.FileVersionMS >> 16
	minor := info.FileVersionMS & 0xffff
	build := info.FileVersionLS >> 16
	revision := info.FileVersionLS & 0xffff
	return fmt.Sprintf("%d.%d.%d.%d", major, minor, build, revision), true, nil
}

// SetSystemEnv writes a system-scope environment variable under the
// Environment key and broadcasts WM_SETTINGCHANGE, mirroring how
// Control Panel applies environment variable changes.
func (Real) SetSystemEnv(name, value string) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Control\Session Manager\Environment`, registry.WRITE)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()
	if err := k.SetStringValue(name, value); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}

	const (
		hwndBroadcast  = 0xffff
		wmSettingChange = 0x001A
		bsmApplications = 0x00000008
	)
	env, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	flags := uint32(bsmApplications)
	procBroadcastSystemMessage.Call(
		uintptr(unsafe.Pointer(&flags)),
		0,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(env)),
	)
	return nil
}

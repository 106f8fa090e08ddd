//go:build windows

package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	fileMapRead = 0x0004
)

type windowsRegion struct {
	handle windows.Handle
	addr   uintptr
	data   []byte
}

func openLiveRegion(name string, maxSize int) (Region, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("platform: encode region name: %w", err)
	}
	h, err := windows.OpenFileMapping(fileMapRead, false, namePtr)
	if err != nil {
		return nil, fmt.Errorf("platform: open file mapping %q: %w", name, err)
	}
	addr, err := windows.MapViewOfFile(h, fileMapRead, 0, 0, uintptr(maxSize))
	if err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("platform: map view of file %q: %w", name, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), maxSize)
	return &windowsRegion{handle: h, addr: addr, data: data}, nil
}

func (r *windowsRegion) Bytes() []byte { return r.data }

func (r *windowsRegion) Close() error {
	if r.addr != 0 {
		_ = windows.UnmapViewOfFile(r.addr)
		r.addr = 0
	}
	if r.handle != 0 {
		err := windows.CloseHandle(r.handle)
		r.handle = 0
		return err
	}
	return nil
}

type windowsEvent struct {
	handle windows.Handle
}

func openEvent(name string) (EventHandle, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("platform: encode event name: %w", err)
	}
	h, err := windows.OpenEvent(windows.SYNCHRONIZE, false, namePtr)
	if err != nil {
		return nil, fmt.Errorf("platform: open event %q: %w", name, err)
	}
	return &windowsEvent{handle: h}, nil
}

func (e *windowsEvent) Wait(timeout time.Duration) (bool, error) {
	ms := uint32(timeout.Milliseconds())
	code, err := windows.WaitForSingleObject(e.handle, ms)
	if err != nil {
		return false, fmt.Errorf("platform: wait on event: %w", err)
	}
	switch code {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, nil
	default:
		return false, fmt.Errorf("platform: unexpected wait result %d", code)
	}
}

func (e *windowsEvent) Close() error {
	if e.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(e.handle)
	e.handle = 0
	return err
}

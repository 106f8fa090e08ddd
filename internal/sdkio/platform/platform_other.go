//go:build !windows

package platform

// Non-Windows hosts have no live simulator to attach to. The file-backed
// source path (which never touches this package) remains fully usable for
// development, testing, and disk-reader work on any OS.

func openLiveRegion(name string, maxSize int) (Region, error) {
	return nil, ErrUnsupported
}

func openEvent(name string) (EventHandle, error) {
	return nil, ErrUnsupported
}

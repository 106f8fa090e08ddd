//go:build windows

package broadcast

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	broadcastMsgName = "IRSDK_BROADCASTMSG"
	hwndBroadcast    = 0xFFFF
)

var (
	user32                     = windows.NewLazySystemDLL("user32.dll")
	procRegisterWindowMessage = user32.NewProc("RegisterWindowMessageW")
	procSendNotifyMessage     = user32.NewProc("SendNotifyMessageW")
)

// broadcastMsg holds the IRSDK_BROADCASTMSG id, registered once per
// process by a one-shot initializer and shared by every windowsSender.
var broadcastMsg struct {
	once    sync.Once
	msgID   uintptr
	initErr error
}

// windowsSender posts via SendNotifyMessageW to HWND_BROADCAST using the
// process-wide registered message id.
type windowsSender struct{}

// NewSender returns the Windows broadcast sender.
func NewSender() Sender { return &windowsSender{} }

func (s *windowsSender) register() error {
	broadcastMsg.once.Do(func() {
		namePtr, err := windows.UTF16PtrFromString(broadcastMsgName)
		if err != nil {
			broadcastMsg.initErr = fmt.Errorf("broadcast: encode message name: %w", err)
			return
		}
		r, _, callErr := procRegisterWindowMessage.Call(uintptr(unsafe.Pointer(namePtr)))
		if r == 0 {
			broadcastMsg.initErr = fmt.Errorf("broadcast: RegisterWindowMessageW: %w", callErr)
			return
		}
		broadcastMsg.msgID = r
	})
	return broadcastMsg.initErr
}

func (s *windowsSender) Post(w Word) error {
	if err := s.register(); err != nil {
		return err
	}
	r, _, callErr := procSendNotifyMessage.Call(
		uintptr(hwndBroadcast),
		broadcastMsg.msgID,
		uintptr(w.WParam),
		uintptr(w.LParam),
	)
	if r == 0 {
		return fmt.Errorf("broadcast: SendNotifyMessageW: %w", callErr)
	}
	return nil
}

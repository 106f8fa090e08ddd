package broadcast

import "fmt"

// Broadcaster fixes each semantic command's Msg kind and routes the
// arguments through Encode and a Sender. Sending is the only side effect;
// a Sender failure is returned to the caller wrapped with a "broadcast:"
// prefix, never fatal.
type Broadcaster struct {
	sender Sender
}

// NewBroadcaster wraps the given Sender with the semantic command surface.
func NewBroadcaster(sender Sender) *Broadcaster {
	return &Broadcaster{sender: sender}
}

func (b *Broadcaster) send(kind Msg, a, bb, c uint16) error {
	w := Encode(uint16(kind), a, bb, c)
	if err := b.sender.Post(w); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	return nil
}

func (b *Broadcaster) CamSwitchPos(position, group, camera uint16) error {
	return b.send(MsgCamSwitchPos, position, group, camera)
}

// CamSwitchNum switches the camera to a specific car number, padding
// leading-zero car numbers per PadCarNum so the receiver can recover e.g.
// "07" vs "7".
func (b *Broadcaster) CamSwitchNum(carNumber string, group, camera uint16) error {
	return b.send(MsgCamSwitchNum, uint16(PadCarNum(carNumber)), group, camera)
}

func (b *Broadcaster) CamSetState(state CameraState) error {
	return b.send(MsgCamSetState, uint16(state), 0, 0)
}

func (b *Broadcaster) ReplaySetPlaySpeed(speed uint16, slowMotion bool) error {
	var sm uint16
	if slowMotion {
		sm = 1
	}
	return b.send(MsgReplaySetPlaySpeed, speed, sm, 0)
}

func (b *Broadcaster) ReplaySetPlayPosition(mode ReplayPositionMode, frameNum uint16) error {
	return b.send(MsgReplaySetPlayPosition, uint16(mode), frameNum, 0)
}

func (b *Broadcaster) ReplaySearch(mode ReplaySearchMode) error {
	return b.send(MsgReplaySearch, uint16(mode), 0, 0)
}

func (b *Broadcaster) ReplaySetState(mode ReplayStateMode) error {
	return b.send(MsgReplaySetState, uint16(mode), 0, 0)
}

func (b *Broadcaster) ReloadAllTextures() error {
	return b.send(MsgReloadTextures, uint16(ReloadTexturesAll), 0, 0)
}

func (b *Broadcaster) ReloadTexture(carIdx uint16) error {
	return b.send(MsgReloadTextures, uint16(ReloadTexturesCarIdx), carIdx, 0)
}

func (b *Broadcaster) ChatCommand(mode ChatCommandMode) error {
	return b.send(MsgChatCommand, uint16(mode), 0, 0)
}

func (b *Broadcaster) ChatCommandMacro(macroNum uint16) error {
	return b.send(MsgChatCommand, uint16(ChatCommandMacro), macroNum, 0)
}

func (b *Broadcaster) PitCommand(mode PitCommandMode, v uint16) error {
	return b.send(MsgPitCommand, uint16(mode), v, 0)
}

func (b *Broadcaster) TelemCommand(mode TelemCommandMode) error {
	return b.send(MsgTelemCommand, uint16(mode), 0, 0)
}

// FFBCommand sends a force-feedback command: value is fixed-pointed via
// EncodeMaxForce into the 'a' field and mode is carried in 'b'.
func (b *Broadcaster) FFBCommand(mode FFBCommandMode, value float32) error {
	return b.send(MsgFFBCommand, EncodeMaxForce(value), uint16(mode), 0)
}

func (b *Broadcaster) ReplaySearchSessionTime(sessionNum, sessionTimeMs uint16) error {
	return b.send(MsgReplaySearchSessionTime, sessionNum, sessionTimeMs, 0)
}

func (b *Broadcaster) VideoCapture(mode VideoCaptureMode) error {
	return b.send(MsgVideoCapture, uint16(mode), 0, 0)
}

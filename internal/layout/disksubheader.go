package layout

import "time"

// DiskSubHeaderOffset is the fixed byte offset of the DiskSubHeader within
// a recorded (.ibt) telemetry file.
const DiskSubHeaderOffset = 112

const (
	diskOffStartDate    = 0
	diskOffStartTime     = 8
	diskOffEndTime       = 16
	diskOffLapCount      = 24
	diskOffRecordCount   = 28
)

// DiskSubHeader is a lazy view over the recording-specific header that
// follows the common Header in a .ibt file.
type DiskSubHeader struct {
	Region []byte
	Offset int
}

func (d DiskSubHeader) SessionStartDate() (uint64, error) {
	return readU64(d.Region, d.Offset+diskOffStartDate)
}

func (d DiskSubHeader) SessionStartTime() (float64, error) {
	return readF64(d.Region, d.Offset+diskOffStartTime)
}

func (d DiskSubHeader) SessionEndTime() (float64, error) {
	return readF64(d.Region, d.Offset+diskOffEndTime)
}

func (d DiskSubHeader) SessionLapCount() (int32, error) {
	return readI32(d.Region, d.Offset+diskOffLapCount)
}

func (d DiskSubHeader) SessionRecordCount() (int32, error) {
	return readI32(d.Region, d.Offset+diskOffRecordCount)
}

// StartDuration converts SessionStartTime (seconds, as a float64 offset)
// into a time.Duration for callers that want typed time arithmetic instead
// of a raw float.
func (d DiskSubHeader) StartDuration() (time.Duration, error) {
	t, err := d.SessionStartTime()
	if err != nil {
		return 0, err
	}
	return time.Duration(t * float64(time.Second)), nil
}

// EndDuration is the End-time equivalent of StartDuration.
func (d DiskSubHeader) EndDuration() (time.Duration, error) {
	t, err := d.SessionEndTime()
	if err != nil {
		return 0, err
	}
	return time.Duration(t * float64(time.Second)), nil
}

// StartedAt interprets SessionStartDate as a Unix timestamp in seconds.
func (d DiskSubHeader) StartedAt() (time.Time, error) {
	v, err := d.SessionStartDate()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(v), 0).UTC(), nil
}

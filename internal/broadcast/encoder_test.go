package broadcast

import (
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		kind := uint16(r.Intn(1 << 16))
		a := uint16(r.Intn(1 << 16))
		b := uint16(r.Intn(1 << 16))
		c := uint16(r.Intn(1 << 16))
		w := Encode(kind, a, b, c)
		gk, ga, gb, gc := Decode(w)
		if gk != kind || ga != a || gb != b || gc != c {
			t.Fatalf("round-trip mismatch: got (%d,%d,%d,%d), want (%d,%d,%d,%d)", gk, ga, gb, gc, kind, a, b, c)
		}
	}
}

func TestPitCommandEncoding(t *testing.T) {
	w := Encode(uint16(MsgPitCommand), uint16(PitCommandFuel), 100, 0)
	if w.WParam != 0x00020009 {
		t.Errorf("WParam = 0x%08X, want 0x00020009", w.WParam)
	}
	if w.LParam != 0x00000064 {
		t.Errorf("LParam = 0x%08X, want 0x00000064", w.LParam)
	}
}

func TestFFBMaxForceEncoding(t *testing.T) {
	a := EncodeMaxForce(0.75)
	if a != 49152 {
		t.Fatalf("EncodeMaxForce(0.75) = %d, want 49152", a)
	}
	w := Encode(uint16(MsgFFBCommand), a, uint16(FFBCommandMaxForce), 0)
	if w.WParam != 0xC000000B {
		t.Errorf("WParam = 0x%08X, want 0xC000000B", w.WParam)
	}
	if w.LParam != 0 {
		t.Errorf("LParam = 0x%08X, want 0", w.LParam)
	}
}

func TestPadCarNum(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"007", 3007},
		{"07", 2007},
		{"7", 7},
		{"0", 0},
	}
	for _, c := range cases {
		if got := PadCarNum(c.in); got != c.want {
			t.Errorf("PadCarNum(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

type fakeSender struct {
	last Word
	err  error
}

func (f *fakeSender) Post(w Word) error {
	f.last = w
	return f.err
}

func TestBroadcasterPitCommand(t *testing.T) {
	fs := &fakeSender{}
	b := NewBroadcaster(fs)
	if err := b.PitCommand(PitCommandFuel, 100); err != nil {
		t.Fatal(err)
	}
	if fs.last.WParam != 0x00020009 || fs.last.LParam != 0x00000064 {
		t.Fatalf("got word %+v", fs.last)
	}
}

func TestBroadcasterCamSwitchNumPadsCarNumber(t *testing.T) {
	fs := &fakeSender{}
	b := NewBroadcaster(fs)
	if err := b.CamSwitchNum("07", 1, 0); err != nil {
		t.Fatal(err)
	}
	gotKind, gotA, _, _ := Decode(fs.last)
	if Msg(gotKind) != MsgCamSwitchNum || gotA != 2007 {
		t.Fatalf("kind=%d a=%d, want kind=%d a=2007", gotKind, gotA, MsgCamSwitchNum)
	}
}

func TestBroadcasterPropagatesSendError(t *testing.T) {
	fs := &fakeSender{err: ErrUnsupported}
	b := NewBroadcaster(fs)
	if err := b.TelemCommand(TelemCommandStop); err == nil {
		t.Fatal("expected error from failing sender")
	}
}

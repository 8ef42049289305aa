package cpu

// RGB is a palette color.
type RGB struct {
	R, G, B uint8
}

// Sprite is a draw request. Data holds Width*Height bytes of 4-bit
// pixels, the left pixel in the high nibble. Pixel value 0 is
// transparent.
type Sprite struct {
	Address uint16
	X, Y    int16
	Width   uint8 // Bytes per row.
	Height  uint8
	HFlip   bool
	VFlip   bool
	Data    []byte
}

// Waveform is the tone generator wave shape.
type Waveform uint8

//go:generate go tool stringer -linecomment -type=Waveform
const (
	WAVE_TRIANGLE = Waveform(0) // triangle
	WAVE_SAWTOOTH = Waveform(1) // sawtooth
	WAVE_PULSE    = Waveform(2) // pulse
	WAVE_NOISE    = Waveform(3) // noise
)

// Envelope is the ADSR, volume and wave shape set by SNG. All values
// are 4-bit.
type Envelope struct {
	Attack   uint8
	Decay    uint8
	Sustain  uint8
	Release  uint8
	Volume   uint8
	Waveform Waveform
}

// Tone channels.
const (
	TONE_CHANNEL_STOP       = 0 // SND0: silence all tones.
	TONE_CHANNEL_500HZ      = 1 // SND1
	TONE_CHANNEL_1000HZ     = 2 // SND2
	TONE_CHANNEL_1500HZ     = 3 // SND3
	TONE_CHANNEL_PROGRAMMED = 4 // SNP
)

// Tone is a sound request. Duration is in milliseconds. A zero
// Frequency stops playback.
type Tone struct {
	Channel   uint8
	Frequency uint16
	Duration  uint16
	Envelope  Envelope
}

// Peripheral is the boundary to the graphics, sound and random number
// devices. Every call must return immediately.
type Peripheral interface {
	// ClearScreen clears the video surface.
	ClearScreen()
	// SetBackground selects the palette index shown behind sprites.
	SetBackground(index uint8)
	// SetPalette replaces one of the 16 palette colors.
	SetPalette(slot uint8, color RGB)
	// DrawSprite draws a sprite, returning true if any opaque pixel
	// overlapped an opaque pixel already on the surface.
	DrawSprite(sprite Sprite) (collision bool)
	// PlayTone starts or stops a tone.
	PlayTone(tone Tone)
	// WaitVblank notes that the program is waiting for vertical blank.
	WaitVblank()
	// Random returns a value in [0, bound].
	Random(bound uint16) uint16
}

// idlePeripheral ignores all device requests. Its random numbers come
// from a seeded Random, so a Cpu without a host peripheral is still
// deterministic.
type idlePeripheral struct {
	rng Random
}

var _ Peripheral = (*idlePeripheral)(nil)

func newIdlePeripheral(seed uint64) *idlePeripheral {
	idle := &idlePeripheral{rng: Random{Seed: seed}}
	idle.Reset()
	return idle
}

func (idle *idlePeripheral) Reset() {
	idle.rng.Reset()
}

func (idle *idlePeripheral) ClearScreen()                   {}
func (idle *idlePeripheral) SetBackground(index uint8)      {}
func (idle *idlePeripheral) SetPalette(slot uint8, rgb RGB) {}
func (idle *idlePeripheral) DrawSprite(sprite Sprite) bool  { return false }
func (idle *idlePeripheral) PlayTone(tone Tone)             {}
func (idle *idlePeripheral) WaitVblank()                    {}
func (idle *idlePeripheral) Random(bound uint16) uint16 {
	return idle.rng.Next(bound)
}

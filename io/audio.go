package io

import (
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/chip16/cpu"
)

// Cue is a tone request, stamped with the frame it was made in.
type Cue struct {
	Frame int
	Tone  cpu.Tone
}

func (cue Cue) String() string {
	tone := cue.Tone
	if tone.Channel == cpu.TONE_CHANNEL_STOP {
		return fmt.Sprintf("%6d: stop", cue.Frame)
	}

	text := fmt.Sprintf("%6d: ch%d %5dHz %5dms", cue.Frame, tone.Channel, tone.Frequency, tone.Duration)
	if tone.Channel == cpu.TONE_CHANNEL_PROGRAMMED {
		env := tone.Envelope
		text += fmt.Sprintf(" %v adsr:%x%x%x%x vol:%x",
			env.Waveform, env.Attack, env.Decay, env.Sustain, env.Release, env.Volume)
	}
	return text
}

// Audio records tone requests instead of synthesizing them.
type Audio struct {
	Output io.Writer // If set, each cue is written as one line.

	Cues []Cue

	playing map[uint8]cpu.Tone
}

// Reset forgets all cues and silences every channel.
func (audio *Audio) Reset() {
	audio.Cues = nil
	clear(audio.playing)
}

// Play records a tone. A stop request, or a zero frequency, silences
// every channel.
func (audio *Audio) Play(frame int, tone cpu.Tone) (err error) {
	cue := Cue{Frame: frame, Tone: tone}
	audio.Cues = append(audio.Cues, cue)

	if tone.Channel == cpu.TONE_CHANNEL_STOP || tone.Frequency == 0 {
		clear(audio.playing)
	} else {
		if audio.playing == nil {
			audio.playing = make(map[uint8]cpu.Tone)
		}
		audio.playing[tone.Channel] = tone
	}

	if audio.Output != nil {
		_, err = fmt.Fprintln(audio.Output, cue)
	}

	return
}

// Playing returns the most recent tone of each sounding channel, in
// channel order.
func (audio *Audio) Playing() iter.Seq[cpu.Tone] {
	return func(yield func(tone cpu.Tone) bool) {
		for channel := range uint8(cpu.TONE_CHANNEL_PROGRAMMED + 1) {
			tone, ok := audio.playing[channel]
			if !ok {
				continue
			}
			if !yield(tone) {
				return
			}
		}
	}
}

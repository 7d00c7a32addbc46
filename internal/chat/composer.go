package chat

import (
	"fmt"
	"strings"
)

// VoiceFallbackPrompt is sent upstream when a turn carries a voice clip but
// no typed text. It never appears in the transcript.
const VoiceFallbackPrompt = "Listen to this audio clip and reply to it."

// AudioMarker is the transcript marker for a staged voice clip
const AudioMarker = "[voice clip]"

// ItemKind discriminates payload items
type ItemKind int

const (
	ItemFile ItemKind = iota
	ItemAudio
	ItemText
)

// Item is one element of an outbound payload
type Item struct {
	Kind ItemKind

	// ItemFile
	File FileInput

	// ItemAudio
	Audio     []byte
	AudioHash string

	// ItemText
	Text string
}

// Payload is the ordered sequence forwarded upstream for one turn:
// files first, then the voice clip, then text.
type Payload struct {
	Items []Item
}

// Empty reports whether there is nothing to send. Callers must treat an
// empty payload as a no-op: nothing is uploaded, sent, or recorded.
func (p Payload) Empty() bool {
	return len(p.Items) == 0
}

// Text returns the payload's prompt text, if any
func (p Payload) Text() string {
	for _, item := range p.Items {
		if item.Kind == ItemText {
			return item.Text
		}
	}
	return ""
}

// Compose stages the turn's genuinely-new inputs into an ordered payload and
// builds the transcript line for the user message.
//
// The transcript markers count staged (attempted) uploads, not confirmed
// ones; upload failures are surfaced separately by the exchange driver.
// Compose performs no upstream I/O and no dedup commits.
func Compose(conv *Conversation, files []FileInput, audio []byte, text string) (Payload, string) {
	var payload Payload
	var display []string

	newFiles := conv.FilterNewFiles(files)
	for _, file := range newFiles {
		payload.Items = append(payload.Items, Item{Kind: ItemFile, File: file})
	}
	if n := len(newFiles); n > 0 {
		display = append(display, fmt.Sprintf("[attachment: %d files]", n))
	}

	audioStaged := false
	if len(audio) > 0 {
		if fresh, hash := conv.IsNewAudio(audio); fresh {
			payload.Items = append(payload.Items, Item{Kind: ItemAudio, Audio: audio, AudioHash: hash})
			display = append(display, AudioMarker)
			audioStaged = true
		}
	}

	switch {
	case text != "":
		payload.Items = append(payload.Items, Item{Kind: ItemText, Text: text})
		display = append(display, text)
	case audioStaged:
		// Upstream needs an instruction to react to the clip; the
		// transcript shows only the marker.
		payload.Items = append(payload.Items, Item{Kind: ItemText, Text: VoiceFallbackPrompt})
	}

	return payload, strings.Join(display, " ")
}

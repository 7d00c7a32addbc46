package chat

import (
	"fmt"

	"github.com/diogo/companion/internal/models"

	apierrors "github.com/diogo/companion/internal/errors"
)

// Inputs carries one interaction's raw inputs as collected by the driver.
// Files and audio may repeat inputs from earlier turns; Compose filters them
// against the conversation's dedup state.
type Inputs struct {
	Files []FileInput
	Audio []byte
	Text  string
}

// Result reports what one exchange did
type Result struct {
	// Reply is the assistant's text, empty when Send failed
	Reply string

	// DisplayText is the transcript line recorded for the user message
	DisplayText string

	// UploadErrors holds per-attachment upload failures. They are reported,
	// not fatal: the remaining attachments and the send still proceed.
	UploadErrors []error
}

// Exchange runs one full turn against the current conversation:
// filter → compose → upload each new attachment → commit successes →
// send → append transcript entries → auto-title.
//
// It returns ErrNothingToSend when the turn stages nothing; callers must
// treat that as a no-op. A Send failure leaves the already-appended user
// message in place and appends no assistant message; attachments that
// uploaded successfully stay committed either way, so they are never
// re-sent, while failed ones stay eligible for retry.
func (s *Store) Exchange(in Inputs) (*Result, error) {
	conv := s.Current()

	payload, display := Compose(conv, in.Files, in.Audio, in.Text)
	if payload.Empty() {
		return nil, apierrors.ErrNothingToSend
	}

	session := s.sessionFor(conv)
	result := &Result{DisplayText: display}

	var refs []FileRef
	var audioSent []byte
	for _, item := range payload.Items {
		switch item.Kind {
		case ItemFile:
			ref, err := session.Upload(item.File.Data, item.File.Name)
			if err != nil {
				s.logger.Warn().Err(err).Str("file", item.File.Name).Msg("attachment upload failed")
				result.UploadErrors = append(result.UploadErrors,
					fmt.Errorf("upload %s: %w", item.File.Name, err))
				continue
			}
			conv.CommitFile(item.File.Name)
			refs = append(refs, ref)

		case ItemAudio:
			name := voiceClipName(item.AudioHash)
			ref, err := session.Upload(item.Audio, name)
			if err != nil {
				s.logger.Warn().Err(err).Str("clip", name).Msg("voice clip upload failed")
				result.UploadErrors = append(result.UploadErrors,
					fmt.Errorf("upload voice clip: %w", err))
				continue
			}
			conv.CommitAudio(item.AudioHash)
			refs = append(refs, ref)
			audioSent = item.Audio
		}
	}

	prompt := payload.Text()
	if len(refs) == 0 && in.Text == "" {
		// Every upload failed and the user typed nothing; sending the bare
		// fallback instruction would be meaningless.
		return result, fmt.Errorf("no attachment could be uploaded: %w", result.UploadErrors[0])
	}
	if in.Text == "" && audioSent == nil {
		// The composed prompt can only be the voice fallback instruction
		// here, and the clip it refers to never made it upstream. The
		// surviving file refs go out without it.
		prompt = ""
	}

	conv.Append(models.Message{
		Role:    models.RoleUser,
		Content: display,
		Audio:   audioSent,
	})

	title := in.Text
	if title == "" {
		title = display
	}
	s.RenameIfUntitled(conv.ID, title)

	reply, err := session.Send(prompt, refs)
	if err != nil {
		return result, err
	}

	result.Reply = reply
	conv.Append(models.Message{
		Role:    models.RoleAssistant,
		Content: reply,
	})
	return result, nil
}

func voiceClipName(hash string) string {
	short := hash
	if len(short) > 8 {
		short = short[:8]
	}
	return "voice-" + short + models.VoiceClipExtension
}

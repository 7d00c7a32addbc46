package models

import "testing"

func TestModelFromName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"full flash name", "gemini-2.5-flash", "gemini-2.5-flash"},
		{"flash alias", "fast", "gemini-2.5-flash"},
		{"full pro name", "gemini-3.0-pro", "gemini-3.0-pro"},
		{"pro alias", "pro", "gemini-3.0-pro"},
		{"unknown", "gpt-4", "unspecified"},
		{"empty", "", "unspecified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := ModelFromName(tt.input)
			if model.Name != tt.expected {
				t.Errorf("ModelFromName(%q).Name = %s, want %s", tt.input, model.Name, tt.expected)
			}
		})
	}
}

func TestKnownModelName(t *testing.T) {
	if !KnownModelName("pro") {
		t.Error("expected pro to be known")
	}
	if KnownModelName("bogus") {
		t.Error("expected bogus to be unknown")
	}
}

func TestAllModelsHaveHeaders(t *testing.T) {
	for _, model := range AllModels() {
		if model.Name == "" {
			t.Error("model with empty name")
		}
		if len(model.Header) == 0 {
			t.Errorf("model %s has no header", model.Name)
		}
	}
}

func TestMIMEForFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"notes.txt", "text/plain"},
		{"report.PDF", "application/pdf"},
		{"clip.m4a", "audio/mp4"},
		{"clip.ogg", "audio/ogg"},
		{"photo.jpeg", "image/jpeg"},
		{"binary.xyz", MIMEOctetStream},
		{"noextension", MIMEOctetStream},
	}

	for _, tt := range tests {
		if got := MIMEForFilename(tt.filename); got != tt.expected {
			t.Errorf("MIMEForFilename(%q) = %s, want %s", tt.filename, got, tt.expected)
		}
	}
}

func TestIsAudioFilename(t *testing.T) {
	if !IsAudioFilename("voice.wav") {
		t.Error("expected .wav to be audio")
	}
	if IsAudioFilename("voice.txt") {
		t.Error("expected .txt not to be audio")
	}
}

func TestModelOutputText(t *testing.T) {
	output := &ModelOutput{
		Metadata: []string{"cid", "rid", "rcid"},
		Candidates: []Candidate{
			{RCID: "rc1", Text: "first"},
			{RCID: "rc2", Text: "second"},
		},
		Chosen: 1,
	}

	if output.Text() != "second" {
		t.Errorf("Text() = %s, want second", output.Text())
	}
	if output.RCID() != "rc2" {
		t.Errorf("RCID() = %s, want rc2", output.RCID())
	}
	if output.CID() != "cid" {
		t.Errorf("CID() = %s, want cid", output.CID())
	}
	if output.RID() != "rid" {
		t.Errorf("RID() = %s, want rid", output.RID())
	}

	// Out-of-range chosen index falls back to the first candidate
	output.Chosen = 5
	if output.Text() != "first" {
		t.Errorf("Text() with bad index = %s, want first", output.Text())
	}

	empty := &ModelOutput{}
	if empty.Text() != "" || empty.RCID() != "" {
		t.Error("empty output should produce empty text and rcid")
	}
}

func TestMessageHasAudio(t *testing.T) {
	msg := Message{Role: RoleUser, Content: "hi"}
	if msg.HasAudio() {
		t.Error("text message should not report audio")
	}
	msg.Audio = []byte{0x01}
	if !msg.HasAudio() {
		t.Error("message with bytes should report audio")
	}
}

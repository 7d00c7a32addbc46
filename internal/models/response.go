package models

// Candidate represents a single response candidate from Gemini
type Candidate struct {
	RCID     string
	Text     string
	Thoughts string // Only populated for thinking models
}

// ModelOutput represents the complete API response from Gemini
type ModelOutput struct {
	Metadata   []string // [cid, rid, rcid]
	Candidates []Candidate
	Chosen     int // Index of selected candidate
}

// Text returns the chosen candidate's text
func (m *ModelOutput) Text() string {
	c := m.ChosenCandidate()
	if c == nil {
		return ""
	}
	return c.Text
}

// Thoughts returns the chosen candidate's thoughts
func (m *ModelOutput) Thoughts() string {
	c := m.ChosenCandidate()
	if c == nil {
		return ""
	}
	return c.Thoughts
}

// RCID returns the chosen candidate's RCID
func (m *ModelOutput) RCID() string {
	c := m.ChosenCandidate()
	if c == nil {
		return ""
	}
	return c.RCID
}

// ChosenCandidate returns a pointer to the chosen candidate
func (m *ModelOutput) ChosenCandidate() *Candidate {
	if len(m.Candidates) == 0 {
		return nil
	}
	if m.Chosen < 0 || m.Chosen >= len(m.Candidates) {
		return &m.Candidates[0]
	}
	return &m.Candidates[m.Chosen]
}

// CID returns the conversation ID from metadata
func (m *ModelOutput) CID() string {
	if len(m.Metadata) > 0 {
		return m.Metadata[0]
	}
	return ""
}

// RID returns the reply ID from metadata
func (m *ModelOutput) RID() string {
	if len(m.Metadata) > 1 {
		return m.Metadata[1]
	}
	return ""
}

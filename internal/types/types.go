package types

import (
	"time"
)

// Disclaimer is appended to every formatted response regardless of which
// provider or parsing mode produced it.
const Disclaimer = "This information is AI-generated and should not replace professional medical consultation."

// SectionType determines how a response section is presented.
type SectionType string

const (
	SectionInfo    SectionType = "info"
	SectionWarning SectionType = "warning"
	SectionSuccess SectionType = "success"
	SectionList    SectionType = "list"
)

// ParseSectionType maps a free-form type string onto a known SectionType,
// defaulting to info for anything unrecognized.
func ParseSectionType(s string) SectionType {
	switch SectionType(s) {
	case SectionWarning, SectionSuccess, SectionList:
		return SectionType(s)
	default:
		return SectionInfo
	}
}

// Section is one titled block of a formatted response.
type Section struct {
	Heading string      `json:"heading"`
	Content string      `json:"content"`
	Type    SectionType `json:"type"`
	Items   []string    `json:"items"`
}

// FormattedResponse is the canonical structure every AI answer is normalized
// into before display or persistence. Sections is never empty and Disclaimer
// is always set after formatting.
type FormattedResponse struct {
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Sections   []Section `json:"sections"`
	Disclaimer string    `json:"disclaimer"`
	Sources    []string  `json:"sources,omitempty"`
}

// ChatCategory identifies which feature produced a chat record.
type ChatCategory string

const (
	CategoryConsultation  ChatCategory = "consultation"
	CategoryImageAnalysis ChatCategory = "image_analysis"
	CategoryWellness      ChatCategory = "wellness"
	CategoryEmergency     ChatCategory = "emergency"
)

// ValidCategory reports whether s names a known chat category.
func ValidCategory(s string) bool {
	switch ChatCategory(s) {
	case CategoryConsultation, CategoryImageAnalysis, CategoryWellness, CategoryEmergency:
		return true
	}
	return false
}

// ChatMetadata carries request context stored alongside a chat record.
type ChatMetadata struct {
	ClientInfo string `json:"client_info"`
	SourceURL  string `json:"source_url"`
}

// ChatRecord is one persisted interaction. Records are append-only: they are
// never updated or deleted, only saved and listed newest-first. The local and
// cloud copies of the same interaction may carry different IDs.
type ChatRecord struct {
	ID        string            `json:"id"`
	Category  ChatCategory      `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Query     string            `json:"query"`
	Response  FormattedResponse `json:"response"`
	Metadata  ChatMetadata      `json:"metadata"`
}

// UserSession is the identity facade's view of the signed-in (or guest) user.
type UserSession struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	IsGuest     bool   `json:"is_guest"`
}

// Authenticated reports whether the session belongs to a real account whose
// history may be written to the cloud store.
func (s *UserSession) Authenticated() bool {
	return s != nil && !s.IsGuest && s.ID != ""
}

// WellnessInput is the structured input for wellness-plan generation.
type WellnessInput struct {
	Conditions []string `json:"conditions"`
	Symptoms   string   `json:"symptoms"`
	Lifestyle  string   `json:"lifestyle"`
	Goals      string   `json:"goals"`
}

package domain

// Outcome is the closed set of ways a call can resolve.
type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomeMeetingSet    Outcome = "meeting_set"
	OutcomeFollowUp      Outcome = "follow_up"
	OutcomeSendInfo      Outcome = "send_info"
	OutcomeNotInterested Outcome = "not_interested"
)

// Valid reports whether the outcome is one of the known values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeNone, OutcomeMeetingSet, OutcomeFollowUp, OutcomeSendInfo, OutcomeNotInterested:
		return true
	}
	return false
}

// CallMetadata is the per-call attribute sheet shown in the side panel.
//
// It mixes two ownership models: ProspectName, Organization, PainPoints,
// Objections and Automation are operator-entered and survive replay; EHR, DMS
// and Competitors are derived and rebuilt from scratch after every path
// mutation. Manual edits to the derived fields do not survive the next
// navigation.
type CallMetadata struct {
	ProspectName string `json:"prospect_name,omitempty"`
	Organization string `json:"organization,omitempty"`

	// Derived from path replay.
	EHR         string   `json:"ehr,omitempty"`
	DMS         string   `json:"dms,omitempty"`
	Competitors []string `json:"competitors,omitempty"`

	PainPoints []string `json:"pain_points,omitempty"`
	Objections []string `json:"objections,omitempty"`
	Automation string   `json:"automation,omitempty"`
}

// Clone returns a deep copy.
func (m CallMetadata) Clone() CallMetadata {
	out := m
	out.Competitors = append([]string(nil), m.Competitors...)
	out.PainPoints = append([]string(nil), m.PainPoints...)
	out.Objections = append([]string(nil), m.Objections...)
	return out
}

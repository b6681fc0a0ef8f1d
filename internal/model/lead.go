// internal/model/lead.go
package model

type LeadStatus string

const (
	LeadStatusNew    LeadStatus = "NEW"
	LeadStatusCalled LeadStatus = "CALLED"
)

type Intent string

const (
	IntentLow    Intent = "LOW"
	IntentMedium Intent = "MEDIUM"
	IntentHigh   Intent = "HIGH"
)

// Next actions assigned by the simulator. Operators may log free text too.
const (
	NextActionTransfer = "TRANSFER_TO_AGENT"
	NextActionFollowUp = "FOLLOW_UP"
	NextActionNone     = "NONE"
)

type Lead struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Phone      string     `db:"phone" json:"phone"`
	Email      string     `db:"email" json:"email"`
	Status     LeadStatus `db:"status" json:"status"`
	Intent     Intent     `db:"intent" json:"intent"`
	Notes      string     `db:"notes" json:"notes,omitempty"`
	NextAction string     `db:"next_action" json:"next_action,omitempty"`
	DND        bool       `db:"dnd" json:"dnd"`
}

// DisplayName is what the dialer logs for a lead.
func (l *Lead) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Phone
}

func (s LeadStatus) Valid() bool {
	return s == LeadStatusNew || s == LeadStatusCalled
}

func (i Intent) Valid() bool {
	switch i {
	case IntentLow, IntentMedium, IntentHigh:
		return true
	}
	return false
}

// IntentTotals is the dashboard breakdown of leads by intent.
type IntentTotals struct {
	Total int `json:"total"`
	Hot   int `json:"hot"`
	Warm  int `json:"warm"`
	Cold  int `json:"cold"`
}

// Add counts one lead with the given intent.
func (t *IntentTotals) Add(i Intent) {
	t.Total++
	switch i {
	case IntentHigh:
		t.Hot++
	case IntentMedium:
		t.Warm++
	case IntentLow:
		t.Cold++
	}
}

package domain

type DecisionReason string

const (
	ReasonExempt           DecisionReason = "exempt"
	ReasonAdmitted         DecisionReason = "admitted"
	ReasonCategoryConflict DecisionReason = "category_conflict"
	ReasonSpacingConflict  DecisionReason = "spacing_conflict"
	ReasonHardCap          DecisionReason = "hard_cap"
	ReasonSoftCap          DecisionReason = "soft_cap"

	// ReasonUnthrottled admits repeating notifications, which the throttle
	// never sees.
	ReasonUnthrottled DecisionReason = "unthrottled"
)

func (r DecisionReason) String() string {
	return string(r)
}

// Decision is the outcome of evaluating one candidate.
type Decision struct {
	Allow     bool           `json:"allow"`
	RemoveIDs []string       `json:"remove_ids"`
	Reason    DecisionReason `json:"reason"`
}

func Admit(reason DecisionReason, removeIDs []string) Decision {
	if removeIDs == nil {
		removeIDs = []string{}
	}
	return Decision{Allow: true, RemoveIDs: removeIDs, Reason: reason}
}

func Reject(reason DecisionReason) Decision {
	return Decision{Allow: false, RemoveIDs: []string{}, Reason: reason}
}

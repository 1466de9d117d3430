package domain

// ActionStep is a single step of a recommended action plan.
type ActionStep struct {
	Step            string   `json:"step"`
	TimeEstimate    string   `json:"time_estimate"`
	Priority        string   `json:"priority"` // high | medium | low
	Resources       []string `json:"resources"`
	ExpectedOutcome string   `json:"expected_outcome"`
}

// Recommendations is the structured action plan for a topic. The JSON tags
// double as the wire shape the completion model is prompted to produce.
type Recommendations struct {
	ResourcesNeeded    []string     `json:"resources_needed"`
	Stakeholders       []string     `json:"stakeholders"`
	ActionPlan         []ActionStep `json:"action_plan"`
	QuickActions       []string     `json:"quick_actions"`
	BudgetImplications string       `json:"budget_implications"`
	Timeline           string       `json:"timeline"`

	Outcome Outcome `json:"-"`
}

// ResourceCategory groups resources available for one tag category.
type ResourceCategory struct {
	Category     string   `json:"category"`
	Resources    []string `json:"resources"`
	Availability string   `json:"availability"`
}

// Contact is a recommended point of contact for a resource category.
type Contact struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Email     string `json:"email"`
}

// BudgetStatus is the three-tier budget heuristic output.
type BudgetStatus struct {
	EstimatedBudget  string   `json:"estimated_budget"`
	FundingSources   []string `json:"funding_sources"`
	ApprovalRequired string   `json:"approval_required"`
}

// ResourceMap is the static resource lookup resolved for a topic's tags.
type ResourceMap struct {
	AvailableResources  []ResourceCategory `json:"available_resources"`
	RecommendedContacts []Contact          `json:"recommended_contacts"`
	BudgetStatus        BudgetStatus       `json:"budget_status"`
}

// PastIssue is a resolved topic surfaced as historical precedent.
type PastIssue struct {
	Title      string `json:"title"`
	When       string `json:"when"`
	Resolution string `json:"resolution"`
	Outcome    string `json:"outcome"`
}

// TimelinePast holds historical precedent for the decision timeline.
type TimelinePast struct {
	SimilarIssues  []PastIssue `json:"similar_issues"`
	LessonsLearned []string    `json:"lessons_learned"`
}

// StrategicOption is one present-tense course of action.
type StrategicOption struct {
	Option    string   `json:"option"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
	Time      string   `json:"time"`
	Resources []string `json:"resources"`
}

// TimelinePresent holds the current strategic options.
type TimelinePresent struct {
	Options        []StrategicOption `json:"options"`
	Recommendation string            `json:"ai_recommendation"`
}

// Prediction is a scenario/outcome pair for the future section.
type Prediction struct {
	Scenario string `json:"scenario"`
	Outcome  string `json:"outcome"`
}

// TimelineFuture holds projected scenarios and success metrics.
type TimelineFuture struct {
	Predictions    []Prediction `json:"predictions"`
	SuccessMetrics []string     `json:"success_metrics"`
}

// Timeline is the past/present/future decision narrative.
type Timeline struct {
	Past    TimelinePast    `json:"past"`
	Present TimelinePresent `json:"present"`
	Future  TimelineFuture  `json:"future"`
}

// StakeholderGroup describes one affected constituency.
type StakeholderGroup struct {
	Count          int      `json:"count"`
	Sentiment      string   `json:"sentiment"`
	KeyConcerns    []string `json:"key_concerns"`
	Representation string   `json:"representation"`
	Contact        string   `json:"contact"`
	Priority       string   `json:"priority"`
}

// Bundle is the composite moderator-facing decision-support aggregate.
// Regenerated on each request; it has no independent identity.
type Bundle struct {
	Recommendations Recommendations             `json:"recommendations"`
	Resources       ResourceMap                 `json:"resources"`
	Timeline        Timeline                    `json:"timeline"`
	Stakeholders    map[string]StakeholderGroup `json:"stakeholders"`
}

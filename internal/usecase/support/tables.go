package support

import "github.com/civicpulse/insight/internal/domain"

// resourceTable maps a topic tag to the resource category it resolves to.
// Unmatched tags fall back to the general category.
var resourceTable = map[string]domain.ResourceCategory{
	"facilities": {
		Category:     "facilities",
		Resources:    []string{"Maintenance team", "Repair budget", "External contractors"},
		Availability: "On request, 48h lead time",
	},
	"food": {
		Category:     "food",
		Resources:    []string{"Cafeteria committee", "Vendor contracts", "Health inspection reports"},
		Availability: "Committee meets weekly",
	},
	"it": {
		Category:     "it",
		Resources:    []string{"IT helpdesk", "Network operations", "Spare equipment pool"},
		Availability: "Helpdesk staffed 8am-8pm",
	},
	"academic": {
		Category:     "academic",
		Resources:    []string{"Academic office", "Curriculum committee", "Student advisors"},
		Availability: "Office hours, term time",
	},
	"transport": {
		Category:     "transport",
		Resources:    []string{"Transport coordinator", "Shuttle fleet", "Route planning tools"},
		Availability: "Coordinator on call",
	},
	"hr": {
		Category:     "hr",
		Resources:    []string{"HR office", "Grievance procedure", "Mediation service"},
		Availability: "By appointment",
	},
}

// tagAliases folds common tag spellings into resource categories.
var tagAliases = map[string]string{
	"wifi":           "it",
	"internet":       "it",
	"network":        "it",
	"infrastructure": "facilities",
	"maintenance":    "facilities",
	"hostel":         "facilities",
	"cafeteria":      "food",
	"mess":           "food",
	"canteen":        "food",
	"bus":            "transport",
	"parking":        "transport",
	"exam":           "academic",
	"course":         "academic",
	"library":        "academic",
	"staff":          "hr",
	"harassment":     "hr",
}

var generalResources = domain.ResourceCategory{
	Category:     "general",
	Resources:    []string{"Community office", "Moderation team", "General fund"},
	Availability: "Business hours",
}

// contactTable lists the recommended contact per resource category.
var contactTable = map[string]domain.Contact{
	"facilities": {Name: "Facilities Desk", Extension: "2101", Email: "facilities@college.edu"},
	"food":       {Name: "Cafeteria Manager", Extension: "2205", Email: "cafeteria@college.edu"},
	"it":         {Name: "IT Helpdesk", Extension: "2400", Email: "helpdesk@college.edu"},
	"academic":   {Name: "Academic Office", Extension: "2010", Email: "academics@college.edu"},
	"transport":  {Name: "Transport Coordinator", Extension: "2302", Email: "transport@college.edu"},
	"hr":         {Name: "HR Office", Extension: "2500", Email: "hr@college.edu"},
	"general":    {Name: "Community Office", Extension: "2000", Email: "community@college.edu"},
}

// Budget tier thresholds over activity (positive+negative reactions) and
// severity (|sentimentScore|/10).
const (
	budgetHighActivity   = 20
	budgetHighSeverity   = 0.7
	budgetMediumActivity = 10
	budgetMediumSeverity = 0.3
)

var budgetTiers = map[string]domain.BudgetStatus{
	"high": {
		EstimatedBudget:  "$5,000 - $20,000",
		FundingSources:   []string{"Emergency fund", "Department budget", "Administration reserve"},
		ApprovalRequired: "Administration sign-off",
	},
	"medium": {
		EstimatedBudget:  "$1,000 - $5,000",
		FundingSources:   []string{"Department budget", "Community fund"},
		ApprovalRequired: "Department head",
	},
	"low": {
		EstimatedBudget:  "Under $1,000",
		FundingSources:   []string{"Community fund"},
		ApprovalRequired: "Moderator discretion",
	},
}

// stakeholderGroups is the static constituency table shown alongside every
// decision-support bundle.
var stakeholderGroups = map[string]domain.StakeholderGroup{
	"students": {
		Count:          1500,
		Sentiment:      "mixed",
		KeyConcerns:    []string{"quality", "availability", "cost"},
		Representation: "Student Council",
		Contact:        "scouncil@college.edu",
		Priority:       "high",
	},
	"faculty": {
		Count:          120,
		Sentiment:      "neutral",
		KeyConcerns:    []string{"standards", "consistency", "implementation"},
		Representation: "Faculty Association",
		Contact:        "faculty@college.edu",
		Priority:       "medium",
	},
	"staff": {
		Count:          80,
		Sentiment:      "concerned",
		KeyConcerns:    []string{"implementation", "workload", "resources"},
		Representation: "Staff Union",
		Contact:        "staffunion@college.edu",
		Priority:       "medium",
	},
	"administration": {
		Count:          25,
		Sentiment:      "monitoring",
		KeyConcerns:    []string{"budget", "compliance", "reputation"},
		Representation: "College Administration",
		Contact:        "admin@college.edu",
		Priority:       "high",
	},
}

var lessonsLearned = []string{
	"Quick response prevents escalation to formal complaints",
	"Involving stakeholders from the beginning improves buy-in",
	"Transparent communication reduces rumors and misinformation",
}

var strategicOptions = []domain.StrategicOption{
	{
		Option: "Immediate Action",
		Pros: []string{
			"Quick resolution shows responsiveness",
			"Prevents issue from worsening",
			"Builds trust with affected parties",
		},
		Cons: []string{
			"May not address root cause fully",
			"Limited stakeholder consultation",
			"Potential for rushed decisions",
		},
		Time:      "1-2 days",
		Resources: []string{"On-call staff", "Emergency budget", "Quick response team"},
	},
	{
		Option: "Committee Approach",
		Pros: []string{
			"Thorough analysis of root causes",
			"Stakeholder buy-in through participation",
			"Sustainable long-term solution",
		},
		Cons: []string{
			"Slower initial response",
			"More resource intensive",
			"Requires coordination between departments",
		},
		Time:      "1-2 weeks",
		Resources: []string{"Committee members", "Meeting coordination", "Research time"},
	},
}

const strategicRecommendation = "Start with immediate stabilization actions while forming a committee for comprehensive solution"

var futurePredictions = []domain.Prediction{
	{
		Scenario: "If resolved within 48 hours",
		Outcome:  "High satisfaction (85%+), positive community feedback, improved trust",
	},
	{
		Scenario: "If delayed beyond 1 week",
		Outcome:  "Moderate dissatisfaction (60%), potential formal complaints, trust erosion",
	},
	{
		Scenario: "If addressed with stakeholder involvement",
		Outcome:  "Sustainable solution, improved processes, potential for positive case study",
	},
}

var successMetrics = []string{
	"Reduction in similar complaints by 80%",
	"Sentiment score improvement to +8",
	"Resolution time under 72 hours",
	"Stakeholder satisfaction above 90%",
}

// defaultPlan is the fallback when the completion provider cannot produce
// a parseable action plan.
func defaultPlan() domain.Recommendations {
	return domain.Recommendations{
		ResourcesNeeded: []string{"Moderation team", "Community office"},
		Stakeholders:    []string{"students", "administration"},
		ActionPlan: []domain.ActionStep{
			{
				Step:            "Review the topic and recent posts manually",
				TimeEstimate:    "1 day",
				Priority:        "high",
				Resources:       []string{"Moderation team"},
				ExpectedOutcome: "Clear picture of the issue and affected parties",
			},
			{
				Step:            "Contact the responsible department with a summary",
				TimeEstimate:    "2 days",
				Priority:        "medium",
				Resources:       []string{"Community office"},
				ExpectedOutcome: "Department acknowledges and owns the issue",
			},
			{
				Step:            "Post a status update to the community",
				TimeEstimate:    "3 days",
				Priority:        "medium",
				Resources:       []string{"Moderation team"},
				ExpectedOutcome: "Community informed, speculation reduced",
			},
		},
		QuickActions:       []string{"Acknowledge the topic publicly", "Pin a status reply"},
		BudgetImplications: "To be assessed after manual review",
		Timeline:           "Initial response within 72 hours",
		Outcome:            domain.OutcomeFallback,
	}
}

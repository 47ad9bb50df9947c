package buildiaqreport

import (
	"time"

	"iaq-workers/internal/iaq"
)

// Input carries the evaluate-iaq-risk output as flat process variables.
type Input struct {
	AssessmentID  string             `json:"assessmentId"`
	RoomLabel     string             `json:"roomLabel"`
	SurveyAnswers *iaq.SurveyAnswers `json:"surveyAnswers,omitempty"`
	iaq.AssessmentResult
}

type Output struct {
	Report        Report `json:"report"`
	ReportSummary string `json:"reportSummary"`
}

type Report struct {
	ReportID        string           `json:"reportId"`
	AssessmentID    string           `json:"assessmentId"`
	Title           string           `json:"title"`
	RoomLabel       string           `json:"roomLabel"`
	Profile         string           `json:"profile"`
	TotalScore      int              `json:"totalScore"`
	MaxScore        int              `json:"maxScore"`
	RiskTier        iaq.RiskTier     `json:"riskTier"`
	Alert           Alert            `json:"alert"`
	Breakdown       []BreakdownEntry `json:"breakdown"`
	Recommendations []Recommendation `json:"recommendations"`
	Disclaimer      string           `json:"disclaimer"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// Alert is the banner shown above the report.
type Alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// BreakdownEntry is one axis of the factor radar chart.
type BreakdownEntry struct {
	Factor    iaq.Factor `json:"factor"`
	Points    int        `json:"points"`
	MaxPoints int        `json:"maxPoints"`
}

type Recommendation struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

const (
	AlertSuccess = "success"
	AlertWarning = "warning"
	AlertError   = "error"
)

const Disclaimer = "Developed as a demonstration IAQ tool. Not a substitute for professional indoor air assessments."

var alerts = map[iaq.RiskTier]Alert{
	iaq.TierLow:      {Level: AlertSuccess, Message: "Low IAQ Risk: No urgent concerns."},
	iaq.TierModerate: {Level: AlertWarning, Message: "Moderate IAQ Risk: Improvement needed."},
	iaq.TierHigh:     {Level: AlertError, Message: "High IAQ Risk: Immediate intervention recommended."},
}

var roomLabels = map[iaq.Room]string{
	iaq.RoomBedroom:    "Bedroom",
	iaq.RoomLivingRoom: "Living room",
	iaq.RoomKitchen:    "Kitchen",
	iaq.RoomBathroom:   "Bathroom",
	iaq.RoomOther:      "Other room",
}

package models

// ScamAnalysis is the scanner's verdict for a submitted message or screenshot text.
type ScamAnalysis struct {
	Risk        RiskLevel `json:"risk"`
	Explanation string    `json:"explanation"`
	Advice      string    `json:"advice"`
}

// SafetyTip is one daily, personalized safety recommendation.
type SafetyTip struct {
	Tip      string `json:"tip"`
	Category string `json:"category"`
}

package models

// QuestTrack categorizes a quest by the perspective it is written for.
type QuestTrack string

const (
	TrackSurvivor QuestTrack = "survivor"
	TrackAlly     QuestTrack = "ally"
)

// ChoiceType tags a choice for analytics. It never affects branching.
type ChoiceType string

const (
	ChoiceConstructive ChoiceType = "constructive"
	ChoiceRisky        ChoiceType = "risky"
	ChoiceAvoidance    ChoiceType = "avoidance"
	ChoiceSupportive   ChoiceType = "supportive"
	ChoiceProactive    ChoiceType = "proactive"
)

// Choice is a labeled edge from one scene to another.
type Choice struct {
	Text string     `json:"text"`
	Next string     `json:"next"`
	Type ChoiceType `json:"type,omitempty"`
}

// LessonCard is the structured educational content attached to a lesson scene.
type LessonCard struct {
	Title   string   `json:"title"`
	What    string   `json:"what"`
	Prevent []string `json:"prevent"`
	Fix     []string `json:"fix"`
}

// Scene is one narrative node within a quest's graph.
// A scene either branches (Choices), auto-advances (Next) or terminates (IsEnd).
type Scene struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	Choices    []Choice    `json:"choices,omitempty"`
	Feedback   string      `json:"feedback,omitempty"`
	Next       string      `json:"next,omitempty"`
	IsLesson   bool        `json:"isLesson,omitempty"`
	LessonCard *LessonCard `json:"lessonCard,omitempty"`
	IsEnd      bool        `json:"isEnd,omitempty"`
}

// Quest is an authored, self-contained branching narrative with a fixed
// entry point, XP reward and badge. Quests are immutable after load.
type Quest struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Track        QuestTrack       `json:"track"`
	Country      string           `json:"country"`
	Description  string           `json:"description"`
	IntroSceneID string           `json:"intro_scene"`
	Scenes       map[string]Scene `json:"scenes"`
	XP           int              `json:"xp"`
	Badge        string           `json:"badge"`
}

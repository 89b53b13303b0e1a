package interview

import "time"

// Sentiment is the star-rating classification attached to a single response.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Response is one answered question inside a session. Records are immutable
// once appended; the slice order is the insertion order.
type Response struct {
	QuestionID        string    `json:"question_id"`
	QuestionText      string    `json:"question_text"`
	ResponseText      string    `json:"response_text"`
	Sentiment         Sentiment `json:"sentiment"`
	ImmediateFeedback string    `json:"immediate_feedback"`
	Timestamp         time.Time `json:"timestamp"`
}

// Session is a full practice transcript, persisted as one JSON document.
type Session struct {
	SessionID string     `json:"session_id"`
	StartTime time.Time  `json:"start_time"`
	Responses []Response `json:"responses"`
}

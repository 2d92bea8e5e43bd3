package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound events
const (
	EventFindMatch       = "find_match"
	EventCancelFindMatch = "cancel_find_match"
	EventMatchLog        = "match_log"
	EventMatchCPM        = "match_cpm"
)

// Outbound events
const (
	EventConnected          = "connected"
	EventFoundMatch         = "found_match"
	EventMatchCountdown     = "match_countdown"
	EventMatchStart         = "match_start"
	EventMatchRemainingTime = "match_remaining_time"
	EventMatchResult        = "match_result"
	EventMatchCancelled     = "match_cancelled"
	EventOpponentCPM        = "opponent_cpm"
)

const ReasonOpponentDisconnected = "opponent_disconnected"

type MatchLogData struct {
	RoomID string      `json:"roomId"`
	Log    []TypingLog `json:"log"`
}

type MatchCPMData struct {
	RoomID string  `json:"roomId"`
	CPM    float64 `json:"cpm"`
}

type ConnectedData struct {
	ID string `json:"id"`
}

type AckData struct {
	Message string `json:"message"`
}

type FoundMatchData struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type CountdownData struct {
	Countdown int `json:"countdown"`
}

type RemainingTimeData struct {
	MatchPlayTime int `json:"matchPlayTime"`
	RemainingTime int `json:"remainingTime"`
}

type CancelledData struct {
	Reason string `json:"reason"`
}

type OpponentCPMData struct {
	CPM float64 `json:"cpm"`
}

// PlayerSnapshot is the point-in-time view of one participant.
type PlayerSnapshot struct {
	SocketID             string `json:"socketId"`
	CurrentSentenceIndex int    `json:"currentSentenceIndex"`
	Sentence             string `json:"sentence,omitempty"`
	Progress             int    `json:"progress"`
	Point                int    `json:"point"`
	Accuracy             int    `json:"accuracy"`
	IsCompleted          bool   `json:"isCompleted"`
	Finished             int64  `json:"finished"`
}

// MatchView is always addressed to Player; Opponent is the other participant.
type MatchView struct {
	Player   PlayerSnapshot `json:"player"`
	Opponent PlayerSnapshot `json:"opponent"`
}

type MatchStartData struct {
	Player         PlayerSnapshot `json:"player"`
	Opponent       PlayerSnapshot `json:"opponent"`
	MatchStartTime int64          `json:"matchStartTime"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}

type MatchStats struct {
	ActiveRooms int  `json:"active_rooms"`
	Waiting     bool `json:"waiting"`
}

package jenkins

// Executor is one build-execution slot on a node.
type Executor struct {
	Idle bool `json:"idle"`
}

// Computer is one agent/slave node as reported by /computer/api/json.
type Computer struct {
	DisplayName        string     `json:"displayName"`
	Offline            bool       `json:"offline"`
	TemporarilyOffline bool       `json:"temporarilyOffline"`
	OfflineCauseReason string     `json:"offlineCauseReason"`
	Executors          []Executor `json:"executors"`
}

type computerSet struct {
	Computer []Computer `json:"computer"`
}

// QueueItem is one entry in the build queue.
type QueueItem struct {
	ID           int64  `json:"id"`
	InQueueSince int64  `json:"inQueueSince"` // epoch milliseconds
	Stuck        bool   `json:"stuck"`
	Why          string `json:"why"`
}

type queue struct {
	Items []QueueItem `json:"items"`
}

// Job is one job summary from the server root API. Color encodes the last
// build outcome ("blue" success, "red" failing, "yellow" unstable, with an
// "_anime" suffix while building).
type Job struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type jobList struct {
	Jobs []Job `json:"jobs"`
}

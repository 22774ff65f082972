package model

type GenerateQuestsRequest struct{}

type GenerateQuestsResponse struct {
	Success    bool     `json:"success"`
	Processed  int      `json:"processed"`
	Created    int      `json:"created"`
	Errors     []string `json:"errors"`
	DurationMs int64    `json:"duration_ms"`
}

type ExpireQuestsRequest struct{}

type ExpireQuestsResponse struct {
	Success    bool     `json:"success"`
	Processed  int      `json:"processed"`
	Expired    int      `json:"expired"`
	Errors     []string `json:"errors"`
	DurationMs int64    `json:"duration_ms"`
}

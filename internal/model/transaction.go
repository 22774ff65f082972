package model

type Transaction struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	FamilyID    string `json:"family_id,omitempty"`
	Type        string `json:"type,omitempty"`
	GoldDelta   int64  `json:"gold_delta"`
	XPDelta     int64  `json:"xp_delta"`
	GemsDelta   int64  `json:"gems_delta"`
	HonorDelta  int64  `json:"honor_delta"`
	Description string `json:"description,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type GetMyTransactionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

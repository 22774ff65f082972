package model

type User struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	FamilyID string `json:"family_id,omitempty"`
}

type Family struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	JoinCode string `json:"join_code,omitempty"`
}

type CreateFamilyRequest struct {
	Name string `json:"name"`
}

type CreateFamilyResponse struct {
	ID       string `json:"id"`
	JoinCode string `json:"join_code"`
}

type JoinFamilyRequest struct {
	JoinCode string `json:"join_code"`
}

type JoinFamilyResponse struct{}

type GetMyFamilyRequest struct{}

type GetMyFamilyResponse struct {
	Family  Family `json:"family"`
	Members []User `json:"members"`
}

type PromoteUserRequest struct {
	UserID string `json:"user_id"`
}

type PromoteUserResponse struct{}

type DemoteUserRequest struct {
	UserID string `json:"user_id"`
}

type DemoteUserResponse struct{}

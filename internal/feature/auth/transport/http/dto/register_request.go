package dto

// RegisterReq represents the request body for the /register endpoint.
// Only presence is validated.
type RegisterReq struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRes is returned on successful registration.
type RegisterRes struct {
	Msg string `json:"msg"`
}

package dto

// ProfileRes echoes the verified claim set.
type ProfileRes struct {
	Success any    `json:"success"`
	Msg     string `json:"msg"`
}

// ErrorRes is the common error body.
type ErrorRes struct {
	Error string `json:"error"`
}

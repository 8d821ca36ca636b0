package model

type JobRequest struct {
	UserID    string `json:"userId" validate:"required,excludesall=/"`
	UserEmail string `json:"userEmail"`
}

// JobResult is returned by every job instead of an error once the input is valid
type JobResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccountID   string `json:"accountId,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func Failure(err error) *JobResult {
	return &JobResult{
		Success: false,
		Message: err.Error(),
	}
}

type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

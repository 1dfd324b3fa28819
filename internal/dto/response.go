package dto

// Envelope is the single result shape every endpoint returns. Business
// failures set IsError with the typed error's message; unexpected failures
// are logged server-side and mapped to a generic message.
type Envelope struct {
	IsError bool        `json:"isError"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Ok(status int, message string, data interface{}) Envelope {
	return Envelope{
		IsError: false,
		Status:  status,
		Message: message,
		Data:    data,
	}
}

func Err(status int, message string) Envelope {
	return Envelope{
		IsError: true,
		Status:  status,
		Message: message,
	}
}

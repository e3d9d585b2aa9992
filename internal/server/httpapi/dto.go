package httpapi

// The msg tag holds the message reported when a field fails validation.

type SignupRequest struct {
	UserName string `json:"username" binding:"required,min=3" msg:"Enter a valid username"`
	Email    string `json:"email" binding:"required,email" msg:"Enter a valid email"`
	Password string `json:"password" binding:"required,min=5,max=72" msg:"Password must be 5 to 72 characters"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" msg:"Enter a valid email"`
	Password string `json:"password" binding:"required" msg:"Password cannot be blank"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserName string `json:"username"`
}

type CreateNoteRequest struct {
	Title       string `json:"title" binding:"required,min=3" msg:"Enter a valid title"`
	Description string `json:"description" binding:"required,min=5" msg:"Description must be at least 5 characters"`
	Tag         string `json:"tag"`
}

// UpdateNoteRequest fields are optional; empty strings are ignored.
type UpdateNoteRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3" msg:"Enter a valid title"`
	Description string `json:"description" binding:"omitempty,min=5" msg:"Description must be at least 5 characters"`
	Tag         string `json:"tag"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AttachmentUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type AttachmentDownloadResponse struct {
	URL string `json:"url"`
}

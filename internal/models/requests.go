package models

type SignupRequest struct {
	Username string `json:"username" validate:"min=3,max=20,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8,hasupper,haslower,hasdigit,hasspecial"`
	About    string `json:"about" validate:"max=160"`
}

type SigninRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// PostRequest is used for both compose and edit.
type PostRequest struct {
	Content string `json:"content" validate:"required,max=280"`
}

// ProfileRequest fields are optional; nil means "leave unchanged".
type ProfileRequest struct {
	Username     *string `json:"username" validate:"omitempty,min=3,max=20,username"`
	About        *string `json:"about" validate:"omitempty,max=160"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,imageref"`
}

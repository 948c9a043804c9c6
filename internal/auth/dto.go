package auth

import (
	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/core/common/validation"
	coreuser "github.com/frahmantamala/correspondence-management/internal/core/user"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MinLength(3).MaxLength(50)
	v.Field("password", dto.Password).Required().MinLength(6)
	return v.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

func (dto RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refreshToken", dto.RefreshToken).Required()
	return v.Validate()
}

// LoginResponse carries the token pair plus the resolved identity so
// the front end reads the permission set from the server rather than
// keeping a parallel role table.
type LoginResponse struct {
	AuthTokens
	User *coreuser.User `json:"user"`
}

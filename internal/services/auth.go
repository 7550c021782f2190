package services

import (
	"errors"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/repositories"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenName = "auth_token"

var loginRules = validation.Fields(
	validation.Attr("email", validation.Required(), validation.Email()),
	validation.Attr("password", validation.Required()),
)

type AuthService interface {
	LoginUser(db *gorm.DB, input validation.Input) (*models.User, error)
	GenerateToken(db *gorm.DB, userID uuid.UUID) (string, error)
	ResolveToken(db *gorm.DB, bearer string) (*models.User, *models.Token, error)
	RevokeToken(db *gorm.DB, tokenID uuid.UUID) error
}

// AuthServiceImpl issues opaque bearer tokens backed by token rows. The
// bearer string is an HS256 JWT carrying the row id, so revoking is a row
// delete and no expiry is enforced.
type AuthServiceImpl struct {
	secret []byte
	now    func() time.Time
}

func NewAuthService(secret string) *AuthServiceImpl {
	return &AuthServiceImpl{secret: []byte(secret), now: time.Now}
}

func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, input validation.Input) (*models.User, error) {
	if err := loginRules.Validate(input); err != nil {
		return nil, err
	}

	user, err := repositories.NewUserRepository(db).FindByEmail(input.String("email"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(user.Password, input.String("password")) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthServiceImpl) GenerateToken(db *gorm.DB, userID uuid.UUID) (string, error) {
	token := models.Token{UserID: userID, Name: TokenName}
	if err := repositories.NewTokenRepository(db).Create(&token); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		ID:       token.ID.String(),
		Subject:  userID.String(),
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// ResolveToken maps a bearer string to its user and token row and records
// the use. Any mismatch yields ErrUnauthenticated.
func (s *AuthServiceImpl) ResolveToken(db *gorm.DB, bearer string) (*models.User, *models.Token, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(bearer, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	tokenID, err := uuid.FromString(claims.ID)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	tokens := repositories.NewTokenRepository(db)
	token, err := tokens.FindByID(tokenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}
	if claims.Subject != token.UserID.String() {
		return nil, nil, ErrUnauthenticated
	}

	user, err := repositories.NewUserRepository(db).FindByID(token.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := tokens.Touch(token.ID, now); err != nil {
		return nil, nil, err
	}
	token.LastUsedAt = &now

	return user, token, nil
}

func (s *AuthServiceImpl) RevokeToken(db *gorm.DB, tokenID uuid.UUID) error {
	return repositories.NewTokenRepository(db).Delete(tokenID)
}

package local

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	"moneyguard/internal/uuid"
	mgvalidator "moneyguard/internal/validator"
)

const tokenIssuer = "money-guard"

// Claims represents the claims in the JWT
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SignUp registers a user and signs them in.
func (b *Backend) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResult, error) {
	if err := b.validate.Struct(req); err != nil {
		return models.AuthResult{}, apperrors.WithMessage(apperrors.ErrInvalidSignUp, mgvalidator.Describe(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := b.db.WithContext(ctx)

	var count int64
	if err := db.Model(&UserRecord{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.AuthResult{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return models.AuthResult{}, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResult{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &UserRecord{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := db.Create(user).Error; err != nil {
		return models.AuthResult{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return b.issue(user)
}

// SignIn checks the credentials and issues a token.
func (b *Backend) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResult, error) {
	if err := b.validate.Struct(req); err != nil {
		return models.AuthResult{}, apperrors.WithMessage(apperrors.ErrInvalidCredentials, mgvalidator.Describe(err))
	}

	var user UserRecord
	err := b.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AuthResult{}, apperrors.ErrUserNotFound
		}
		return models.AuthResult{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return models.AuthResult{}, apperrors.ErrIncorrectPassword
	}

	return b.issue(&user)
}

// SignOut revokes token. Later requests with it answer 401.
func (b *Backend) SignOut(ctx context.Context, token string) error {
	claims, err := b.parse(token)
	if err != nil {
		return err
	}
	if _, err := b.currentUser(ctx, token); err != nil {
		return err
	}

	revoked := RevokedToken{TokenHash: HashToken(token), ExpiresAt: claims.ExpiresAt.Time}
	if err := b.db.WithContext(ctx).Create(&revoked).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CurrentUser returns the user token belongs to.
func (b *Backend) CurrentUser(ctx context.Context, token string) (models.User, error) {
	user, err := b.currentUser(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	return user.toModel(), nil
}

// currentUser resolves a bearer token to its user. Any problem with the
// token is reported as ErrUnauthorized.
func (b *Backend) currentUser(ctx context.Context, token string) (*UserRecord, error) {
	claims, err := b.parse(token)
	if err != nil {
		return nil, err
	}

	db := b.db.WithContext(ctx)

	var revoked int64
	if err := db.Model(&RevokedToken{}).Where("token_hash = ?", HashToken(token)).Count(&revoked).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if revoked > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "token has been revoked")
	}

	var user UserRecord
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "user no longer exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func (b *Backend) issue(user *UserRecord) (models.AuthResult, error) {
	now := b.opts.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.opts.JWTExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(b.opts.JWTSecret))
	if err != nil {
		return models.AuthResult{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return models.AuthResult{Token: signed, User: user.toModel()}, nil
}

func (b *Backend) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(b.opts.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(b.opts.Now))
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}
	return claims, nil
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

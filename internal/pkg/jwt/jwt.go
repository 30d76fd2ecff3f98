package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Role is carried in the access token's "role" claim.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var (
	ErrMissingCompanyClaim   = errors.New("company_id claim is missing or invalid")
	ErrInvalidToken          = errors.New("invalid or expired access token")
	ErrManagerAccessRequired = errors.New("manager or owner role required")
)

// IsManager reports whether the role may run payroll and attendance back-office operations.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}

// Claims is the subset of access token claims the back office relies on.
type Claims struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       Role
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(c Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     c.UserID,
		"company_id":  c.CompanyID,
		"employee_id": valueOrNil(c.EmployeeID),
		"role":        string(c.Role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the verified token claims placed by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Claims{}, ErrMissingCompanyClaim
	}

	c := Claims{CompanyID: companyID}
	c.UserID, _ = claims["user_id"].(string)
	c.EmployeeID, _ = claims["employee_id"].(string)
	if role, ok := claims["role"].(string); ok {
		c.Role = Role(role)
	}
	return c, nil
}

func valueOrNil(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

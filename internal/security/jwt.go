package security

import (
	"cloud-drive/config"
	"cloud-drive/internal/logging"
	"cloud-drive/internal/util"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// AdminSubject : subject carried by the static admin token
const AdminSubject = "admin"

var ErrUnauthorized = errors.New("unauthorized")

type Claims struct {
	UserUUID string `json:"user_uuid"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	cfg   config.JWTConfig
	clock func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{cfg: cfg, clock: time.Now}
}

// GenerateAccessToken : HS512 token for userUUID, valid for AccessTokenTTL
func (service *JWTService) GenerateAccessToken(userUUID string, isAdmin bool) (string, error) {
	if _, err := uuid.Parse(userUUID); err != nil {
		return "", fmt.Errorf("user id %q is not a uuid", userUUID)
	}

	now := service.clock()
	claims := Claims{
		UserUUID: userUUID,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID,
			ExpiresAt: jwt.NewNumericDate(now.Add(service.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    service.cfg.Issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(service.cfg.SecretKey))
	if err != nil {
		return "", util.LogError("[JWTService] sign token", err)
	}
	return token, nil
}

func (service *JWTService) ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(service.clock),
		jwt.WithExpirationRequired(),
	}
	if service.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(service.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(service.cfg.SecretKey), nil
	}, options...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if _, err := uuid.Parse(claims.UserUUID); err != nil {
		return nil, fmt.Errorf("%w: user_uuid is not a uuid", ErrUnauthorized)
	}

	return claims, nil
}

func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, next))
	}
}

func handleAuthentication(jwtService *JWTService, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		adminToken := jwtService.cfg.AdminToken
		if adminToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) == 1 {
			adminClaims := &Claims{
				UserUUID: AdminSubject,
				IsAdmin:  true,
			}
			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, adminClaims))
			next.ServeHTTP(writer, req)
			return
		}

		claims, err := jwtService.ValidateJWT(token)
		if err != nil {
			logging.Debug("[JWTMiddleware] rejected token", zap.Error(err))
			util.HandleError(writer, "invalid token", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

// RequireAdmin : must run behind JWTMiddleware
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims, err := GetClaimsFromContext(request.Context())
		if err != nil {
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin {
			util.HandleError(writer, "admin rights required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// WithClaims : attaches claims the way JWTMiddleware does
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

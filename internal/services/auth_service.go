// auth_service.go
//
// A multi-tenant project and component architecture tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of trackdb.
// trackdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// trackdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with trackdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/store"
	"github.com/localnerve/trackdb/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// Principal is the authenticated identity derived from a verified session
// token. It never carries credential material.
type Principal struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// AuthService registers users, verifies credentials and issues session
// tokens. It is the sole authentication gate; every authenticated request
// passes through VerifySession before any authorization decision.
type AuthService struct {
	Store  *store.Store
	secret []byte
	ttl    time.Duration
}

// NewAuthService creates the service. secret is the injected signing
// material (never a literal in code), ttl the fixed session lifetime.
func NewAuthService(st *store.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Store: st, secret: []byte(secret), ttl: ttl}
}

// Register persists a new user with a bcrypt password hash.
func (a *AuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	n, err := store.Count[models.User](ctx, a.Store, store.Filter{"username": username})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, types.Conflict("user %s already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		ProjectNames: models.Set[string]{},
	}
	if err := store.Insert(ctx, a.Store, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates credentials and returns the principal view.
// Lookup misses and hash mismatches are indistinguishable to the caller.
func (a *AuthService) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	user, err := store.FindOne[models.User](ctx, a.Store, store.Filter{"username": username})
	if err != nil {
		if types.IsNotFound(err) {
			return Principal{}, types.Unauthenticated("invalid username or password")
		}
		return Principal{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Principal{}, types.Unauthenticated("invalid username or password")
	}

	return Principal{UserID: user.UserID, Username: user.Username}, nil
}

// IssueSession produces a signed bearer token for the principal.
func (a *AuthService) IssueSession(principal Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    principal.Username,
		"userId": principal.UserID,
		"iat":    now.Unix(),
		"exp":    now.Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// VerifySession checks signature and expiry and returns the embedded
// principal.
func (a *AuthService) VerifySession(tokenString string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, types.Expired("session expired")
		}
		return Principal{}, types.Invalid("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, types.Invalid("invalid session claims")
	}
	username, _ := claims["sub"].(string)
	userID, _ := claims["userId"].(string)
	if username == "" || userID == "" {
		return Principal{}, types.Invalid("session token missing principal")
	}

	return Principal{UserID: userID, Username: username}, nil
}

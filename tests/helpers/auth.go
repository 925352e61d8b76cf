package helpers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// AcquireAccount performs register and login against the app to get an access token
func AcquireAccount(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	registerBody, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
		"email":    username + "@example.com",
	})
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute register request: %v", err)
	}
	if resp.StatusCode != 201 && resp.StatusCode != 409 {
		// 409 means the user already exists, which is fine for login
		t.Fatalf("Register failed with status %d", resp.StatusCode)
	}

	loginBody, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute login request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Login failed with status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	ParseJSON(t, resp, &result)
	if result.AccessToken == "" {
		t.Fatal("Access token is empty")
	}

	return result.AccessToken
}

package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HYG-0822/myauth/internal/dto"
)

func (s *Suite) postJSON(path string, body interface{}) *http.Response {
	s.T().Helper()

	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(raw))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) signup(email, name, password string) {
	s.T().Helper()

	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:    email,
		Name:     name,
		Password: password,
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "signup should succeed")
}

func (s *Suite) login(email, password string) dto.LoginResponse {
	s.T().Helper()

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, "login should succeed")

	var loginResp dto.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	return loginResp
}

func (s *Suite) TestSignup_Success() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:    "alice@example.com",
		Name:     "alice",
		Password: "secret123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))

	s.True(envelope.Success)
	s.Equal("signup successful", envelope.Message)

	data := envelope.Data.(map[string]interface{})
	s.Equal("alice@example.com", data["email"])
	s.Equal("alice", data["name"])
	s.Equal("USER", data["role"])
	s.NotZero(data["id"])
}

func (s *Suite) TestSignup_DuplicateEmail() {
	s.signup("duplicate@example.com", "first", "secret123")

	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:    "Duplicate@Example.com",
		Name:     "second",
		Password: "secret456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.False(envelope.Success)
	s.Equal("email already registered", envelope.Message)
}

func (s *Suite) TestSignup_DuplicateName() {
	s.signup("first@example.com", "taken", "secret123")

	// A fresh email with a taken display name must not report the email
	// message.
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:    "second@example.com",
		Name:     "taken",
		Password: "secret456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.False(envelope.Success)
	s.Equal("display name already taken", envelope.Message)
}

func (s *Suite) TestSignup_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/signup", map[string]string{
		"email":    "not-an-email",
		"name":     "alice",
		"password": "secret123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestSignup_WeakPassword() {
	resp := s.postJSON("/api/v1/auth/signup", map[string]string{
		"email":    "alice@example.com",
		"name":     "alice",
		"password": "onlyletters",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.signup("alice@example.com", "alice", "secret123")

	loginResp := s.login("alice@example.com", "secret123")

	s.True(loginResp.Success)
	s.Equal("login successful", loginResp.Message)
	s.NotEmpty(loginResp.AccessToken)
	s.NotEmpty(loginResp.RefreshToken)
	s.Require().NotNil(loginResp.User)
	s.Equal("alice@example.com", loginResp.User.Email)
}

func (s *Suite) TestLogin_UnknownAndWrongPasswordIndistinguishable() {
	s.signup("alice@example.com", "alice", "secret123")

	unknown := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	defer unknown.Body.Close()
	s.Equal(http.StatusBadRequest, unknown.StatusCode)

	var unknownResp dto.LoginResponse
	s.Require().NoError(json.NewDecoder(unknown.Body).Decode(&unknownResp))

	wrong := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-pass1",
	})
	defer wrong.Body.Close()
	s.Equal(http.StatusBadRequest, wrong.StatusCode)

	var wrongResp dto.LoginResponse
	s.Require().NoError(json.NewDecoder(wrong.Body).Decode(&wrongResp))

	s.False(unknownResp.Success)
	s.False(wrongResp.Success)
	s.Equal(unknownResp.Message, wrongResp.Message)
	s.Empty(wrongResp.AccessToken)
}

func (s *Suite) TestLogin_SuspendedAccount() {
	s.signup("suspended@example.com", "suspended", "secret123")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET status = 'SUSPENDED' WHERE email = $1`, "suspended@example.com")
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "suspended@example.com",
		Password: "secret123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var loginResp dto.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	s.False(loginResp.Success)
	s.Equal("account is suspended, contact support", loginResp.Message)
}

func (s *Suite) TestIdentity_SuspendedAccountKeepsAccessToken() {
	s.signup("paused@example.com", "paused", "secret123")
	loginResp := s.login("paused@example.com", "secret123")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET status = 'SUSPENDED' WHERE email = $1`, "paused@example.com")
	s.Require().NoError(err)

	// Status gates bar logins, not tokens already issued.
	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestIdentity_DeactivatedAccountIsAnonymous() {
	s.signup("gone@example.com", "gone", "secret123")
	loginResp := s.login("gone@example.com", "secret123")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET is_active = FALSE WHERE email = $1`, "gone@example.com")
	s.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogin_RecordsLoginStats() {
	s.signup("stats@example.com", "stats", "secret123")
	s.login("stats@example.com", "secret123")

	var lastLoginAt *string
	err := s.Postgres.DB.QueryRow(
		`SELECT last_login_at FROM users WHERE email = $1`, "stats@example.com",
	).Scan(&lastLoginAt)
	s.Require().NoError(err)
	s.NotNil(lastLoginAt)
}

func (s *Suite) TestRefresh_Success() {
	s.signup("refresh@example.com", "refresher", "secret123")
	loginResp := s.login("refresh@example.com", "secret123")

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.True(envelope.Success)

	data := envelope.Data.(map[string]interface{})
	s.NotEmpty(data["accessToken"])
	s.NotEmpty(data["refreshToken"])
	s.NotEqual(loginResp.RefreshToken, data["refreshToken"])
}

func (s *Suite) TestRefresh_OldTokenSingleUse() {
	s.signup("rotate@example.com", "rotator", "secret123")
	loginResp := s.login("rotate@example.com", "secret123")

	first := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	first.Body.Close()
	s.Require().Equal(http.StatusOK, first.StatusCode)

	// the consumed token must not work a second time
	second := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	defer second.Body.Close()
	s.Equal(http.StatusUnauthorized, second.StatusCode)
}

func (s *Suite) TestRefresh_SuspendedAccountRevokesSessions() {
	s.signup("barred@example.com", "barred", "secret123")
	loginResp := s.login("barred@example.com", "secret123")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET status = 'SUSPENDED' WHERE email = $1`, "barred@example.com")
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Equal("account is suspended, contact support", envelope.Message)

	// every live session of the barred account is cut
	var live int
	s.Require().NoError(s.Postgres.DB.QueryRow(`
		SELECT COUNT(*) FROM refresh_tokens rt
		JOIN users u ON u.id = rt.user_id
		WHERE u.email = $1 AND rt.revoked = FALSE`, "barred@example.com").Scan(&live))
	s.Zero(live)
}

func (s *Suite) TestRefresh_GarbageToken() {
	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: "not-a-token",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.False(envelope.Success)
	s.Equal("invalid refresh token", envelope.Message)
}

func (s *Suite) TestRefresh_AccessTokenRejected() {
	s.signup("mixed@example.com", "mixer", "secret123")
	loginResp := s.login("mixed@example.com", "secret123")

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: loginResp.AccessToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_Success() {
	s.signup("logout@example.com", "leaver", "secret123")
	loginResp := s.login("logout@example.com", "secret123")

	raw, _ := json.Marshal(dto.RefreshRequest{RefreshToken: loginResp.RefreshToken})
	req, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/logout", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	// the revoked refresh token is dead
	refresh := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	defer refresh.Body.Close()
	s.Equal(http.StatusUnauthorized, refresh.StatusCode)
}

func (s *Suite) TestLogout_RequiresAuth() {
	resp := s.postJSON("/api/v1/auth/logout", dto.RefreshRequest{
		RefreshToken: "whatever",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe() {
	s.signup("me@example.com", "myself", "secret123")
	loginResp := s.login("me@example.com", "secret123")

	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/users/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", loginResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var envelope dto.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.True(envelope.Success)

	data := envelope.Data.(map[string]interface{})
	s.Equal("me@example.com", data["email"])
	s.Equal("myself", data["name"])
	s.NotEmpty(data["created_at"])
}

func (s *Suite) TestGetMe_NoToken() {
	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/users/me", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_MalformedToken() {
	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var authErr dto.AuthErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authErr))
	s.Equal("TOKEN_INVALID", authErr.ErrorCode)
	s.Equal("/api/v1/users/me", authErr.Path)
}

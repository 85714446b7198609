package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HYG-0822/myauth/internal/dto"
)

// authedClient is a bearer-token HTTP helper for the social endpoints.
type authedClient struct {
	s     *Suite
	token string
}

func (s *Suite) newUser(name string) *authedClient {
	s.T().Helper()

	email := name + "@example.com"
	s.signup(email, name, "secret123")
	loginResp := s.login(email, "secret123")

	return &authedClient{s: s, token: loginResp.AccessToken}
}

func (c *authedClient) do(method, path string, body interface{}) *http.Response {
	c.s.T().Helper()

	var buf bytes.Buffer
	if body != nil {
		c.s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.s.BaseURL+path, &buf)
	c.s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := http.DefaultClient.Do(req)
	c.s.Require().NoError(err)
	return resp
}

func (c *authedClient) envelope(resp *http.Response) dto.Response {
	c.s.T().Helper()
	defer resp.Body.Close()

	var envelope dto.Response
	c.s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func (c *authedClient) createPost(content, visibility string) int64 {
	c.s.T().Helper()

	resp := c.do(http.MethodPost, "/api/v1/posts", dto.PostCreateRequest{
		Content:    content,
		Visibility: visibility,
	})
	c.s.Require().Equal(http.StatusCreated, resp.StatusCode)

	envelope := c.envelope(resp)
	data := envelope.Data.(map[string]interface{})
	return int64(data["id"].(float64))
}

func (s *Suite) TestPostLifecycle() {
	alice := s.newUser("alice")

	postID := alice.createPost("first post about #golang", "PUBLIC")

	// get
	resp := alice.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	data := alice.envelope(resp).Data.(map[string]interface{})
	s.Equal("first post about #golang", data["content"])
	s.Equal([]interface{}{"golang"}, data["hashtags"])
	author := data["author"].(map[string]interface{})
	s.Equal("alice", author["name"])

	// update
	resp = alice.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", postID), dto.PostUpdateRequest{
		Content: "now about #redis instead",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	data = alice.envelope(resp).Data.(map[string]interface{})
	s.Equal([]interface{}{"redis"}, data["hashtags"])

	// hashtag index follows the edit
	resp = alice.do(http.MethodGet, "/api/v1/hashtags/golang/posts", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	page := alice.envelope(resp).Data.(map[string]interface{})
	s.Empty(page["content"])

	// delete, then the post is gone
	resp = alice.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = alice.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestPostVisibilityAndFollows() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")

	postID := alice.createPost("followers only", "FOLLOWERS")

	// hidden posts report not found, not forbidden
	resp := bob.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// bob follows alice (user id 1)
	resp = bob.do(http.MethodPost, "/api/v1/users/1/follow", nil)
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = bob.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// following twice conflicts, self-follow is rejected
	resp = bob.do(http.MethodPost, "/api/v1/users/1/follow", nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = bob.do(http.MethodPost, "/api/v1/users/2/follow", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// alice's followers list contains bob
	resp = alice.do(http.MethodGet, "/api/v1/users/1/followers", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	page := alice.envelope(resp).Data.(map[string]interface{})
	s.Equal(float64(1), page["totalElements"])

	// unfollow hides the post again
	resp = bob.do(http.MethodDelete, "/api/v1/users/1/follow", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = bob.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestOnlyAuthorMayModify() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")

	postID := alice.createPost("mine", "PUBLIC")

	resp := bob.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", postID), dto.PostUpdateRequest{
		Content: "hijacked",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = bob.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestCommentsAndLikes() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")

	postID := alice.createPost("discuss", "PUBLIC")

	// bob comments
	resp := bob.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), dto.CommentCreateRequest{
		Content: "interesting, @alice",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	comment := bob.envelope(resp).Data.(map[string]interface{})
	commentID := int64(comment["id"].(float64))

	// alice replies
	resp = alice.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), map[string]interface{}{
		"content":  "thanks!",
		"parentId": commentID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	reply := alice.envelope(resp).Data.(map[string]interface{})
	replyID := int64(reply["id"].(float64))

	// replying to a reply is rejected
	resp = bob.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), map[string]interface{}{
		"content":  "too deep",
		"parentId": replyID,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// the post's comment counter reflects both comments
	resp = alice.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	post := alice.envelope(resp).Data.(map[string]interface{})
	s.Equal(float64(2), post["commentCount"])

	// alice likes the comment, bob likes the post
	resp = alice.do(http.MethodPost, fmt.Sprintf("/api/v1/comments/%d/like", commentID), nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	likeData := alice.envelope(resp).Data.(map[string]interface{})
	s.Equal(float64(1), likeData["likeCount"])
	s.Equal(true, likeData["liked"])

	resp = bob.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/like", postID), nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// double like conflicts
	resp = bob.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/like", postID), nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// bob shows up among the post's likers
	resp = alice.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/likes", postID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	likers := alice.envelope(resp).Data.(map[string]interface{})
	s.Equal(float64(1), likers["totalElements"])

	// alice's mention feed carries bob's comment
	resp = alice.do(http.MethodGet, "/api/v1/users/me/mentions", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	mentions := alice.envelope(resp).Data.(map[string]interface{})
	s.Equal(float64(1), mentions["totalElements"])
}

func (s *Suite) TestDeletedCommentKeepsThread() {
	alice := s.newUser("alice")

	postID := alice.createPost("thread", "PUBLIC")

	resp := alice.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), dto.CommentCreateRequest{
		Content: "root",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	root := alice.envelope(resp).Data.(map[string]interface{})
	rootID := int64(root["id"].(float64))

	resp = alice.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), map[string]interface{}{
		"content":  "reply",
		"parentId": rootID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = alice.do(http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", rootID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = alice.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", postID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	page := alice.envelope(resp).Data.(map[string]interface{})

	roots := page["content"].([]interface{})
	s.Require().Len(roots, 1)
	deleted := roots[0].(map[string]interface{})
	s.Equal(true, deleted["deleted"])
	s.Equal("This comment has been deleted.", deleted["content"])
	s.Equal(float64(1), deleted["replyCount"])
}

func (s *Suite) TestBookmarks() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")

	postID := alice.createPost("worth saving", "PUBLIC")

	resp := bob.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/bookmark", postID), nil)
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// bookmarking twice conflicts
	resp = bob.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/bookmark", postID), nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = bob.do(http.MethodGet, "/api/v1/users/me/bookmarks", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	page := bob.envelope(resp).Data.(map[string]interface{})
	s.Equal(float64(1), page["totalElements"])

	resp = bob.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d/bookmark", postID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = bob.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d/bookmark", postID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestFeedPagination() {
	alice := s.newUser("alice")
	for i := 0; i < 5; i++ {
		alice.createPost(fmt.Sprintf("post %d", i), "PUBLIC")
	}
	alice.createPost("hidden", "PRIVATE")

	resp := alice.do(http.MethodGet, "/api/v1/posts?page=0&size=2", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	page := alice.envelope(resp).Data.(map[string]interface{})

	s.Equal(float64(5), page["totalElements"])
	s.Equal(float64(3), page["totalPages"])
	s.Len(page["content"].([]interface{}), 2)
}

func (s *Suite) TestAdminStatusUpdate() {
	admin := s.newUser("root")
	mallory := s.newUser("mallory")

	// a regular user may not change statuses
	denied := mallory.do(http.MethodPut, "/api/v1/users/1/status", dto.UserStatusUpdateRequest{Status: "SUSPENDED"})
	denied.Body.Close()
	s.Equal(http.StatusForbidden, denied.StatusCode)

	_, err := s.Postgres.DB.Exec(`UPDATE users SET role = 'ADMIN' WHERE name = 'root'`)
	s.Require().NoError(err)

	resp := admin.do(http.MethodPut, "/api/v1/users/2/status", dto.UserStatusUpdateRequest{Status: "SUSPENDED"})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(admin.envelope(resp).Success)

	// suspension cuts mallory's live sessions
	var live int
	s.Require().NoError(s.Postgres.DB.QueryRow(
		`SELECT COUNT(*) FROM refresh_tokens WHERE user_id = 2 AND revoked = FALSE`).Scan(&live))
	s.Zero(live)

	// and bars the next login
	login := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "mallory@example.com",
		Password: "secret123",
	})
	defer login.Body.Close()
	s.Equal(http.StatusBadRequest, login.StatusCode)
}

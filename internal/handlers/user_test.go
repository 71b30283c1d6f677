package handlers

import (
	"net/http"
	"testing"

	"github.com/socialpet/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFollowToggleIsSymmetric(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.addUser(t, "alice", "alice@x.com", "secret123")
	bob, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	// First call creates the edge on both sides.
	rec := s.request(http.MethodPost, "/users/"+alice.ID.Hex()+"/follow", "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.ProfileResponse
	decodeBody(t, rec, &profile)
	require.Len(t, profile.Following, 1)
	assert.Equal(t, "alice", profile.Following[0].Username)

	assert.True(t, bob.IsFollowing(alice.ID))
	require.Len(t, alice.Followers, 1)
	assert.Equal(t, bob.ID, alice.Followers[0])

	// Second call removes the edge from both sides.
	rec = s.request(http.MethodPost, "/users/"+alice.ID.Hex()+"/follow", "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &profile)
	assert.Empty(t, profile.Following)
	assert.Empty(t, alice.Followers)
	assert.False(t, bob.IsFollowing(alice.ID))
}

func TestFollowSelfAlwaysFails(t *testing.T) {
	s := newTestServer(t)
	bob, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	rec := s.request(http.MethodPost, "/users/"+bob.ID.Hex()+"/follow", "", bobToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, bob.Following)
}

func TestFollowUnknownTarget(t *testing.T) {
	s := newTestServer(t)
	_, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	rec := s.request(http.MethodPost, "/users/"+primitive.NewObjectID().Hex()+"/follow", "", bobToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileResolvesSummaries(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.addUser(t, "alice", "alice@x.com", "secret123")
	_, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	rec := s.request(http.MethodPost, "/users/"+alice.ID.Hex()+"/follow", "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/users/"+alice.ID.Hex(), "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.ProfileResponse
	decodeBody(t, rec, &profile)
	assert.Equal(t, "alice", profile.Username)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, "bob", profile.Followers[0].Username)
}

func TestGetProfileNotFound(t *testing.T) {
	s := newTestServer(t)
	_, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	rec := s.request(http.MethodGet, "/users/"+primitive.NewObjectID().Hex(), "", bobToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfilePartial(t *testing.T) {
	s := newTestServer(t)
	bob, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	rec := s.request(http.MethodPut, "/users/profile",
		`{"bio":"hello there","avatar":"https://img.example/a.png"}`, bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "hello there", bob.Bio)
	assert.Equal(t, "https://img.example/a.png", bob.Avatar)
	assert.Equal(t, "bob", bob.Username) // untouched
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "alice", "alice@x.com", "secret123")
	bob, bobToken := s.addUser(t, "bob", "bob@x.com", "secret123")

	rec := s.request(http.MethodPut, "/users/profile", `{"username":"alice"}`, bobToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bob", bob.Username)

	// Keeping one's own username is not a conflict.
	rec = s.request(http.MethodPut, "/users/profile", `{"username":"bob","bio":"hi"}`, bobToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", bob.Bio)
}

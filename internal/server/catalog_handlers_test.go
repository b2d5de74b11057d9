package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modam/internal/models"
)

func TestGetManagementGuide(t *testing.T) {
	ts := newTestServer(t)

	for _, stage := range models.Stages {
		resp := ts.request(t, http.MethodGet, "/api/guides/"+stage, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		guide := decodeBody(t, resp)["guide"].(map[string]any)
		assert.Equal(t, stage, guide["stage"])
		assert.NotEmpty(t, guide["items"])
	}

	resp := ts.request(t, http.MethodGet, "/api/guides/bald", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProducts(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decodeBody(t, resp)["products"].([]any)
	assert.NotEmpty(t, all)

	resp = ts.request(t, http.MethodGet, "/api/products?category=shampoo", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shampoos := decodeBody(t, resp)["products"].([]any)
	require.NotEmpty(t, shampoos)
	for _, raw := range shampoos {
		assert.Equal(t, "shampoo", raw.(map[string]any)["category"])
	}

	resp = ts.request(t, http.MethodGet, "/api/products?category=wigs", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetExperts(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodGet, "/api/experts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	experts := decodeBody(t, resp)["experts"].([]any)
	assert.NotEmpty(t, experts)
}

func TestReviewLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Anonymous review.
	resp := ts.request(t, http.MethodPost, "/api/reviews", "", map[string]string{
		"content": "두피 마사지 꿀팁 잘 보고 갑니다",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	review := decodeBody(t, resp)["review"].(map[string]any)
	assert.Equal(t, models.AnonymousNickname, review["nickname"])

	// Signed-in review carries the author's display nickname.
	token := ts.signup(t, "user@modam.kr", "firstuser")
	resp = ts.request(t, http.MethodPost, "/api/reviews", token, map[string]string{
		"content": "재촬영 기능이 특히 좋아요",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	review = decodeBody(t, resp)["review"].(map[string]any)
	assert.Equal(t, "테스터", review["nickname"])

	resp = ts.request(t, http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reviews := decodeBody(t, resp)["reviews"].([]any)
	require.Len(t, reviews, 2)
	assert.Equal(t, "재촬영 기능이 특히 좋아요",
		reviews[0].(map[string]any)["content"], "newest first")
}

func TestReviewLengthCap(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/reviews", "", map[string]string{
		"content": strings.Repeat("모", models.MaxReviewLength),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.request(t, http.MethodPost, "/api/reviews", "", map[string]string{
		"content": strings.Repeat("모", models.MaxReviewLength+1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.request(t, http.MethodPost, "/api/reviews", "", map[string]string{
		"content": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

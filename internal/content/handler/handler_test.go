package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rifathmfm/portfolio-api/internal/auth"
	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/content/repository"
	"github.com/rifathmfm/portfolio-api/internal/content/service"
	"github.com/rifathmfm/portfolio-api/internal/editor"
	"github.com/rifathmfm/portfolio-api/internal/models"
	"github.com/rifathmfm/portfolio-api/internal/storage"
	"github.com/rifathmfm/portfolio-api/internal/view"
)

const ownerToken = "owner-token"

// fakeRequireAuth accepts only the owner token; fakeOptionalAuth resolves it
// when present and falls back to anonymous.
func fakeRequireAuth(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+ownerToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Set(auth.ContextKey, auth.Authenticated(models.User{Sub: "owner"}))
	c.Next()
}

func fakeOptionalAuth(c *gin.Context) {
	if c.GetHeader("Authorization") == "Bearer "+ownerToken {
		c.Set(auth.ContextKey, auth.Authenticated(models.User{Sub: "owner"}))
	} else {
		c.Set(auth.ContextKey, auth.Anonymous())
	}
	c.Next()
}

type testServer struct {
	engine *gin.Engine
	svc    *service.Service
	syncer *service.Syncer
	repo   *repository.MemoryRepo
	blob   *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	svc := service.New(repo)
	syncer := service.NewSyncer(svc)
	blob := storage.NewMemoryStorage()
	ed := editor.New(svc, syncer, blob, editor.NewMemoryDraftStore())
	df := editor.NewDeleteFlow(svc, syncer)

	engine := gin.New()
	api := engine.Group("/api/v1")
	New(syncer, ed, df).Register(api, fakeRequireAuth, fakeOptionalAuth)

	return &testServer{engine: engine, svc: svc, syncer: syncer, repo: repo, blob: blob}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rw := httptest.NewRecorder()
	ts.engine.ServeHTTP(rw, req)
	return rw
}

func (ts *testServer) seed(t *testing.T, collection string, rec *content.Record) string {
	t.Helper()
	id, err := ts.svc.Upsert(context.Background(), collection, rec)
	require.NoError(t, err)
	require.NoError(t, ts.syncer.Refresh(context.Background(), collection))
	return id
}

func TestCards_AnonymousReadOnly(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "skills", &content.Record{Title: "Go", Level: 90})

	rw := ts.do(t, http.MethodGet, "/api/v1/collections/skills", nil, "")
	require.Equal(t, http.StatusOK, rw.Code)

	var list view.CardList
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &list))
	require.False(t, list.CanAdd)
	require.Len(t, list.Cards, 1)
	require.False(t, list.Cards[0].CanEdit)
	require.False(t, list.Cards[0].CanDelete)
}

func TestCards_OwnerSeesAffordances(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "skills", &content.Record{Title: "Go", Level: 90})

	rw := ts.do(t, http.MethodGet, "/api/v1/collections/skills", nil, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)

	var list view.CardList
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &list))
	require.True(t, list.CanAdd)
	require.Len(t, list.Cards, 1)
	require.True(t, list.Cards[0].CanEdit)
	require.True(t, list.Cards[0].CanDelete)
}

func TestCards_UnknownCollection(t *testing.T) {
	ts := newTestServer(t)
	rw := ts.do(t, http.MethodGet, "/api/v1/collections/blog", nil, "")
	require.Equal(t, http.StatusNotFound, rw.Code)
}

func TestDraftRoutes_RequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts", nil, "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)

	rw = ts.do(t, http.MethodPost, "/api/v1/collections/skills/records/x/delete-request", nil, "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAddFlow_OpenFillSubmit(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts", nil, ownerToken)
	require.Equal(t, http.StatusCreated, rw.Code)
	var opened struct {
		DraftID string `json:"draftId"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &opened))
	require.NotEmpty(t, opened.DraftID)

	rw = ts.do(t, http.MethodPatch, "/api/v1/collections/skills/drafts/"+opened.DraftID,
		gin.H{"title": "Docker", "level": 70}, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)

	rw = ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts/"+opened.DraftID+"/submit", nil, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)

	var submitted struct {
		Record content.Record `json:"record"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &submitted))
	require.NotEmpty(t, submitted.Record.ID)
	require.Equal(t, "Docker", submitted.Record.Title)

	// draft is gone after submit
	rw = ts.do(t, http.MethodGet, "/api/v1/collections/skills/drafts/"+opened.DraftID, nil, ownerToken)
	require.Equal(t, http.StatusNotFound, rw.Code)

	// and the card list serves the new record
	rw = ts.do(t, http.MethodGet, "/api/v1/collections/skills", nil, "")
	var list view.CardList
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &list))
	require.Len(t, list.Cards, 1)
}

func TestEditFlow_SubmitUpdatesExistingRecord(t *testing.T) {
	ts := newTestServer(t)
	id := ts.seed(t, "skills", &content.Record{Title: "Go", Level: 60})

	rw := ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts",
		gin.H{"recordId": id}, ownerToken)
	require.Equal(t, http.StatusCreated, rw.Code)
	var opened struct {
		DraftID string `json:"draftId"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &opened))

	rw = ts.do(t, http.MethodPatch, "/api/v1/collections/skills/drafts/"+opened.DraftID,
		gin.H{"level": 95}, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)

	rw = ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts/"+opened.DraftID+"/submit", nil, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)

	recs := ts.syncer.Records("skills")
	require.Len(t, recs, 1)
	require.Equal(t, id, recs[0].ID)
	require.Equal(t, 95, recs[0].Level)
}

func TestSubmit_ValidationFailureReturns422(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/collections/projects/drafts", nil, ownerToken)
	require.Equal(t, http.StatusCreated, rw.Code)
	var opened struct {
		DraftID string `json:"draftId"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &opened))

	rw = ts.do(t, http.MethodPost, "/api/v1/collections/projects/drafts/"+opened.DraftID+"/submit", nil, ownerToken)
	require.Equal(t, http.StatusUnprocessableEntity, rw.Code)

	var resp struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &resp))
	require.ElementsMatch(t, []string{"title", "description", "link"}, resp.Fields)

	// the draft stays open
	rw = ts.do(t, http.MethodGet, "/api/v1/collections/projects/drafts/"+opened.DraftID, nil, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)
}

func TestAttachImage_UploadedOnlyAtSubmit(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts", nil, ownerToken)
	var opened struct {
		DraftID string `json:"draftId"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &opened))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "go.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("gopher"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections/skills/drafts/"+opened.DraftID+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// nothing lands in the blob store until submit
	_, ok := ts.blob.Object("skills/go.png")
	require.False(t, ok)

	rw = ts.do(t, http.MethodPatch, "/api/v1/collections/skills/drafts/"+opened.DraftID,
		gin.H{"title": "Go"}, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)
	rw = ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts/"+opened.DraftID+"/submit", nil, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)

	data, ok := ts.blob.Object("skills/go.png")
	require.True(t, ok)
	require.Equal(t, []byte("gopher"), data)
}

func TestCancelDraft_Discards(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/collections/skills/drafts", nil, ownerToken)
	var opened struct {
		DraftID string `json:"draftId"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &opened))

	rw = ts.do(t, http.MethodDelete, "/api/v1/collections/skills/drafts/"+opened.DraftID, nil, ownerToken)
	require.Equal(t, http.StatusNoContent, rw.Code)

	rw = ts.do(t, http.MethodGet, "/api/v1/collections/skills/drafts/"+opened.DraftID, nil, ownerToken)
	require.Equal(t, http.StatusNotFound, rw.Code)

	// no record was created
	require.Empty(t, ts.syncer.Records("skills"))
}

func TestDeleteFlow_ConfirmPath(t *testing.T) {
	ts := newTestServer(t)
	id := ts.seed(t, "skills", &content.Record{Title: "Go"})

	base := "/api/v1/collections/skills/records/" + id

	// confirm before request is rejected
	rw := ts.do(t, http.MethodPost, base+"/delete-confirm", nil, ownerToken)
	require.Equal(t, http.StatusConflict, rw.Code)
	require.Len(t, ts.syncer.Records("skills"), 1)

	rw = ts.do(t, http.MethodPost, base+"/delete-request", nil, ownerToken)
	require.Equal(t, http.StatusAccepted, rw.Code)

	rw = ts.do(t, http.MethodPost, base+"/delete-confirm", nil, ownerToken)
	require.Equal(t, http.StatusNoContent, rw.Code)
	require.Empty(t, ts.syncer.Records("skills"))
}

func TestDeleteFlow_DismissPath(t *testing.T) {
	ts := newTestServer(t)
	id := ts.seed(t, "skills", &content.Record{Title: "Go"})

	base := "/api/v1/collections/skills/records/" + id

	rw := ts.do(t, http.MethodPost, base+"/delete-request", nil, ownerToken)
	require.Equal(t, http.StatusAccepted, rw.Code)

	rw = ts.do(t, http.MethodPost, base+"/delete-dismiss", nil, ownerToken)
	require.Equal(t, http.StatusNoContent, rw.Code)

	// nothing was deleted, and confirm after dismiss is rejected
	require.Len(t, ts.syncer.Records("skills"), 1)
	rw = ts.do(t, http.MethodPost, base+"/delete-confirm", nil, ownerToken)
	require.Equal(t, http.StatusConflict, rw.Code)
}

func TestSubmitMessage_AnonymousAllowed(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/messages", gin.H{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Love the site",
	}, "")
	require.Equal(t, http.StatusCreated, rw.Code)

	recs := ts.syncer.Records("messages")
	require.Len(t, recs, 1)
	require.Equal(t, "Visitor", recs[0].Name)
	require.Equal(t, "Love the site", recs[0].Message)
}

func TestMessages_ReadRequiresOwner(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "messages", &content.Record{
		Title:   "Message from Alice",
		Name:    "Alice",
		Email:   "alice@example.com",
		Budget:  "$5000",
		Message: "private inquiry",
	})

	// messages are write-only for visitors: both read routes reject anonymous
	rw := ts.do(t, http.MethodGet, "/api/v1/collections/messages", nil, "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.NotContains(t, rw.Body.String(), "alice@example.com")

	rw = ts.do(t, http.MethodGet, "/api/v1/collections/messages/records", nil, "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.NotContains(t, rw.Body.String(), "private inquiry")

	// the owner still sees them
	rw = ts.do(t, http.MethodGet, "/api/v1/collections/messages", nil, ownerToken)
	require.Equal(t, http.StatusOK, rw.Code)
	var list view.CardList
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &list))
	require.Len(t, list.Cards, 1)
	require.Equal(t, "alice@example.com", list.Cards[0].Record.Email)
}

func TestMessages_OtherCollectionsStayPublic(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "skills", &content.Record{Title: "Go"})

	rw := ts.do(t, http.MethodGet, "/api/v1/collections/skills", nil, "")
	require.Equal(t, http.StatusOK, rw.Code)
}

func TestSubmitMessage_MissingFieldsRejected(t *testing.T) {
	ts := newTestServer(t)

	rw := ts.do(t, http.MethodPost, "/api/v1/messages", gin.H{"name": "Visitor"}, "")
	require.Equal(t, http.StatusBadRequest, rw.Code)
	require.Empty(t, ts.syncer.Records("messages"))
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"messenger/domain"
	"messenger/repositories"
	"messenger/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	service := services.NewChatService(repositories.NewRoomRepository(db, slog.Default()), slog.Default())
	server := httptest.NewServer(NewHandler(service, slog.Default()).Routes())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func Test_Health(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
}

func Test_Attend_Then_Post_Then_Read_Back(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	// Given alice attends room 1
	resp := postJSON(t, server.URL+"/chats/attend?chatId=1", `{"person":"alice"}`)
	resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	// When she posts "hi" at 1000
	resp = postJSON(t, server.URL+"/messages/post?chatId=1", `{"author":"alice","content":"hi","timecode":1000}`)
	resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	// Then both read endpoints reflect exactly that
	getResp, err := http.Get(server.URL + "/messages/get?chatId=1")
	req.NoError(err)
	defer getResp.Body.Close()
	req.Equal(http.StatusOK, getResp.StatusCode)

	var messages []domain.Message
	req.NoError(json.NewDecoder(getResp.Body).Decode(&messages))
	req.Equal([]domain.Message{{Author: "alice", Content: "hi", Timecode: 1000}}, messages)

	peopleResp, err := http.Get(server.URL + "/chats/people?chatId=1")
	req.NoError(err)
	defer peopleResp.Body.Close()

	var people []string
	req.NoError(json.NewDecoder(peopleResp.Body).Decode(&people))
	req.Equal([]string{"alice"}, people)
}

func Test_Post_Without_Attending_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/chats/attend?chatId=1", `{"person":"alice"}`)
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/chats/post?chatId=1", `{"author":"alice","content":"hi","timecode":1000}`)
	resp.Body.Close()

	// When bob posts without attending
	resp = postJSON(t, server.URL+"/chats/post?chatId=1", `{"author":"bob","content":"yo","timecode":2000}`)
	defer resp.Body.Close()
	req.Equal(http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Equal("User not in chat", body["error"])

	// And the log still holds only alice's message
	getResp, err := http.Get(server.URL + "/chats/get?chatId=1")
	req.NoError(err)
	defer getResp.Body.Close()

	var messages []domain.Message
	req.NoError(json.NewDecoder(getResp.Body).Decode(&messages))
	req.Len(messages, 1)
	req.Equal("alice", messages[0].Author)
}

func Test_Reads_Of_Untouched_Room_Return_Empty_Arrays(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	getResp, err := http.Get(server.URL + "/messages/get?chatId=999")
	req.NoError(err)
	defer getResp.Body.Close()
	req.Equal(http.StatusOK, getResp.StatusCode)

	var messages []domain.Message
	req.NoError(json.NewDecoder(getResp.Body).Decode(&messages))
	req.NotNil(messages)
	req.Empty(messages)

	peopleResp, err := http.Get(server.URL + "/chats/people?chatId=999")
	req.NoError(err)
	defer peopleResp.Body.Close()

	var people []string
	req.NoError(json.NewDecoder(peopleResp.Body).Decode(&people))
	req.NotNil(people)
	req.Empty(people)
}

func Test_Malformed_Requests_Are_Bad_Requests(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	// Missing chatId
	resp := postJSON(t, server.URL+"/chats/attend", `{"person":"alice"}`)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Non-integer chatId
	resp = postJSON(t, server.URL+"/chats/attend?chatId=abc", `{"person":"alice"}`)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Invalid JSON body
	resp = postJSON(t, server.URL+"/chats/attend?chatId=1", `{person`)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Missing required field
	resp = postJSON(t, server.URL+"/chats/attend?chatId=1", `{}`)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Post without content
	resp = postJSON(t, server.URL+"/messages/post?chatId=1", `{"author":"alice"}`)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func Test_Responses_Carry_A_Request_Id(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	req.NoError(err)
	defer resp.Body.Close()
	req.NotEmpty(resp.Header.Get("X-Request-Id"))
}

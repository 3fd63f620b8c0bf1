package platform

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "coffeetalk/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("xoxb-test", "xapp-test", 2*time.Second, slog.Default(), WithBaseURL(server.URL))
}

func TestClient_CreateChannel(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/conversations.create", r.URL.Path)
		req.Equal("Bearer xoxb-test", r.Header.Get("Authorization"))
		req.NoError(r.ParseForm())
		req.Equal("coffeetalk_ada", r.PostForm.Get("name"))
		w.Write([]byte(`{"ok":true,"channel":{"id":"C42","name":"coffeetalk_ada","creator":"UBOT"}}`))
	})

	channel, err := client.CreateChannel(context.Background(), "coffeetalk_ada", false)
	req.NoError(err)
	req.Equal("C42", channel.ID)
	req.Equal("coffeetalk_ada", channel.Name)
	req.Equal("UBOT", channel.Creator)
}

func TestClient_CreateChannel_NameTaken(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error":"name_taken"}`))
	})

	_, err := client.CreateChannel(context.Background(), "coffeetalk_ada", false)
	req.ErrorIs(err, apperrors.ErrNameTaken)
}

func TestClient_GetUser_MapsProfileFields(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/users.info", r.URL.Path)
		w.Write([]byte(`{"ok":true,"user":{
			"id":"U1","name":"ada","deleted":false,"is_owner":true,
			"profile":{"display_name":"Ada L."}}}`))
	})

	user, err := client.GetUser(context.Background(), "U1")
	req.NoError(err)
	req.Equal("ada", user.Name)
	req.Equal("Ada L.", user.DisplayName)
	req.True(user.IsAdmin, "workspace owners count as administrators")
}

func TestClient_GetUser_NotFound(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error":"user_not_found"}`))
	})

	_, err := client.GetUser(context.Background(), "UGONE")
	req.ErrorIs(err, apperrors.ErrUserNotFound)
}

func TestClient_LookupChannelByName_FollowsCursor(t *testing.T) {
	req := require.New(t)

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/conversations.list", r.URL.Path)
		calls++
		req.NoError(r.ParseForm())
		switch calls {
		case 1:
			req.Empty(r.PostForm.Get("cursor"))
			w.Write([]byte(`{"ok":true,"channels":[{"id":"C1","name":"general"}],
				"response_metadata":{"next_cursor":"page2"}}`))
		case 2:
			req.Equal("page2", r.PostForm.Get("cursor"))
			w.Write([]byte(`{"ok":true,"channels":[{"id":"C2","name":"coffeetalk_ada"}],
				"response_metadata":{"next_cursor":""}}`))
		}
	})

	channel, err := client.LookupChannelByName(context.Background(), "coffeetalk_ada")
	req.NoError(err)
	req.Equal("C2", channel.ID)
	req.Equal(2, calls)
}

func TestClient_LookupChannelByName_Exhausted(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"channels":[{"id":"C1","name":"general"}]}`))
	})

	_, err := client.LookupChannelByName(context.Background(), "coffeetalk_nobody")
	req.ErrorIs(err, apperrors.ErrChannelNotFound)
}

func TestClient_ListMembers_Paginates(t *testing.T) {
	req := require.New(t)

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"ok":true,"members":[{"id":"U1","name":"ada"}],
				"response_metadata":{"next_cursor":"more"}}`))
			return
		}
		w.Write([]byte(`{"ok":true,"members":[{"id":"U2","name":"grace"}]}`))
	})

	members, err := client.ListMembers(context.Background())
	req.NoError(err)
	req.Len(members, 2)
	req.Equal("U1", members[0].ID)
	req.Equal("U2", members[1].ID)
}

func TestClient_Authenticate(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/auth.test", r.URL.Path)
		w.Write([]byte(`{"ok":true,"user_id":"UBOT","team":"T1"}`))
	})

	req.Empty(client.BotUserID())
	req.NoError(client.Authenticate(context.Background()))
	req.Equal("UBOT", client.BotUserID())
}

func TestClient_OpenDirectMessage(t *testing.T) {
	req := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/conversations.open", r.URL.Path)
		req.NoError(r.ParseForm())
		req.Equal("U1", r.PostForm.Get("users"))
		w.Write([]byte(`{"ok":true,"channel":{"id":"D77"}}`))
	})

	dm, err := client.OpenDirectMessage(context.Background(), "U1")
	req.NoError(err)
	req.Equal("D77", dm)
}

func TestClient_CallTimeout(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	client := NewClient("xoxb", "xapp", 20*time.Millisecond, slog.Default(), WithBaseURL(server.URL))

	err := client.PostMessage(context.Background(), "C1", "hello")
	req.Error(err)
	req.ErrorIs(err, context.DeadlineExceeded)
}

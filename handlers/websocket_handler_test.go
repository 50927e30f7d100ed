package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/coforge-registration/controllers"
	"github.com/Dosada05/coforge-registration/live"
	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/repositories"
	"github.com/Dosada05/coforge-registration/services"
)

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://coforge.dev"})
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, check(req("")))
	assert.True(t, check(req("https://coforge.dev")))
	assert.False(t, check(req("https://evil.example")))
	assert.True(t, originChecker([]string{"*"})(req("https://evil.example")))
}

func startLiveServer(t *testing.T, store repositories.DataStore, origins []string) (string, *live.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := live.NewHub(nil)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		_ = hub.Run(ctx)
	}()

	h := NewWebSocketHandler(hub, services.NewRegistrationService(store, nil), origins, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWs))
	t.Cleanup(func() {
		cancel()
		<-hubDone
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func readState(t *testing.T, conn *websocket.Conn) live.StateFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame live.StateFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, live.FrameState, frame.Type)
	return frame
}

func TestServeWs_SubmitRoundTrip(t *testing.T) {
	store := repositories.NewMemoryStore()
	wsURL, hub := startLiveServer(t, store, []string{"*"})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readState(t, conn)
	assert.True(t, initial.Ready)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	changes := map[models.Field]string{
		models.FieldLeaderName:           "Asha",
		models.FieldLeaderCollege:        "GEC",
		models.FieldLeaderPhone:          "9000000001",
		models.FieldLeaderEmail:          "asha@example.com",
		models.FieldCoLeaderName:         "Ravi",
		models.FieldCoLeaderCollege:      "NIT",
		models.FieldCoLeaderPhone:        "9000000002",
		models.FieldCoLeaderEmail:        "ravi@example.com",
		models.FieldCommunity:            "Cybrian",
		models.FieldSource:               "WhatsApp/Telegram Group",
		models.FieldEligibilityConfirmed: "true",
	}
	for f, v := range changes {
		require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventChange, Field: f, Value: v}))
		readState(t, conn)
	}

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventSubmit}))
	busy := readState(t, conn)
	assert.True(t, busy.Busy)

	final := readState(t, conn)
	assert.Equal(t, models.Outcome{Kind: models.OutcomeSuccess, Message: controllers.SuccessMessage}, final.Outcome)
	assert.Equal(t, models.FormState{}, final.Form)
	require.Len(t, store.Rows(models.RegistrationsTable), 1)
}

func TestServeWs_RejectsForeignOrigin(t *testing.T) {
	wsURL, _ := startLiveServer(t, repositories.NewMemoryStore(), []string{"https://coforge.dev"})

	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// A page re-rendered after a failed POST keeps the input; a socket opened on it
// replays those values before submitting.
func TestServeWs_ReplayOfRenderedForm(t *testing.T) {
	store := repositories.NewMemoryStore()
	store.FailWith(&repositories.StoreError{Message: "temporary failure"})

	fh := newFormHandler(t, store)
	form := validPost(models.CommunityOther)
	form.Set("community_other", "Hack Club")
	_, doc := post(t, fh, form)
	require.Contains(t, doc.Find("#banner").Text(), "temporary failure")
	store.FailWith(nil)

	wsURL, _ := startLiveServer(t, store, []string{"*"})
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	readState(t, conn)

	var last live.StateFrame
	for _, f := range models.TextFields {
		value := inputValue(doc, string(f))
		if f == models.FieldCommunity || f == models.FieldSource {
			value, _ = doc.Find(`select[name="` + string(f) + `"] option[selected]`).Attr("value")
		}
		require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventChange, Field: f, Value: value}))
		last = readState(t, conn)
	}
	_, checked := doc.Find(`input[name="eligibility_confirmed"]`).Attr("checked")
	require.True(t, checked)
	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventChange, Field: models.FieldEligibilityConfirmed, Value: "true"}))
	last = readState(t, conn)

	assert.Equal(t, "Asha", last.Form.Leader.Name)
	assert.Equal(t, "Hack Club", last.Form.CommunityOther)
	assert.True(t, last.ShowOther)

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventSubmit}))
	assert.True(t, readState(t, conn).Busy)
	final := readState(t, conn)
	assert.Equal(t, models.OutcomeSuccess, final.Outcome.Kind)

	rows := store.Rows(models.RegistrationsTable)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CommunityOther)
	assert.Equal(t, "Hack Club", *rows[0].CommunityOther)
}

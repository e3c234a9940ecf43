package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"snix.ai/snix-web/internal/observability"
)

func dial(t *testing.T, ts *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	return websocket.DefaultDialer.Dial(url, header)
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var m Message
		require.NoError(t, conn.ReadJSON(&m))
		if m.Type == typ {
			return m
		}
	}
}

func TestWebsocketSession(t *testing.T) {
	metrics := observability.NewMetrics()
	srv := NewServer(Options{
		Catalog: fixedCatalog{loadCatalog(t)},
		Renderer: RendererFunc(func(_ context.Context, v View) (string, error) {
			return `<section data-page="` + v.Page.String() + `"></section>`, nil
		}),
		Metrics: metrics,
	})
	mux := http.NewServeMux()
	mux.Handle("/live", srv)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	conn, _, err := dial(t, ts, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Event{Type: EventHello, Observer: true, Resume: true}))
	ready := readUntil(t, conn, MsgReady)
	require.Equal(t, "home", ready.Page)
	page := readUntil(t, conn, MsgPage)
	require.Contains(t, page.HTML, `data-page="home"`)
	require.Equal(t, 1, srv.Len())

	require.NoError(t, conn.WriteJSON(Event{Type: EventNavigate, Page: "ai-shoot"}))
	page = readUntil(t, conn, MsgPage)
	require.Equal(t, "ai-shoot", page.Page)

	require.NoError(t, conn.WriteJSON(Event{Type: EventNavigate, Page: "pricing"}))
	failed := readUntil(t, conn, MsgError)
	require.Equal(t, CodeUnknownPage, failed.Error.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	failed = readUntil(t, conn, MsgError)
	require.Equal(t, CodeBadEvent, failed.Error.Code)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.LiveSessions))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.LiveEvents.WithLabelValues(EventNavigate)))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return srv.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.LiveSessions))
}

func TestWebsocketRejectsForeignOrigin(t *testing.T) {
	srv := NewServer(Options{Catalog: fixedCatalog{loadCatalog(t)}, AllowedOrigins: []string{"https://snix.ai/"}})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), http.Header{"Origin": {"https://evil.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Eventually(t, func() bool { return srv.Len() == 0 }, time.Second, 10*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), http.Header{"Origin": {"https://snix.ai"}})
	require.NoError(t, err)
	_ = conn.Close()
}

func TestWebsocketCapacity(t *testing.T) {
	srv := NewServer(Options{Catalog: fixedCatalog{loadCatalog(t)}, MaxSessions: 1})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer first.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCheckOriginDefaultsToSameHost(t *testing.T) {
	srv := NewServer(Options{Catalog: fixedCatalog{loadCatalog(t)}})
	req := httptest.NewRequest(http.MethodGet, "http://snix.ai/live", nil)
	require.True(t, srv.checkOrigin(req))
	req.Header.Set("Origin", "http://snix.ai")
	require.True(t, srv.checkOrigin(req))
	req.Header.Set("Origin", "http://other.example")
	require.False(t, srv.checkOrigin(req))
}

package webshare

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("user", "secret",
		WithBaseURL(server.URL),
		WithMinInterval(0),
	)
	client.sleep = noSleep
	return client, server
}

func loginHandler(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	mux.HandleFunc("/salt/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user", r.PostForm.Get("username_or_email"))
		fmt.Fprint(w, `<response><status>OK</status><salt>pepper</salt></response>`)
	})
	mux.HandleFunc("/login/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user", r.PostForm.Get("username_or_email"))
		assert.Equal(t, passwordHash("secret", "pepper"), r.PostForm.Get("password"))
		assert.Equal(t, loginDigest("user", passwordHash("secret", "pepper")), r.PostForm.Get("digest"))
		assert.Equal(t, "1", r.PostForm.Get("keep_logged_in"))
		fmt.Fprint(w, `<response><status>OK</status><token>tok123</token></response>`)
	})
}

func TestMD5Crypt(t *testing.T) {
	// Reference vector from crypt(3).
	assert.Equal(t, "$1$salt$qJH7.N4xYta3aEG/dfqo/0", md5crypt([]byte("password"), []byte("salt")))
}

func TestClient_Login(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(t, mux)
	client, _ := newTestClient(t, mux)

	require.NoError(t, client.Login(context.Background()))
	assert.Equal(t, "tok123", client.Token())
}

func TestClient_LoginRetriesThenFails(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/salt/", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		fmt.Fprint(w, `<response><status>FATAL</status></response>`)
	})
	client, _ := newTestClient(t, mux)

	err := client.Login(context.Background())
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, 3, attempts)

	// Terminal failure: no further login attempts in this run.
	_, err = client.Search(context.Background(), "anything", 10)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, 3, attempts)
}

func searchPage(idents []string) string {
	body := `<response><status>OK</status>`
	for _, id := range idents {
		body += fmt.Sprintf(`<file><ident>%s</ident><name>file-%s.mkv</name><size>1000</size></file>`, id, id)
	}
	return body + `</response>`
}

func TestClient_SearchFiltersAndDedups(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(t, mux)
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tok123", r.PostForm.Get("wst"))
		assert.Equal(t, "matrix", r.PostForm.Get("what"))
		fmt.Fprint(w, `<response><status>OK</status>`+
			`<file><ident>a1</ident><name>The.Matrix.1999.1080p.mkv</name><size>4200</size></file>`+
			`<file><ident>a1</ident><name>The.Matrix.1999.1080p.mkv</name><size>4200</size></file>`+
			`<file><ident>a2</ident><name>The.Matrix.srt</name><size>10</size></file>`+
			`<file><ident>a3</ident><name>The.Matrix.1999.720p.avi</name><size>1400</size></file>`+
			`</response>`)
	})
	client, _ := newTestClient(t, mux)

	files, err := client.Search(context.Background(), "matrix", 100)
	require.NoError(t, err)
	require.Len(t, files, 2, "duplicate ident and non-video file should be dropped")
	assert.Equal(t, File{Ident: "a1", Name: "The.Matrix.1999.1080p.mkv", Size: 4200}, files[0])
	assert.Equal(t, "a3", files[1].Ident)
}

func TestClient_SearchPaginatesUntilLowYield(t *testing.T) {
	var offsets []string
	mux := http.NewServeMux()
	loginHandler(t, mux)
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		offsets = append(offsets, r.PostForm.Get("offset"))

		if r.PostForm.Get("offset") == "0" {
			ids := make([]string, 15)
			for i := range ids {
				ids[i] = "p0-" + strconv.Itoa(i)
			}
			fmt.Fprint(w, searchPage(ids))
			return
		}
		// Second page yields fewer than the low-yield threshold.
		fmt.Fprint(w, searchPage([]string{"p1-0", "p1-1"}))
	})
	client, _ := newTestClient(t, mux)

	files, err := client.Search(context.Background(), "show", 500)
	require.NoError(t, err)
	assert.Len(t, files, 17)
	assert.Equal(t, []string{"0", "100"}, offsets, "pagination should stop after the thin page")
}

func TestClient_SearchTruncatesOnPageError(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	loginHandler(t, mux)
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			ids := make([]string, 20)
			for i := range ids {
				ids[i] = "x" + strconv.Itoa(i)
			}
			fmt.Fprint(w, searchPage(ids))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})
	client, _ := newTestClient(t, mux)

	files, err := client.Search(context.Background(), "show", 500)
	require.NoError(t, err, "a failed page truncates, it does not fail the query")
	assert.Len(t, files, 20)
}

func TestClient_FileInfo(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(t, mux)
	mux.HandleFunc("/file_info/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc9", r.PostForm.Get("ident"))
		fmt.Fprint(w, `<response><status>OK</status><name>movie.mkv</name><size>777</size></response>`)
	})
	client, _ := newTestClient(t, mux)

	file, err := client.FileInfo(context.Background(), "abc9")
	require.NoError(t, err)
	assert.Equal(t, &File{Ident: "abc9", Name: "movie.mkv", Size: 777}, file)
}

func TestClient_FileLink(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(t, mux)
	mux.HandleFunc("/file_link/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<response><status>OK</status><link>https://dl.example/f/abc9</link></response>`)
	})
	client, _ := newTestClient(t, mux)

	link, err := client.FileLink(context.Background(), "abc9")
	require.NoError(t, err)
	assert.Equal(t, "https://dl.example/f/abc9", link)
}

func TestExtractIdent(t *testing.T) {
	tests := []struct {
		link  string
		ident string
	}{
		{"https://webshare.cz/#/file/JyQkeGpXwA/uncharted-2023-cz-dab-mkv", "JyQkeGpXwA"},
		{"https://webshare.cz/file/abcDEF123", "abcDEF123"},
		{"https://example.com/download?ident=zzz111", "zzz111"},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			ident, err := ExtractIdent(tt.link)
			require.NoError(t, err)
			assert.Equal(t, tt.ident, ident)
		})
	}

	_, err := ExtractIdent("https://example.com/nothing-here")
	assert.ErrorIs(t, err, ErrNoIdent)
}

func TestLimiterEnforcesInterval(t *testing.T) {
	l := newLimiter(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.wait(ctx))
	require.NoError(t, l.wait(ctx))
	require.NoError(t, l.wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}
